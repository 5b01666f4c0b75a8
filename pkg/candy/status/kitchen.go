package status

import "fmt"

// OvenStatus is the statusForno variant.
type OvenStatus struct {
	MachineState         State
	Program              int
	Selection            int
	Temp                 int
	TempReached          bool
	ProgramLengthMinutes *int
	RemoteControl        bool
}

func parseOven(rec record) (Status, error) {
	f := &fieldReader{rec: rec}
	s := &OvenStatus{
		MachineState:         f.state("StatoForno", ovenStates),
		Program:              f.number("Program"),
		Selection:            f.number("Selettore"),
		Temp:                 f.number("TempRead"),
		TempReached:          f.flag("TempRaggiunta"),
		ProgramLengthMinutes: f.optInt("TimeProgr"),
		RemoteControl:        f.flag("StatoWiFi"),
	}
	if f.err != nil {
		return nil, f.err
	}
	return s, nil
}

func (s *OvenStatus) Kind() Kind   { return KindOven }
func (s *OvenStatus) State() State { return s.MachineState }
func (s *OvenStatus) Active() bool { return s.MachineState != OvenIdle }

func (s *OvenStatus) Attributes() []Attribute {
	attrs := []Attribute{
		{"program", s.Program},
		{"selection", s.Selection},
		{"temperature", s.Temp},
		{"temperature_reached", s.TempReached},
		{"remote_control", s.RemoteControl},
	}
	if s.ProgramLengthMinutes != nil {
		attrs = append(attrs, Attribute{"program_length_minutes", *s.ProgramLengthMinutes})
	}
	return attrs
}

// DishwasherStatus is the statusDWash variant.
type DishwasherStatus struct {
	MachineState      State
	Program           string
	RemainingMinutes  int
	RemoteControl     bool
	DoorOpen          bool
	DoorOpenAllowed   *bool
	EcoMode           bool
	SaltEmpty         bool
	RinseAidEmpty     bool
	DelayedStartHours *int
}

// programOptionSuffix maps OpzProg to the suffix shown after the program.
var programOptionSuffix = map[string]string{
	"p": "+",
	"m": "-",
}

func parseDishwasher(rec record) (Status, error) {
	f := &fieldReader{rec: rec}
	s := &DishwasherStatus{
		MachineState:      f.state("StatoDWash", dishwasherStates),
		Program:           f.str("Program"),
		RemainingMinutes:  f.number("RemTime"),
		RemoteControl:     f.flag("StatoWiFi"),
		DoorOpen:          f.flag("OpenDoor"),
		EcoMode:           f.flag("Eco"),
		SaltEmpty:         f.flag("MissSalt"),
		RinseAidEmpty:     f.flag("MissRinse"),
		DelayedStartHours: f.optInt("DelayStart"),
	}
	if rec.has("OpzProg") {
		s.Program += programOptionSuffix[f.str("OpzProg")]
	}
	if rec.has("OpenDoorOpt") {
		allowed := f.flag("OpenDoorOpt")
		s.DoorOpenAllowed = &allowed
	}
	if f.err != nil {
		return nil, f.err
	}
	return s, nil
}

func (s *DishwasherStatus) Kind() Kind   { return KindDishwasher }
func (s *DishwasherStatus) State() State { return s.MachineState }
func (s *DishwasherStatus) Active() bool { return s.MachineState != DishwasherIdle }

// CycleRemainingMinutes is zero while idle or finished.
func (s *DishwasherStatus) CycleRemainingMinutes() int {
	if s.MachineState == DishwasherIdle || s.MachineState == DishwasherFinished {
		return 0
	}
	return s.RemainingMinutes
}

func (s *DishwasherStatus) Attributes() []Attribute {
	attrs := []Attribute{
		{"program", s.Program},
		{"remaining_minutes", s.CycleRemainingMinutes()},
		{"remote_control", s.RemoteControl},
		{"door_open", s.DoorOpen},
		{"eco_mode", s.EcoMode},
		{"salt_empty", s.SaltEmpty},
		{"rinse_aid_empty", s.RinseAidEmpty},
	}
	if s.DoorOpenAllowed != nil {
		attrs = append(attrs, Attribute{"door_open_allowed", *s.DoorOpenAllowed})
	}
	if s.DelayedStartHours != nil {
		attrs = append(attrs, Attribute{"delayed_start_hours", *s.DelayedStartHours})
	}
	return attrs
}

// HobZones is the number of cooking zones reported by a hob.
const HobZones = 4

// HobHeaterStatus is one cooking zone.
type HobHeaterStatus struct {
	Zone             int
	Power            int
	RemainingMinutes int
}

// HobStatus is the statusPiano variant.
type HobStatus struct {
	MachineState  State
	Heaters       []HobHeaterStatus
	RemoteControl bool
}

func parseHob(rec record) (Status, error) {
	f := &fieldReader{rec: rec}
	s := &HobStatus{
		MachineState:  f.state("StatoPiano", hobStates),
		RemoteControl: f.flag("StatoWiFi"),
	}
	for zone := 1; zone <= HobZones; zone++ {
		power := fmt.Sprintf("PotenzaZona%d", zone)
		if !rec.has(power) {
			continue
		}
		s.Heaters = append(s.Heaters, HobHeaterStatus{
			Zone:             zone,
			Power:            f.number(power),
			RemainingMinutes: f.number(fmt.Sprintf("TimerZona%d", zone)),
		})
	}
	if f.err != nil {
		return nil, f.err
	}
	return s, nil
}

func (s *HobStatus) Kind() Kind   { return KindHob }
func (s *HobStatus) State() State { return s.MachineState }
func (s *HobStatus) Active() bool { return s.MachineState != HobIdle }

func (s *HobStatus) Attributes() []Attribute {
	attrs := []Attribute{{"remote_control", s.RemoteControl}}
	for _, h := range s.Heaters {
		attrs = append(attrs,
			Attribute{fmt.Sprintf("heater_%d_power", h.Zone), h.Power},
			Attribute{fmt.Sprintf("heater_%d_remaining_minutes", h.Zone), h.RemainingMinutes},
		)
	}
	return attrs
}

// HoodStatus is the statusHood variant.
type HoodStatus struct {
	MachineState  State
	FanSpeed      int
	Light         bool
	RemoteControl bool
}

func parseHood(rec record) (Status, error) {
	f := &fieldReader{rec: rec}
	s := &HoodStatus{
		MachineState:  f.state("MachMd", hoodStates),
		FanSpeed:      f.number("FanSpeed"),
		Light:         f.flag("Light"),
		RemoteControl: f.flag("StatoWiFi"),
	}
	if f.err != nil {
		return nil, f.err
	}
	return s, nil
}

func (s *HoodStatus) Kind() Kind   { return KindHood }
func (s *HoodStatus) State() State { return s.MachineState }
func (s *HoodStatus) Active() bool { return s.MachineState != HoodIdle }

func (s *HoodStatus) Attributes() []Attribute {
	return []Attribute{
		{"fan_speed", s.FanSpeed},
		{"light", s.Light},
		{"remote_control", s.RemoteControl},
	}
}

// FridgeStatus is the statusFrigo variant. A fridge is always on.
type FridgeStatus struct {
	CoolingTemp   int
	FreezingTemp  int
	ErrorCode     int
	RemoteControl bool
}

func parseFridge(rec record) (Status, error) {
	f := &fieldReader{rec: rec}
	s := &FridgeStatus{
		CoolingTemp:   f.number("TempFrigo"),
		FreezingTemp:  f.number("TempFreezer"),
		RemoteControl: f.flag("StatoWiFi"),
	}
	if rec.has("Error") {
		s.ErrorCode = f.number("Error")
	}
	if f.err != nil {
		return nil, f.err
	}
	return s, nil
}

func (s *FridgeStatus) Kind() Kind   { return KindFridge }
func (s *FridgeStatus) State() State { return FridgeOn }
func (s *FridgeStatus) Active() bool { return true }

func (s *FridgeStatus) Attributes() []Attribute {
	return []Attribute{
		{"cooling_temperature", s.CoolingTemp},
		{"freezing_temperature", s.FreezingTemp},
		{"error_code", s.ErrorCode},
		{"remote_control", s.RemoteControl},
	}
}
