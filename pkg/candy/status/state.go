package status

import "fmt"

// State is an enumerated device value: the code sent on the wire and the
// label shown to users.
type State struct {
	Code  int
	Label string
}

func (s State) String() string {
	return s.Label
}

// stateTable is the closed set of values a field may take.
type stateTable struct {
	name   string
	states []State
}

func (t stateTable) lookup(code int) (State, error) {
	for _, s := range t.states {
		if s.Code == code {
			return s, nil
		}
	}
	return State{}, fmt.Errorf("unknown %s code %d", t.name, code)
}

// Washing machines and tumble dryers share the machine mode values.
var (
	MachineIdle                   = State{1, "Idle"}
	MachineRunning                = State{2, "Running"}
	MachinePaused                 = State{3, "Paused"}
	MachineDelayedStartSelection  = State{4, "Delayed start selection"}
	MachineDelayedStartProgrammed = State{5, "Delayed start programmed"}
	MachineError                  = State{6, "Error"}
	MachineFinished               = State{7, "Finished"}

	machineStates = stateTable{name: "machine state", states: []State{
		MachineIdle, MachineRunning, MachinePaused, MachineDelayedStartSelection,
		MachineDelayedStartProgrammed, MachineError, MachineFinished,
	}}
)

var (
	WashStopped   = State{0, "Stopped"}
	WashPreWash   = State{1, "Pre-wash"}
	WashWash      = State{2, "Wash"}
	WashRinse     = State{3, "Rinse"}
	WashLastRinse = State{4, "Last rinse"}
	WashEnd       = State{5, "End"}
	WashDrying    = State{6, "Drying"}
	WashError     = State{7, "Error"}
	WashSteam     = State{8, "Steam"}
	WashGoodNight = State{9, "Spin - Good Night"}
	WashSpin      = State{10, "Spin"}

	washProgramStates = stateTable{name: "wash program state", states: []State{
		WashStopped, WashPreWash, WashWash, WashRinse, WashLastRinse, WashEnd,
		WashDrying, WashError, WashSteam, WashGoodNight, WashSpin,
	}}
)

var (
	DryerStopped = State{0, "Stopped"}
	DryerRunning = State{2, "Running"}
	DryerEnd     = State{3, "End"}

	dryerProgramStates = stateTable{name: "dryer program state", states: []State{
		DryerStopped, DryerRunning, DryerEnd,
	}}
)

var (
	DryerCycleTimed      = State{0, "Timed Dry"}
	DryerCycleIronDry    = State{1, "Iron Dry"}
	DryerCycleHangDry    = State{2, "Hang Dry"}
	DryerCycleCupboard   = State{3, "Cupboard Dry"}
	DryerCycleExtraDry   = State{4, "Extra Dry"}
	DryerCycleRefreshing = State{5, "Refresh"}

	dryerCycleStates = stateTable{name: "dryer cycle state", states: []State{
		DryerCycleTimed, DryerCycleIronDry, DryerCycleHangDry,
		DryerCycleCupboard, DryerCycleExtraDry, DryerCycleRefreshing,
	}}
)

var (
	OvenIdle    = State{0, "Idle"}
	OvenHeating = State{1, "Heating"}

	ovenStates = stateTable{name: "oven state", states: []State{OvenIdle, OvenHeating}}
)

var (
	DishwasherIdle     = State{0, "Idle"}
	DishwasherPreWash  = State{1, "Pre-wash"}
	DishwasherWash     = State{2, "Wash"}
	DishwasherRinse    = State{3, "Rinse"}
	DishwasherDrying   = State{4, "Drying"}
	DishwasherFinished = State{5, "Finished"}

	dishwasherStates = stateTable{name: "dishwasher state", states: []State{
		DishwasherIdle, DishwasherPreWash, DishwasherWash,
		DishwasherRinse, DishwasherDrying, DishwasherFinished,
	}}
)

var (
	HobIdle    = State{0, "Idle"}
	HobHeating = State{1, "Heating"}

	hobStates = stateTable{name: "hob state", states: []State{HobIdle, HobHeating}}
)

var (
	HoodIdle    = State{0, "Idle"}
	HoodRunning = State{1, "Running"}

	hoodStates = stateTable{name: "hood state", states: []State{HoodIdle, HoodRunning}}
)

var (
	FridgeOn = State{1, "On"}
)
