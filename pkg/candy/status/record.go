package status

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// record is the field map of one appliance status object. Devices send
// numbers as strings and booleans as "1"/"0".
type record map[string]any

func (r record) has(name string) bool {
	_, ok := r[name]
	return ok
}

func (r record) str(name string) (string, error) {
	v, ok := r[name]
	if !ok {
		return "", fmt.Errorf("missing field %q", name)
	}
	switch t := v.(type) {
	case string:
		return t, nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(t), nil
	default:
		return "", fmt.Errorf("field %q has unexpected type %T", name, v)
	}
}

func (r record) number(name string) (int, error) {
	v, ok := r[name]
	if !ok {
		return 0, fmt.Errorf("missing field %q", name)
	}
	switch t := v.(type) {
	case float64:
		return int(t), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, fmt.Errorf("field %q: %w", name, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("field %q has unexpected type %T", name, v)
	}
}

// optInt returns nil when the field is absent.
func (r record) optInt(name string) (*int, error) {
	if !r.has(name) {
		return nil, nil
	}
	n, err := r.number(name)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r record) flag(name string) (bool, error) {
	s, err := r.str(name)
	if err != nil {
		return false, err
	}
	return s == "1", nil
}

func (r record) state(name string, table stateTable) (State, error) {
	code, err := r.number(name)
	if err != nil {
		return State{}, err
	}
	return table.lookup(code)
}

// fieldReader collects the first error so parsers read like a field list.
type fieldReader struct {
	rec record
	err error
}

func (f *fieldReader) number(name string) int {
	n, err := f.rec.number(name)
	f.keep(err)
	return n
}

func (f *fieldReader) optInt(name string) *int {
	n, err := f.rec.optInt(name)
	f.keep(err)
	return n
}

func (f *fieldReader) str(name string) string {
	s, err := f.rec.str(name)
	f.keep(err)
	return s
}

func (f *fieldReader) flag(name string) bool {
	b, err := f.rec.flag(name)
	f.keep(err)
	return b
}

func (f *fieldReader) state(name string, table stateTable) State {
	s, err := f.rec.state(name, table)
	f.keep(err)
	return s
}

func (f *fieldReader) keep(err error) {
	if f.err == nil && err != nil {
		f.err = err
	}
}

// secondsToMinutes rounds half to even.
func secondsToMinutes(seconds int) int {
	return int(math.RoundToEven(float64(seconds) / 60))
}
