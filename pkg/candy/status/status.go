// Package status maps decoded status documents to typed appliance records.
//
// A document is a JSON object with a single marker key naming the appliance
// kind (statusLavatrice, statusTD, statusForno, ...) whose value holds the
// device fields.
package status

import (
	"encoding/json"
	"fmt"

	candyerrors "github.com/provide-io/candy/go/candy/pkg/candy/errors"
)

// Kind identifies an appliance family.
type Kind struct {
	Marker string
	Name   string
	Area   string
}

func (k Kind) String() string {
	return k.Name
}

var (
	KindWashingMachine = Kind{Marker: "statusLavatrice", Name: "Washing machine", Area: "Bathroom"}
	KindTumbleDryer    = Kind{Marker: "statusTD", Name: "Tumble dryer", Area: "Bathroom"}
	KindOven           = Kind{Marker: "statusForno", Name: "Oven", Area: "Kitchen"}
	KindDishwasher     = Kind{Marker: "statusDWash", Name: "Dishwasher", Area: "Kitchen"}
	KindHob            = Kind{Marker: "statusPiano", Name: "Hob", Area: "Kitchen"}
	KindHood           = Kind{Marker: "statusHood", Name: "Hood", Area: "Kitchen"}
	KindFridge         = Kind{Marker: "statusFrigo", Name: "Fridge", Area: "Kitchen"}
)

// Attribute is one named value of a status, in display order.
type Attribute struct {
	Name  string
	Value any
}

// Status is implemented by every appliance record.
type Status interface {
	Kind() Kind
	// State is the main machine state.
	State() State
	// Active reports whether the appliance is doing something.
	Active() bool
	Attributes() []Attribute
}

type parser struct {
	kind  Kind
	parse func(record) (Status, error)
}

// Checked in order; the first marker present wins.
var parsers = []parser{
	{KindTumbleDryer, parseTumbleDryer},
	{KindWashingMachine, parseWashingMachine},
	{KindOven, parseOven},
	{KindDishwasher, parseDishwasher},
	{KindHob, parseHob},
	{KindHood, parseHood},
	{KindFridge, parseFridge},
}

// Parse selects the appliance variant by marker key and parses its fields.
// Field errors wrap ErrMalformedResponse, a missing marker is
// ErrUnknownAppliance.
func Parse(doc map[string]any) (Status, error) {
	for _, p := range parsers {
		raw, ok := doc[p.kind.Marker]
		if !ok {
			continue
		}
		fields, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s is not an object", candyerrors.ErrMalformedResponse, p.kind.Marker)
		}
		s, err := p.parse(record(fields))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", candyerrors.ErrMalformedResponse, p.kind.Name, err)
		}
		return s, nil
	}
	return nil, candyerrors.ErrUnknownAppliance
}

// ParseJSON decodes data and parses it with Parse.
func ParseJSON(data []byte) (Status, error) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", candyerrors.ErrMalformedResponse, err)
	}
	return Parse(doc)
}

// AttributeMap flattens the attributes of s, including its state label.
func AttributeMap(s Status) map[string]any {
	attrs := s.Attributes()
	m := make(map[string]any, len(attrs)+2)
	m["kind"] = s.Kind().Name
	m["state"] = s.State().Label
	for _, a := range attrs {
		m[a.Name] = a.Value
	}
	return m
}
