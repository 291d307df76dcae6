package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// DomainState is a registry-defined domain state code.
type DomainState int

const (
	// StateOK is the base active state.
	StateOK DomainState = 8

	// StateDeactivated disables automatic prolongation.
	StateDeactivated DomainState = 30

	// StateZoneDeactivated disables automatic prolongation and removes the
	// domain from the zone.
	StateZoneDeactivated DomainState = 31

	// StateConditionalUse is the first state of a working domain that is
	// still in conditional use.
	StateConditionalUse DomainState = 35
)

var stateNames = map[DomainState]string{
	StateOK:              "ok",
	StateDeactivated:     "deactivated",
	StateZoneDeactivated: "zone-deactivated",
	StateConditionalUse:  "conditional-use",
}

// Code returns the registry wire representation of the state.
func (s DomainState) Code() string {
	return strconv.Itoa(int(s))
}

func (s DomainState) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return s.Code()
}

// ParseDomainState accepts either a numeric registry code or one of the
// named states ("ok", "deactivated", "zone-deactivated", "conditional-use").
func ParseDomainState(s string) (DomainState, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		return DomainState(n), nil
	}
	for state, name := range stateNames {
		if name == s {
			return state, nil
		}
	}
	return 0, fmt.Errorf("unknown domain state %q", s)
}
