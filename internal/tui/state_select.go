package tui

import (
	"fmt"

	"nathanbeddoewebdev/hureg/internal/registry/domain"

	"github.com/charmbracelet/huh"
)

// settableStates are the states a registrar may move a domain into.
var settableStates = []domain.DomainState{
	domain.StateOK,
	domain.StateDeactivated,
	domain.StateZoneDeactivated,
}

// SelectState asks which state to move name into. current is the state
// code the registry reported and is marked in the list.
func SelectState(name, current string) (domain.DomainState, error) {
	selected := domain.StateOK
	if cur, err := domain.ParseDomainState(current); err == nil {
		selected = cur
	}

	field := huh.NewSelect[domain.DomainState]().
		Title(fmt.Sprintf("New state for %s", name)).
		Options(buildStateOptions(current)...).
		Value(&selected)

	if err := runForm(huh.NewGroup(field)); err != nil {
		return 0, err
	}
	return selected, nil
}

func buildStateOptions(current string) []huh.Option[domain.DomainState] {
	options := make([]huh.Option[domain.DomainState], 0, len(settableStates))
	for _, st := range settableStates {
		label := fmt.Sprintf("%s (%s)", st, st.Code())
		if st.Code() == current {
			label += " - current"
		}
		options = append(options, huh.NewOption(label, st))
	}
	return options
}
