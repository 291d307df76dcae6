package tui

import (
	"errors"
	"fmt"
	"strings"

	"nathanbeddoewebdev/hureg/internal/registry/contact"

	"github.com/asaskevich/govalidator"
	"github.com/charmbracelet/huh"
)

// ContactForm collects the fields of a new contact of the given schema.
// prefill values (keyed by wire tag or semantic name) seed the inputs.
func ContactForm(schema *contact.Schema, prefill map[string]string) (*contact.Record, error) {
	rec := contact.New(schema, prefill)

	values := make([]string, len(schema.Fields))
	inputs := make([]huh.Field, 0, len(schema.Fields))
	for i, f := range schema.Fields {
		values[i] = rec.Get(f.Tag)
		inputs = append(inputs, huh.NewInput().
			Title(f.Label).
			Description(f.Tag).
			Value(&values[i]).
			Validate(fieldValidator(schema, f)))
	}

	title := huh.NewNote().
		Title(fmt.Sprintf("New %s contact", schema.Kind)).
		Description("The registry assigns the contact id once the record is accepted.")

	groups := []*huh.Group{huh.NewGroup(append([]huh.Field{title}, inputs[:splitAt(len(inputs))]...)...)}
	if rest := inputs[splitAt(len(inputs)):]; len(rest) > 0 {
		groups = append(groups, huh.NewGroup(rest...))
	}

	if err := runForm(groups...); err != nil {
		return nil, err
	}

	for i, f := range schema.Fields {
		rec.Set(f.Tag, strings.TrimSpace(values[i]))
	}
	return rec, nil
}

// splitAt puts roughly half of the inputs on the first page.
func splitAt(n int) int {
	return (n + 1) / 2
}

// requiredTags lists the fields the registry rejects when empty.
var requiredTags = map[string]bool{
	"NAME_HUN":   true,
	"LAST_NAME":  true,
	"FIRST_NAME": true,
	"E_MAIL":     true,
	"COUNTRY":    true,
	"CITY":       true,
}

func fieldValidator(schema *contact.Schema, f contact.Field) func(string) error {
	return func(value string) error {
		value = strings.TrimSpace(value)
		if value == "" {
			if requiredTags[f.Tag] {
				return errors.New(strings.ToLower(f.Label) + " is required")
			}
			return nil
		}
		if f.Tag == "E_MAIL" && !govalidator.IsEmail(value) {
			return errors.New("not a valid email address")
		}
		if f.Tag == "COUNTRY" && len(value) != 2 {
			return errors.New("use the two-letter country code, e.g. HU")
		}
		return nil
	}
}
