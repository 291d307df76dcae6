package util

import (
	"fmt"
	"regexp"
)

var digitsOnly = regexp.MustCompile(`^[0-9]+$`)

// ValidateNumericID checks that id is a non-empty decimal identifier, as
// registry contact ids and registrar ids are. label names the value in the
// error message.
func ValidateNumericID(label, id string) error {
	if id == "" {
		return fmt.Errorf("%s is required", label)
	}
	if !digitsOnly.MatchString(id) {
		return fmt.Errorf("%s %q must contain only digits", label, id)
	}
	if len(id) > 18 {
		return fmt.Errorf("%s %q is too long", label, id)
	}
	return nil
}

// ValidateOptionalNumericID is ValidateNumericID but accepts an empty id.
func ValidateOptionalNumericID(label, id string) error {
	if id == "" {
		return nil
	}
	return ValidateNumericID(label, id)
}
