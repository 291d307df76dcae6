package util

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ageUnits = map[string]time.Duration{
	"d": 24 * time.Hour,
	"w": 7 * 24 * time.Hour,
}

// ParseAge parses a non-negative age. Besides Go durations it accepts whole
// days ("30d") and weeks ("2w").
func ParseAge(input string) (time.Duration, error) {
	input = strings.TrimSpace(input)
	for suffix, unit := range ageUnits {
		num, ok := strings.CutSuffix(input, suffix)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(num)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", input)
		}
		if n < 0 {
			return 0, fmt.Errorf("duration must be positive")
		}
		return time.Duration(n) * unit, nil
	}

	d, err := time.ParseDuration(input)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", input)
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be positive")
	}
	return d, nil
}
