package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseProgress accepts only plain decimal digits. Signs, spaces inside the
// number and fractional values are rejected.
func ParseProgress(raw string) (int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, fmt.Errorf("%w: progress is empty", ErrMalformedInput)
	}

	for _, r := range trimmed {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%w: progress %q is not a non-negative integer", ErrMalformedInput, trimmed)
		}
	}

	value, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("%w: progress %q out of range", ErrMalformedInput, trimmed)
	}

	return value, nil
}
