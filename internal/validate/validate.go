// Package validate holds pure field validation and normalization helpers.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/notewell/backend/internal/fault"
)

const (
	maxNameLength  = 100
	maxEmailLength = 320
)

var emailRx = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Name trims and validates a display name. It rejects empty values, values
// longer than 100 characters and values containing control characters.
func Name(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("%w: name is required", fault.ErrInvalidInput)
	}
	if len(trimmed) > maxNameLength {
		return "", fmt.Errorf("%w: name exceeds %d characters", fault.ErrInvalidInput, maxNameLength)
	}
	for _, r := range trimmed {
		if r < 0x20 || r == 0x7f {
			return "", fmt.Errorf("%w: name contains invalid characters", fault.ErrInvalidInput)
		}
	}
	return trimmed, nil
}

// Email trims, lowercases and validates an email address. Lowercasing is the
// normalization that makes uniqueness checks and login lookups
// case-insensitive everywhere downstream.
func Email(raw string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return "", fmt.Errorf("%w: email is required", fault.ErrInvalidInput)
	}
	if len(normalized) > maxEmailLength || !emailRx.MatchString(normalized) {
		return "", fmt.Errorf("%w: invalid email", fault.ErrInvalidInput)
	}
	return normalized, nil
}
