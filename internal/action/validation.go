package action

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Validation constants.
const (
	// MinLevel is the lowest meaningful illuminance reading.
	MinLevel = 0

	maxScopeNameLength = 64
	maxCommandLength   = 4096
)

// ValidateAction checks an action before it is stored.
func ValidateAction(a Action) error {
	if a.Level < MinLevel {
		return fmt.Errorf("%w: level must be >= %d, got %d", ErrInvalidAction, MinLevel, a.Level)
	}
	if a.Delay < 0 {
		return fmt.Errorf("%w: delay must not be negative, got %d", ErrInvalidAction, a.Delay)
	}
	if strings.TrimSpace(a.Command) == "" {
		return fmt.Errorf("%w: command is empty", ErrInvalidAction)
	}
	if len(a.Command) > maxCommandLength {
		return fmt.Errorf("%w: command exceeds %d bytes", ErrInvalidAction, maxCommandLength)
	}
	return ValidateScopeName(a.Scope)
}

// ValidateScopeName checks a scope name.
func ValidateScopeName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidScope)
	}
	if utf8.RuneCountInString(name) > maxScopeNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidScope, maxScopeNameLength)
	}
	return nil
}
