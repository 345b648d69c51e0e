package prefs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrPackaging marks a schema file that is missing or unreadable. The
	// schemas ship with the application, so this aborts startup.
	ErrPackaging = errors.New("packaging error")
	// ErrStorageUnwritable marks a preferences directory or file that cannot
	// be created or written. Documents stay usable read-only.
	ErrStorageUnwritable = errors.New("storage unwritable")
	// ErrValidation marks a value rejected by its schema check on an
	// explicit edit.
	ErrValidation = errors.New("validation error")
)

// Wrap tags err with marker and an operation/message context so callers can
// classify it with errors.Is.
func Wrap(marker error, operation, message string, err error) error {
	detail := buildDetail(operation, message)
	if marker == nil {
		marker = ErrValidation
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(operation, message string) string {
	parts := make([]string, 0, 2)
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "preferences failure"
	}
	return strings.Join(parts, ": ")
}
