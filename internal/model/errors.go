package model

import (
	"errors"
	"fmt"
)

// ValidationError reports a domain value that failed construction-time checks.
// Results carrying invalid verdicts or out-of-range confidence are never
// allowed to reach the store.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidationError reports whether err is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
