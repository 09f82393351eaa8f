package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingRequiredField indicates a required environment variable was unset.
var ErrMissingRequiredField = errors.New("missing required configuration")

// MissingEnvError wraps ErrMissingRequiredField with the list of unset
// variable names, so callers get one actionable message instead of failing
// on the first missing var at a time.
type MissingEnvError struct {
	Vars []string
}

func (e *MissingEnvError) Error() string {
	return fmt.Sprintf("missing required environment variables: %s", strings.Join(e.Vars, ", "))
}

func (e *MissingEnvError) Unwrap() error { return ErrMissingRequiredField }

// NewMissingEnvError constructs a MissingEnvError for the given variable names.
func NewMissingEnvError(vars []string) *MissingEnvError {
	return &MissingEnvError{Vars: vars}
}
