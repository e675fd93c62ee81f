package report

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is the only error Assemble returns. Match it with errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// InputError names the offending field of a rejected query.
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidInput, e.Field, e.Message)
}

func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}
