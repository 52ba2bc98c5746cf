package domain

import "github.com/rotisserie/eris"

var (
	ErrNotFound   = eris.New("not found")
	ErrValidation = eris.New("validation failed")
)

// ValidationError carries a client-facing message and matches ErrValidation.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func Invalid(msg string) error { return &ValidationError{Msg: msg} }
