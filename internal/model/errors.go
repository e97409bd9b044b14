package model

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedDocument  = errors.New("malformed lexicon document")
	ErrUnknownVariant     = errors.New("unknown variant")
	ErrSchemaMismatch     = errors.New("schema mismatch")
	ErrUnsupportedVariant = errors.New("unsupported variant")
)

// SchemaError is returned for every problem found in a lexicon. `Kind` is one
// of the Err* values above and can be tested with `errors.Is`.
type SchemaError struct {
	Kind    error
	ID      string
	Variant string
	Message string
	Err     error
}

func (e *SchemaError) Error() string {
	msg := e.Kind.Error()

	if e.ID != "" {
		msg += fmt.Sprintf(` in "%s"`, e.ID)
	}

	if e.Variant != "" {
		msg += fmt.Sprintf(` (type "%s")`, e.Variant)
	}

	if e.Message != "" {
		msg += ": " + e.Message
	}

	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

func (e *SchemaError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}

	return []error{e.Kind, e.Err}
}

func Errorf(kind error, id string, variant string, format string, args ...any) *SchemaError {
	return &SchemaError{
		Kind:    kind,
		ID:      id,
		Variant: variant,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap returns a SchemaError of `kind` caused by `err`.
func Wrap(kind error, id string, variant string, err error) *SchemaError {
	return &SchemaError{
		Kind:    kind,
		ID:      id,
		Variant: variant,
		Err:     err,
	}
}
