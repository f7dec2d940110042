package tabular

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidReference    = errors.New("invalid reference")
	ErrUnsupportedShape    = errors.New("unsupported shape")
	ErrMissingCollaborator = errors.New("missing collaborator")
)

// ReferenceError reports a malformed or out-of-bounds region reference.
type ReferenceError struct {
	Ref    string
	Reason string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("invalid reference %q: %s", e.Ref, e.Reason)
}

func (e *ReferenceError) Unwrap() error {
	return ErrInvalidReference
}

func newReferenceError(ref, reason string) *ReferenceError {
	return &ReferenceError{
		Ref:    ref,
		Reason: reason,
	}
}
