package account

import (
	"github.com/pkg/errors"
)

// Kind classifies service errors for the transport layer.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindAuthentication
	KindNotFound
	KindDuplicate
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindNotFound:
		return "not_found"
	case KindDuplicate:
		return "duplicate"
	case KindUpstream:
		return "upstream"
	}
	return "unknown"
}

// Error is returned by Service operations.
type Error struct {
	Kind       Kind
	Field      string
	Message    string
	Suggestion string
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Detail is the underlying error text passed through to callers.
func (e *Error) Detail() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// KindOf returns the kind of err, or KindUpstream for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUpstream
}

// NewValidationError reports a missing or malformed field.
func NewValidationError(field, message string) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: message}
}

// NewError builds a service error of the given kind.
func NewError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}
