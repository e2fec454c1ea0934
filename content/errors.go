package content

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a single field failure.
type ErrorKind int

const (
	MissingRequiredField ErrorKind = iota + 1
	TypeMismatch
	InvalidEnumValue
	InvalidDate
)

func (k ErrorKind) String() string {
	switch k {
	case MissingRequiredField:
		return "MissingRequiredField"
	case TypeMismatch:
		return "TypeMismatch"
	case InvalidEnumValue:
		return "InvalidEnumValue"
	case InvalidDate:
		return "InvalidDate"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Sentinels matched by errors.Is against a FieldError or a ValidationError.
var (
	ErrMissingRequiredField = errors.New("missing required field")
	ErrTypeMismatch         = errors.New("type mismatch")
	ErrInvalidEnumValue     = errors.New("invalid enum value")
	ErrInvalidDate          = errors.New("invalid date")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case MissingRequiredField:
		return ErrMissingRequiredField
	case TypeMismatch:
		return ErrTypeMismatch
	case InvalidEnumValue:
		return ErrInvalidEnumValue
	case InvalidDate:
		return ErrInvalidDate
	}
	return nil
}

// FieldError describes why one frontmatter field was rejected.
type FieldError struct {
	Field      string
	Kind       ErrorKind
	Constraint string // e.g. "required", "must be a valid date"
	Value      any    // supplied value, nil when absent
	Present    bool
}

func (e *FieldError) Error() string {
	if !e.Present {
		return fmt.Sprintf("%s: %s (missing)", e.Field, e.Constraint)
	}
	return fmt.Sprintf("%s: %s (got %#v)", e.Field, e.Constraint, e.Value)
}

func (e *FieldError) Unwrap() error {
	return e.Kind.sentinel()
}

// ValidationError is the aggregate failure for one document. It always
// holds at least one FieldError, in schema declaration order.
type ValidationError struct {
	Errors []*FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		msgs[i] = fe.Error()
	}
	return "invalid frontmatter: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, fe := range e.Errors {
		errs[i] = fe
	}
	return errs
}

// Field returns the error reported for name, or nil.
func (e *ValidationError) Field(name string) *FieldError {
	for _, fe := range e.Errors {
		if fe.Field == name {
			return fe
		}
	}
	return nil
}
