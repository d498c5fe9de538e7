package contact

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

var (
	// ErrSubmissionInFlight is returned when an operation is attempted while a
	// submission is outstanding.
	ErrSubmissionInFlight = errors.New("a submission is already in flight")

	// ErrUnknownPackage is returned when a package id is not in the catalog.
	ErrUnknownPackage = errors.New("unknown package")

	// ErrUnknownField is returned by UpdateField for names outside the form.
	ErrUnknownField = errors.New("unknown form field")
)

// ValidationError reports required fields that were empty at submit time.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

// Message is the inline text shown next to the form.
func (e *ValidationError) Message() string {
	labels := lo.Map(e.Fields, func(f string, _ int) string {
		return fieldLabel(f)
	})
	return "Please fill in " + strings.Join(labels, " and ") + "."
}

// Has reports whether field is among the missing fields.
func (e *ValidationError) Has(field string) bool {
	return lo.Contains(e.Fields, field)
}

// RequestError is a non-2xx response from the intake endpoint.
type RequestError struct {
	StatusCode int
	Status     string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("intake request failed: %s", e.Status)
}

// TransportError is a failure to get any response from the intake endpoint.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("intake transport failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func fieldLabel(field string) string {
	switch field {
	case FieldName:
		return "your name"
	case FieldEmail:
		return "your email"
	default:
		return field
	}
}
