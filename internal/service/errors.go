package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrInvalidArgument marks caller mistakes such as a missing student id
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUpstreamTimeout marks a store operation that exceeded its deadline
	ErrUpstreamTimeout = errors.New("upstream timeout")
	// ErrUpstreamFailure marks any other store error
	ErrUpstreamFailure = errors.New("upstream failure")
)

// ArgumentError describes which input was rejected. Its message is safe to
// show to API clients.
type ArgumentError struct {
	Field  string
	Reason string
}

// NewArgumentError creates an ArgumentError for field
func NewArgumentError(field, reason string) *ArgumentError {
	return &ArgumentError{Field: field, Reason: reason}
}

func (e *ArgumentError) Error() string {
	return e.Field + " " + e.Reason
}

func (e *ArgumentError) Unwrap() error {
	return ErrInvalidArgument
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report JSON names (studentId) instead of Go field names (StudentID)
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// validateStruct runs the struct tags of s and turns the first failure into
// an ArgumentError.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required", "gt":
		return NewArgumentError(fe.Field(), "must be a positive integer")
	case "min", "max":
		return NewArgumentError(fe.Field(), "is out of range")
	default:
		return NewArgumentError(fe.Field(), "is invalid")
	}
}
