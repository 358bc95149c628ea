package services

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrNothingToSubmit   = errors.New("no pending shifts to submit")
	ErrSubmitInProgress  = errors.New("a submission is already in progress")
	ErrEmptySelection    = errors.New("no appointments selected")
	ErrPartialReschedule = errors.New("some appointments could not be rescheduled")
)

// ValidationError is a client-side input problem. It is never sent to the network.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, len(names))
	for i, name := range names {
		lines[i] = fmt.Sprintf("%s: %s", name, e.Fields[name])
	}
	return "validation failed: " + strings.Join(lines, "; ")
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	// Report fields by their json names so messages match the API's field names
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
}

// validateInput runs struct validation and converts validator errors into a
// ValidationError keyed by the struct's json field names
func validateInput(input interface{}) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("failed to validate input: %w", err)
	}

	verr := &ValidationError{Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		verr.Fields[fe.Field()] = describeValidationTag(fe)
	}
	return verr
}

func describeValidationTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "datetime":
		return fmt.Sprintf("must be a date in %s format", fe.Param())
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}
