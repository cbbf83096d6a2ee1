// Package validation checks student input at the boundary between the
// console and the repository, and turns go-playground/validator field
// errors into one readable message.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/student-manager/internal/types"
)

// Bounds of the accepted age range. They mirror the gte/lte tags on
// types.Student and are only used to render messages.
const (
	MinAge = 15
	MaxAge = 60
)

// A single validator caches struct metadata; build it once.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Error reports every field that failed validation.
type Error struct {
	Fields []string
	msg    string
}

func (e *Error) Error() string { return e.msg }

// Student validates s against its struct tags. It returns nil or an *Error.
func Student(s types.Student) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validation: %w", err)
	}

	return fromValidationErrors(verrs)
}

func fromValidationErrors(errs validator.ValidationErrors) *Error {
	var (
		fields   []string
		messages []string
	)

	for _, e := range errs {
		fields = append(fields, e.Field())

		switch e.ActualTag() {
		case "required":
			messages = append(messages,
				fmt.Sprintf("field %s is required", e.Field()))
		case "gte", "lte":
			messages = append(messages,
				fmt.Sprintf("field %s must be between %d and %d", e.Field(), MinAge, MaxAge))
		default:
			messages = append(messages,
				fmt.Sprintf("field %s is invalid", e.Field()))
		}
	}

	return &Error{
		Fields: fields,
		msg:    strings.Join(messages, ", "),
	}
}
