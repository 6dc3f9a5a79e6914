package events

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Form is the candidate payload for creating or editing an event. The same
// constraints apply on both paths: name length in [5,20], description length
// in [15,150], both timestamps and the type required. Start is not required
// to precede End.
type Form struct {
	Name        string    `validate:"required,min=5,max=20"`
	Description string    `validate:"required,min=15,max=150"`
	TypeID      int64     `validate:"required"`
	Start       time.Time `validate:"required"`
	End         time.Time `validate:"required"`
}

type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors is the full set of field-level problems with a submitted
// form. The request is not applied when any are present.
type ValidationErrors []FieldError

func (e ValidationErrors) Error() string {
	messages := make([]string, 0, len(e))
	for _, fieldErr := range e {
		messages = append(messages, fieldErr.Error())
	}
	return strings.Join(messages, "; ")
}

// ByField indexes the errors for template rendering.
func (e ValidationErrors) ByField() map[string]string {
	out := make(map[string]string, len(e))
	for _, fieldErr := range e {
		if _, ok := out[fieldErr.Field]; !ok {
			out[fieldErr.Field] = fieldErr.Message
		}
	}
	return out
}

// AsValidationErrors unwraps err into ValidationErrors when possible.
func AsValidationErrors(err error) (ValidationErrors, bool) {
	var verrs ValidationErrors
	if errors.As(err, &verrs) {
		return verrs, true
	}
	return nil, false
}

const (
	msgNameLength        = "Event name must be between 5 and 20 characters."
	msgDescriptionLength = "Description must be between 15 and 150 characters."
	msgStartRequired     = "Start is required."
	msgEndRequired       = "End is required."
	msgTypeMissing       = "Type does not exist!"
)

// validateForm maps validator violations to the user-facing field messages.
// Type existence is checked separately by the service against the current
// type list.
func validateForm(validate *validator.Validate, form Form) ValidationErrors {
	var errs ValidationErrors

	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var violations validator.ValidationErrors
	if !errors.As(err, &violations) {
		errs = append(errs, FieldError{Field: "form", Message: err.Error()})
		return errs
	}

	for _, violation := range violations {
		switch violation.StructField() {
		case "Name":
			errs = append(errs, FieldError{Field: "Name", Message: msgNameLength})
		case "Description":
			errs = append(errs, FieldError{Field: "Description", Message: msgDescriptionLength})
		case "TypeID":
			errs = append(errs, FieldError{Field: "TypeID", Message: msgTypeMissing})
		case "Start":
			errs = append(errs, FieldError{Field: "Start", Message: msgStartRequired})
		case "End":
			errs = append(errs, FieldError{Field: "End", Message: msgEndRequired})
		}
	}
	return errs
}
