package validate

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValWithTags is a value and the tags it should be validated against
type ValWithTags struct {
	Value interface{}
	Tag   string
}

// ValidationMap is a map of field names to values-with-tags
type ValidationMap map[string]ValWithTags

// WithCustomValidators returns a validator with our custom validations registered
func WithCustomValidators() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("token_id", tokenIDValidator)
	return v
}

// ValidateFields validates each entry of the map against its tag and collects
// every failure into one error
func ValidateFields(validator *validator.Validate, fields ValidationMap) error {
	validationErr := ErrInvalidInput{}
	foundErrors := false

	for k, v := range fields {
		err := validator.Var(v.Value, v.Tag)
		if err != nil {
			foundErrors = true
			validationErr.Append(k, err.Error())
		}
	}

	if foundErrors {
		return validationErr
	}
	return nil
}

// ErrInvalidInput is returned when one or more fields fail validation
type ErrInvalidInput struct {
	Parameters []string
	Reasons    []string
}

// Append adds a failed parameter and the reason it failed
func (e *ErrInvalidInput) Append(parameter string, reason string) {
	e.Parameters = append(e.Parameters, parameter)
	e.Reasons = append(e.Reasons, reason)
}

func (e ErrInvalidInput) Error() string {
	str := "invalid input:\n"
	for i := range e.Parameters {
		str += fmt.Sprintf("    parameter: %s, reason: %s\n", e.Parameters[i], e.Reasons[i])
	}
	return str
}

// token ids are caller-chosen strings, but control characters and blank ids
// have no representation in the id->index map keyspace
func tokenIDValidator(f validator.FieldLevel) bool {
	id := strings.TrimSpace(f.Field().String())
	if id == "" {
		return false
	}
	for _, r := range id {
		if r < 0x20 {
			return false
		}
	}
	return true
}
