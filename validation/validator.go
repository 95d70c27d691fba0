package validation

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/kbukum/scribe/errors"
)

// Validator collects field errors for programmatic checks.
type Validator struct {
	errors []FieldError
}

// FieldError is one failed field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// New creates a Validator.
func New() *Validator {
	return &Validator{}
}

// AddError records a field error.
func (v *Validator) AddError(field, message string) {
	v.errors = append(v.errors, FieldError{Field: field, Message: message})
}

// HasErrors reports whether any check failed.
func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

// Errors returns the recorded field errors.
func (v *Validator) Errors() []FieldError {
	return v.errors
}

// Validate returns a Validation AppError with a "fields" detail, or nil.
func (v *Validator) Validate() *errors.AppError {
	if !v.HasErrors() {
		return nil
	}
	messages := make([]string, len(v.errors))
	for i, e := range v.errors {
		messages[i] = e.Field + ": " + e.Message
	}
	return errors.Validation(strings.Join(messages, "; ")).WithDetail("fields", v.errors)
}

// Required checks that value is not blank.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.AddError(field, "is required")
	}
	return v
}

// UUID checks that value parses as a non-nil UUID.
func (v *Validator) UUID(field, value string) *Validator {
	id, err := uuid.Parse(value)
	switch {
	case strings.TrimSpace(value) == "":
		v.AddError(field, "is required")
	case err != nil:
		v.AddError(field, "must be a valid UUID")
	case id == uuid.Nil:
		v.AddError(field, "must not be the nil UUID")
	}
	return v
}

// UUIDs checks a list of ids: non-empty, at most max entries, each a UUID, no duplicates.
func (v *Validator) UUIDs(field string, values []string, max int) *Validator {
	if len(values) == 0 {
		v.AddError(field, "must not be empty")
		return v
	}
	if max > 0 && len(values) > max {
		v.AddError(field, fmt.Sprintf("must have at most %d entries", max))
		return v
	}
	seen := make(map[string]bool, len(values))
	for i, id := range values {
		name := fmt.Sprintf("%s[%d]", field, i)
		v.UUID(name, id)
		if seen[id] {
			v.AddError(name, "is a duplicate")
		}
		seen[id] = true
	}
	return v
}

// MaxLength checks that value has at most maxLen bytes.
func (v *Validator) MaxLength(field, value string, maxLen int) *Validator {
	if len(value) > maxLen {
		v.AddError(field, fmt.Sprintf("must be %d characters or less", maxLen))
	}
	return v
}

// Custom records message when condition is false.
func (v *Validator) Custom(condition bool, field, message string) *Validator {
	if !condition {
		v.AddError(field, message)
	}
	return v
}
