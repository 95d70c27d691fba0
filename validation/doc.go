// Package validation turns bad input into Validation AppErrors.
//
// Struct tags go through go-playground/validator:
//
//	err := validation.Validate(settings)
//
// Programmatic checks collect errors:
//
//	v := validation.New()
//	v.Required("title", title).MaxLength("title", title, 200)
//	if appErr := v.Validate(); appErr != nil { ... }
package validation
