package validation

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/kbukum/scribe/errors"
)

type endpoint struct {
	BaseURL string `json:"base_url" validate:"omitempty,url"`
}

type form struct {
	Name        string   `json:"name" validate:"required,max=5"`
	Temperature float64  `json:"temperature" validate:"gte=0,lte=1"`
	Provider    string   `json:"provider" validate:"omitempty,oneof=groq openai"`
	Groq        endpoint `json:"groq"`
	RetryCount  int      `validate:"lte=3"`
}

func TestValidateStruct(t *testing.T) {
	if err := Validate(form{Name: "ok"}); err != nil {
		t.Fatalf("valid struct: %v", err)
	}

	err := Validate(form{
		Name:        "",
		Temperature: 2,
		Provider:    "acme",
		Groq:        endpoint{BaseURL: "not a url"},
		RetryCount:  9,
	})
	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %v", err)
	}
	fields, _ := appErr.Details["fields"].([]FieldError)
	got := map[string]string{}
	for _, f := range fields {
		got[f.Field] = f.Message
	}

	want := map[string]string{
		"name":          "is required",
		"temperature":   "must be <= 1",
		"provider":      "must be one of: groq openai",
		"groq.base_url": "must be a valid URL",
		"retry_count":   "must be <= 3",
	}
	for field, msg := range want {
		if got[field] != msg {
			t.Errorf("%s: got %q, want %q", field, got[field], msg)
		}
	}
}

func TestValidatorChecks(t *testing.T) {
	id := uuid.NewString()
	tests := []struct {
		name   string
		run    func(v *Validator)
		fields []string
	}{
		{"required ok", func(v *Validator) { v.Required("title", "x") }, nil},
		{"required blank", func(v *Validator) { v.Required("title", "  ") }, []string{"title"}},
		{"uuid ok", func(v *Validator) { v.UUID("id", id) }, nil},
		{"uuid bad", func(v *Validator) { v.UUID("id", "123") }, []string{"id"}},
		{"uuid nil", func(v *Validator) { v.UUID("id", uuid.Nil.String()) }, []string{"id"}},
		{"uuids empty", func(v *Validator) { v.UUIDs("ids", nil, 10) }, []string{"ids"}},
		{"uuids too many", func(v *Validator) { v.UUIDs("ids", []string{id, id, id}, 2) }, []string{"ids"}},
		{"uuids bad and dup", func(v *Validator) { v.UUIDs("ids", []string{id, "x", id}, 10) }, []string{"ids[1]", "ids[2]"}},
		{"max length", func(v *Validator) { v.MaxLength("title", "abcdef", 3) }, []string{"title"}},
		{"custom", func(v *Validator) { v.Custom(false, "audio", "is empty") }, []string{"audio"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			tt.run(v)
			var got []string
			for _, e := range v.Errors() {
				got = append(got, e.Field)
			}
			if strings.Join(got, ",") != strings.Join(tt.fields, ",") {
				t.Errorf("fields = %v, want %v", got, tt.fields)
			}
		})
	}
}

func TestValidatorValidate(t *testing.T) {
	if New().Validate() != nil {
		t.Error("no errors should yield nil")
	}
	appErr := New().Required("a", "").Required("b", "").Validate()
	if appErr == nil || !strings.Contains(appErr.Message, "a: is required; b: is required") {
		t.Fatalf("got %v", appErr)
	}
	if appErr.Code != errors.ErrCodeInvalidInput && appErr.Code != errors.ErrCodeValidation {
		t.Errorf("code = %s", appErr.Code)
	}
}
