package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/clinicflow/clinic-api/internal/core/domain"
)

type sample struct {
	Name     string `json:"name" validate:"required,max=5"`
	Email    string `json:"email" validate:"required,email"`
	Password string `validate:"omitempty,min=6"`
}

func TestValidator_Passes(t *testing.T) {
	v := New()
	if err := v.Struct(sample{Name: "ann", Email: "ann@example.com"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidator_ReportsEveryField(t *testing.T) {
	v := New()
	err := v.Struct(sample{Name: "too-long-name", Email: "nope", Password: "123"})

	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %T (%v)", err, err)
	}
	for _, want := range []string{
		"name must be at most 5 characters",
		"email must be a valid email",
		"password must be at least 6 characters",
	} {
		if !strings.Contains(ve.Message, want) {
			t.Errorf("message %q does not mention %q", ve.Message, want)
		}
	}
}

func TestValidator_Required(t *testing.T) {
	v := New()
	err := v.Validate(sample{})
	if err == nil || !strings.Contains(err.Error(), "name is required") {
		t.Fatalf("expected required error, got %v", err)
	}
}

type secret struct {
	Password    string  `json:"password" validate:"omitempty,maxbytes=72"`
	NewPassword *string `json:"newPassword" validate:"omitempty,maxbytes=72"`
}

func TestValidator_MaxBytesCountsEncodedLength(t *testing.T) {
	v := New()

	if err := v.Struct(secret{Password: strings.Repeat("x", 72)}); err != nil {
		t.Fatalf("72 ascii bytes should pass, got %v", err)
	}

	// 40 runes but 80 bytes.
	multibyte := strings.Repeat("ü", 40)
	for _, in := range []secret{{Password: multibyte}, {NewPassword: &multibyte}} {
		err := v.Struct(in)
		var ve *domain.ValidationError
		if !errors.As(err, &ve) || !strings.Contains(ve.Message, "at most 72 bytes") {
			t.Fatalf("expected byte-length error, got %v", err)
		}
	}
}
