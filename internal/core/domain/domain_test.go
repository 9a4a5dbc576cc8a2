package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{"", RolePatient, false},
		{"admin", RoleAdmin, false},
		{"doctor", RoleDoctor, false},
		{"patient", RolePatient, false},
		{"Doctor", "", true},
		{"nurse", "", true},
	}

	for _, tt := range tests {
		got, err := ParseRole(tt.in)
		if tt.wantErr {
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("ParseRole(%q): expected validation error, got %v", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("ParseRole(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestRole_Assignable(t *testing.T) {
	if RoleAdmin.Assignable() {
		t.Fatalf("admin must not be assignable")
	}
	if !RoleDoctor.Assignable() || !RolePatient.Assignable() {
		t.Fatalf("doctor and patient must be assignable")
	}
	if Role("root").Assignable() || Role("root").Valid() {
		t.Fatalf("unknown roles are neither valid nor assignable")
	}
}

func TestUser_SanitizedHidesHash(t *testing.T) {
	u := &User{ID: "u1", Email: "a@b.co", PasswordHash: "$2a$10$secret", SecurityStamp: 3}

	clean := u.Sanitized()
	if clean.PasswordHash != "" {
		t.Fatalf("hash not cleared")
	}
	if u.PasswordHash == "" {
		t.Fatalf("original must be untouched")
	}

	raw, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(raw), "secret") || strings.Contains(string(raw), "stamp") {
		t.Fatalf("credential material serialized: %s", raw)
	}

	var nilUser *User
	if nilUser.Sanitized() != nil {
		t.Fatalf("nil user should sanitize to nil")
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Dr.House@Clinic.TEST "); got != "dr.house@clinic.test" {
		t.Fatalf("unexpected normalized email %q", got)
	}
}

func TestTokenError_MatchesInvalidToken(t *testing.T) {
	err := fmt.Errorf("resolve: %w", &TokenError{Reason: TokenExpired, Err: errors.New("exp")})

	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("token errors must match ErrInvalidToken")
	}
	var te *TokenError
	if !errors.As(err, &te) || te.Reason != TokenExpired {
		t.Fatalf("reason lost: %v", err)
	}
	if errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("token errors must not match unrelated sentinels")
	}
}
