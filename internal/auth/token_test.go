package auth

import (
	"testing"
	"time"

	"quizhub-service/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

func TestIssueAndParse(t *testing.T) {
	issuer := NewIssuer("a-test-secret-of-some-length", time.Hour)

	token, issued, err := issuer.Issue(42, domain.RoleDesigner)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	id, err := claims.UserID()
	if err != nil || id != 42 {
		t.Fatalf("expected user 42, got %d (%v)", id, err)
	}
	if claims.Role != domain.RoleDesigner {
		t.Fatalf("expected designer role, got %v", claims.Role)
	}
	if claims.ID == "" || claims.ID != issued.ID {
		t.Fatalf("expected token id %q, got %q", issued.ID, claims.ID)
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	issuer := NewIssuerWithClock("a-test-secret-of-some-length", time.Minute, func() time.Time { return now })

	token, _, err := issuer.Issue(1, domain.RolePlayer)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	later := NewIssuerWithClock("a-test-secret-of-some-length", time.Minute, func() time.Time { return now.Add(2 * time.Minute) })
	if _, err := later.Parse(token); err != ErrInvalidToken {
		t.Fatalf("expected invalid token, got %v", err)
	}
}

func TestParseRejectsForeignSignature(t *testing.T) {
	token, _, err := NewIssuer("first-secret-value-xx", time.Hour).Issue(1, domain.RolePlayer)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := NewIssuer("second-secret-value-x", time.Hour).Parse(token); err != ErrInvalidToken {
		t.Fatalf("expected invalid token, got %v", err)
	}
	if _, err := NewIssuer("first-secret-value-xx", time.Hour).Parse("garbage"); err != ErrInvalidToken {
		t.Fatalf("expected invalid token for garbage, got %v", err)
	}
}

func TestBearerToken(t *testing.T) {
	cases := map[string]struct {
		header string
		want   string
		ok     bool
	}{
		"valid":        {header: "Bearer abc", want: "abc", ok: true},
		"extra spaces": {header: "Bearer  x y", want: "y", ok: true},
		"missing":      {header: "", ok: false},
		"wrong scheme": {header: "Basic abc", ok: false},
		"no token":     {header: "Bearer ", ok: false},
	}
	for name, tc := range cases {
		got, err := BearerToken(tc.header)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("%s: expected %q, got %q (%v)", name, tc.want, got, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("%s: expected error, got %q", name, got)
		}
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("p", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "p" {
		t.Fatalf("expected hashed password")
	}
	if !CheckPassword(hash, "p") {
		t.Fatalf("expected password to match")
	}
	if CheckPassword(hash, "q") {
		t.Fatalf("expected mismatch")
	}
}
