package jwt

import (
	"testing"
	"time"
)

func testManager(t *testing.T) *Manager {
	t.Helper()

	m, err := NewManager(Config{
		TokenTTL:      time.Hour,
		SigningMethod: MethodHS256,
		PrivateKey:    []byte("test-signing-secret"),
		Issuer:        "authgate-test",
	})
	if err != nil {
		t.Fatalf("NewManager error: %v", err)
	}
	return m
}

func TestIssueParseRoundTrip(t *testing.T) {
	m := testManager(t)

	token, err := m.Issue(42, "devon")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	if claims.Username != "devon" {
		t.Fatalf("username = %q, want devon", claims.Username)
	}
	if claims.AccountID() != 42 {
		t.Fatalf("account id = %d, want 42", claims.AccountID())
	}
	if claims.ID == "" {
		t.Fatal("expected a jti claim")
	}
	if claims.Issuer != "authgate-test" {
		t.Fatalf("issuer = %q, want authgate-test", claims.Issuer)
	}
}

func TestParseGarbageToken(t *testing.T) {
	m := testManager(t)

	for _, token := range []string{"foobar", "a.b.c", "..", "Bearer x"} {
		if _, err := m.Parse(token); err == nil {
			t.Fatalf("expected parse of %q to fail", token)
		}
	}
}

func TestParseWrongKey(t *testing.T) {
	m := testManager(t)

	token, err := m.Issue(1, "devon")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	other, err := NewManager(Config{
		TokenTTL:      time.Hour,
		SigningMethod: MethodHS256,
		PrivateKey:    []byte("a-different-secret"),
		Issuer:        "authgate-test",
	})
	if err != nil {
		t.Fatalf("NewManager error: %v", err)
	}

	if _, err := other.Parse(token); err == nil {
		t.Fatal("expected signature verification to fail under a different key")
	}
}

func TestParseExpiredToken(t *testing.T) {
	m, err := NewManager(Config{
		TokenTTL:      time.Millisecond,
		SigningMethod: MethodHS256,
		PrivateKey:    []byte("test-signing-secret"),
	})
	if err != nil {
		t.Fatalf("NewManager error: %v", err)
	}

	token, err := m.Issue(1, "devon")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	time.Sleep(5 * time.Millisecond)

	if _, err := m.Parse(token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestParseWrongIssuer(t *testing.T) {
	issued, err := NewManager(Config{
		TokenTTL:      time.Hour,
		SigningMethod: MethodHS256,
		PrivateKey:    []byte("test-signing-secret"),
		Issuer:        "someone-else",
	})
	if err != nil {
		t.Fatalf("NewManager error: %v", err)
	}

	token, err := issued.Issue(1, "devon")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := testManager(t).Parse(token); err == nil {
		t.Fatal("expected issuer mismatch to be rejected")
	}
}

func TestTokensCarryUniqueIDs(t *testing.T) {
	m := testManager(t)

	first, err := m.Issue(1, "devon")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	second, err := m.Issue(1, "devon")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	c1, err := m.Parse(first)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	c2, err := m.Parse(second)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	if c1.ID == c2.ID {
		t.Fatal("expected distinct jti claims across issues")
	}
}

func TestNewManagerValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero ttl", Config{TokenTTL: 0, SigningMethod: MethodHS256, PrivateKey: []byte("k")}},
		{"missing key", Config{TokenTTL: time.Hour, SigningMethod: MethodHS256}},
		{"unknown method", Config{TokenTTL: time.Hour, SigningMethod: "rs256", PrivateKey: []byte("k")}},
		{"excessive leeway", Config{TokenTTL: time.Hour, SigningMethod: MethodHS256, PrivateKey: []byte("k"), Leeway: 3 * time.Minute}},
		{"bad ed25519 key", Config{TokenTTL: time.Hour, SigningMethod: MethodEd25519, PrivateKey: []byte("too short"), PublicKey: []byte("too short")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewManager(tt.cfg); err == nil {
				t.Fatal("expected configuration to be rejected")
			}
		})
	}
}

func TestAccountIDMalformedSubject(t *testing.T) {
	c := &Claims{}
	c.Subject = "not-a-number"
	if c.AccountID() != 0 {
		t.Fatal("expected malformed subject to decode as 0")
	}

	var nilClaims *Claims
	if nilClaims.AccountID() != 0 {
		t.Fatal("expected nil claims to decode as 0")
	}
}
