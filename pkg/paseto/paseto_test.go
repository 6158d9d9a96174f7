package pasetotoken

import (
	"errors"
	"testing"
	"time"

	paseto "aidanwoods.dev/go-paseto"
)

func newManager(t *testing.T, ttl time.Duration) *Manager {
	t.Helper()
	m, err := New(Config{Issuer: "vlog", Audience: "vlog-admin", AccessTTL: ttl}, paseto.NewV4SymmetricKey())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return m
}

func TestIssueAndVerify(t *testing.T) {
	m := newManager(t, time.Hour)

	tok, exp, err := m.IssueAccess("admin", "admin", "sess-1")
	if err != nil {
		t.Fatalf("IssueAccess() error = %v", err)
	}
	if time.Until(exp) <= 59*time.Minute {
		t.Errorf("expiry %v too early", exp)
	}

	claims, err := m.Verify(tok)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.Subject != "admin" || claims.Role != "admin" || claims.SessionID != "sess-1" {
		t.Errorf("claims = %+v", claims)
	}
	if claims.TokenID == "" {
		t.Error("token id missing")
	}
}

func TestVerify_Rejects(t *testing.T) {
	m := newManager(t, time.Hour)
	tok, _, _ := m.IssueAccess("admin", "admin", "sess-1")

	other := newManager(t, time.Hour)

	wrongAud, err := New(Config{Issuer: "vlog", Audience: "someone-else"}, m.key)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		mgr  *Manager
		tok  string
	}{
		{"garbage", m, "v4.local.not-a-token"},
		{"empty", m, ""},
		{"other key", other, tok},
		{"wrong audience", wrongAud, tok},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.mgr.Verify(tt.tok)
			var inv ErrInvalidToken
			if !errors.As(err, &inv) {
				t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestVerify_Expired(t *testing.T) {
	m := newManager(t, time.Millisecond)
	tok, _, _ := m.IssueAccess("admin", "admin", "sess-1")

	time.Sleep(5 * time.Millisecond)
	if _, err := m.Verify(tok); err == nil {
		t.Error("expired token verified")
	}
}

func TestIssueAccess_RequiresSession(t *testing.T) {
	m := newManager(t, time.Hour)
	if _, _, err := m.IssueAccess("admin", "admin", ""); err == nil {
		t.Error("token without session id issued")
	}
}

func TestLoadLocalKey(t *testing.T) {
	_, generated, err := LoadLocalKey("")
	if err != nil || !generated {
		t.Errorf("LoadLocalKey(\"\") = generated %v, err %v", generated, err)
	}

	k := paseto.NewV4SymmetricKey()
	got, generated, err := LoadLocalKey(" " + k.ExportHex() + " ")
	if err != nil || generated {
		t.Fatalf("LoadLocalKey(hex) = generated %v, err %v", generated, err)
	}
	if got.ExportHex() != k.ExportHex() {
		t.Error("loaded key differs")
	}

	var cfgErr ErrConfig
	if _, _, err := LoadLocalKey("zz"); !errors.As(err, &cfgErr) {
		t.Errorf("LoadLocalKey(bad) error = %v, want ErrConfig", err)
	}
}
