package service

import "testing"

func TestSessionLifecycle(t *testing.T) {
	m := NewSessionManager()

	token := m.Issue("user-1")
	if token == "" {
		t.Fatalf("empty token")
	}

	userID, ok := m.Resolve(token)
	if !ok || userID != "user-1" {
		t.Fatalf("resolve = (%q, %v), want (user-1, true)", userID, ok)
	}

	m.Revoke(token)
	if _, ok := m.Resolve(token); ok {
		t.Fatalf("revoked token still resolves")
	}
}

func TestSessionTokensAreUnique(t *testing.T) {
	m := NewSessionManager()
	if m.Issue("user-1") == m.Issue("user-1") {
		t.Fatalf("tokens must be unique per session")
	}
}

func TestResolveUnknownToken(t *testing.T) {
	m := NewSessionManager()
	if _, ok := m.Resolve("nope"); ok {
		t.Fatalf("unknown token resolved")
	}
}
