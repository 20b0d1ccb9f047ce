package policy

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordGatePlain(t *testing.T) {
	g, err := NewPasswordGate("s3cret", "")
	if err != nil {
		t.Fatalf("gate: %v", err)
	}
	if g.Open() {
		t.Fatalf("gate should be closed")
	}
	if err := g.Check("s3cret"); err != nil {
		t.Fatalf("correct password rejected: %v", err)
	}
	if err := g.Check("nope"); !errors.Is(err, ErrWrongPassword) {
		t.Fatalf("expected ErrWrongPassword, got %v", err)
	}
}

func TestPasswordGateHash(t *testing.T) {
	h, _ := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	g, err := NewPasswordGate("ignored", string(h))
	if err != nil {
		t.Fatalf("gate: %v", err)
	}
	if g.Check("pw") != nil || g.Check("ignored") == nil {
		t.Fatalf("hash should take precedence over plain password")
	}
	if _, err := NewPasswordGate("", "not-a-hash"); err == nil {
		t.Fatalf("expected error for malformed hash")
	}
}

func TestOpenGatePassesThrough(t *testing.T) {
	g, _ := NewPasswordGate("", "")
	called := false
	h := g.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if !called || g.Check("anything") != nil {
		t.Fatalf("open gate should allow everything")
	}
}
