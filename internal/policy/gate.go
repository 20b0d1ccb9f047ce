// Package policy decides who may use the app: one shared password, or
// nobody is asked when none is configured.
package policy

import (
	"errors"
	"net/http"

	"github.com/diewo77/go-pos/auth"
	"golang.org/x/crypto/bcrypt"
)

var ErrWrongPassword = errors.New("invalid_credentials")

// PasswordGate checks the shared password against a bcrypt hash.
type PasswordGate struct {
	hash []byte
}

// NewPasswordGate accepts either a plain password, hashed here, or a bcrypt
// hash. Both empty yields an open gate.
func NewPasswordGate(plain, hash string) (*PasswordGate, error) {
	switch {
	case hash != "":
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, err
		}
		return &PasswordGate{hash: []byte(hash)}, nil
	case plain != "":
		h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		return &PasswordGate{hash: h}, nil
	}
	return &PasswordGate{}, nil
}

// Open reports a gate with no password.
func (g *PasswordGate) Open() bool { return len(g.hash) == 0 }

// Check compares a submitted password.
func (g *PasswordGate) Check(password string) error {
	if g.Open() {
		return nil
	}
	if bcrypt.CompareHashAndPassword(g.hash, []byte(password)) != nil {
		return ErrWrongPassword
	}
	return nil
}

// Require guards next with the session cookie unless the gate is open.
func (g *PasswordGate) Require(next http.Handler) http.Handler {
	if g.Open() {
		return next
	}
	return auth.RequireAuth(next)
}
