package handlers

import (
	"net/http"

	"github.com/diewo77/go-pos/auth"
	"github.com/diewo77/go-pos/i18n"
	"github.com/diewo77/go-pos/internal/middleware"
	"github.com/diewo77/go-pos/view"
)

// Gate checks the shared login password.
type Gate interface {
	Open() bool
	Check(password string) error
}

type AuthHandler struct {
	gate Gate
}

func NewAuthHandler(gate Gate) *AuthHandler {
	return &AuthHandler{gate: gate}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.gate.Open() {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	if r.Method == http.MethodGet {
		view.Render(w, r, "login.html", nil)
		return
	}

	if err := h.gate.Check(r.FormValue("password")); err != nil {
		renderStatus(w, r, http.StatusUnauthorized, "login", map[string]any{
			"Error": i18n.T(middleware.LangFrom(r), err.Error()),
		})
		return
	}

	auth.CreateSession(w)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSession(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
