// Package auth keeps the signed session cookie issued after the shared
// password is entered. There is no per-user identity.
package auth

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

type ctxKey string

const (
	sessionCookieName = "session"
	authedCtxKey      = ctxKey("authenticated")
	sessionSubject    = "pos"
)

// SessionTTL is how long a login lasts.
var SessionTTL = 14 * 24 * time.Hour

var (
	secret        string
	processSecret = sync.OnceValue(rand.Text)
)

// SetSecret overrides SESSION_SECRET, e.g. from loaded configuration.
func SetSecret(s string) { secret = s }

// Secret returns the configured secret or SESSION_SECRET. Without either it
// falls back to a random per-process key, so sessions do not survive restarts.
func Secret() string {
	if secret != "" {
		return secret
	}
	if s := os.Getenv("SESSION_SECRET"); s != "" {
		return s
	}
	return processSecret()
}

func sign(payload string) string {
	mac := hmac.New(sha256.New, []byte(Secret()))
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// CreateSession sets a signed cookie valid for SessionTTL.
func CreateSession(w http.ResponseWriter) {
	expires := time.Now().Add(SessionTTL)
	payload := sessionSubject + ":" + strconv.FormatInt(expires.Unix(), 10)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    payload + "." + sign(payload),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  expires,
	})
}

// ClearSession deletes the session cookie.
func ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: sessionCookieName, Value: "", Path: "/", Expires: time.Unix(0, 0), HttpOnly: true, SameSite: http.SameSiteLaxMode})
}

// ParseSession validates the cookie signature and expiry.
func ParseSession(r *http.Request) bool {
	c, err := r.Cookie(sessionCookieName)
	if err != nil || c.Value == "" {
		return false
	}
	payload, sig, ok := strings.Cut(c.Value, ".")
	if !ok || !hmac.Equal([]byte(sig), []byte(sign(payload))) {
		return false
	}
	subject, exp, ok := strings.Cut(payload, ":")
	if !ok || subject != sessionSubject {
		return false
	}
	unix, err := strconv.ParseInt(exp, 10, 64)
	if err != nil {
		return false
	}
	return time.Now().Before(time.Unix(unix, 0))
}

// WithAuthenticated marks the context as logged in.
func WithAuthenticated(ctx context.Context) context.Context {
	return context.WithValue(ctx, authedCtxKey, true)
}

// Authenticated reports whether the request carried a valid session.
func Authenticated(ctx context.Context) bool {
	v, _ := ctx.Value(authedCtxKey).(bool)
	return v
}

// Middleware attaches the login state to request context if present.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ParseSession(r) {
			r = r.WithContext(WithAuthenticated(r.Context()))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth redirects to /login if not authenticated (HTML) or returns 401 JSON.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !Authenticated(r.Context()) {
			accept := r.Header.Get("Accept")
			if strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html") {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				fmt.Fprint(w, `{"error":"unauthorized"}`)
				return
			}
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
