// Package theme carries the UI colour scheme through the request context.
// The browser keeps the choice in a cookie; nothing is stored server side.
package theme

import (
	"context"
	"net/http"
)

type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"

	Default    = Light
	CookieName = "theme"
	cookieAge  = 365 * 24 * 60 * 60
)

type contextKey struct{}

// Parse accepts only the known themes.
func Parse(s string) (Theme, bool) {
	switch Theme(s) {
	case Light, Dark:
		return Theme(s), true
	default:
		return "", false
	}
}

// FromRequest reads the theme cookie, falling back to Default.
func FromRequest(r *http.Request) Theme {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return Default
	}
	if t, ok := Parse(c.Value); ok {
		return t
	}
	return Default
}

func WithContext(ctx context.Context, t Theme) context.Context {
	return context.WithValue(ctx, contextKey{}, t)
}

func FromContext(ctx context.Context) Theme {
	if t, ok := ctx.Value(contextKey{}).(Theme); ok {
		return t
	}
	return Default
}

// Cookie persists t in the browser. It stays readable by scripts so the
// client can apply it before the first paint.
func Cookie(t Theme, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    string(t),
		Path:     "/",
		MaxAge:   cookieAge,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Middleware syncs the request context with the theme cookie.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), FromRequest(r))))
	})
}
