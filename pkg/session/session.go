package session

import (
	"context"
	"errors"
	"net/http"

	"speakup/pkg/claims"
)

var (
	ErrNoSession          = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
	ErrInvalidToken       = errors.New("invalid access token")
	ErrTokenExpired       = errors.New("access token expired")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrAuthUnavailable    = errors.New("auth service unavailable")
)

// Session is the token set persisted in the browser cookies.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	User         User   `json:"user"`
}

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (u User) Identity() *claims.Identity {
	return &claims.Identity{ID: u.ID, Email: u.Email}
}

// SetCookieFunc receives every cookie the store wants to write to the response.
type SetCookieFunc func(*http.Cookie)

// Store resolves the current user from the request cookies. Refreshed
// session cookies are handed to setCookie; the caller decides whether they
// reach the client.
type Store interface {
	GetUser(ctx context.Context, cookies []*http.Cookie, setCookie SetCookieFunc) (*claims.Identity, error)
}
