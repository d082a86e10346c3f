package routing_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"speakup/internal/routing"
	"speakup/pkg/claims"
	handlermocks "speakup/pkg/handlers/mocks"
	"speakup/pkg/middleware"
	practicemocks "speakup/pkg/practice/mocks"
	profilemocks "speakup/pkg/profile/mocks"
	"speakup/pkg/session"
)

const sessionCookie = "sb-test-auth-token"

// cookieStore treats the session cookie value as the user id.
type cookieStore struct {
	*handlermocks.AuthService
}

func (cookieStore) GetUser(_ context.Context, cookies []*http.Cookie, _ session.SetCookieFunc) (*claims.Identity, error) {
	for _, c := range cookies {
		if c.Name == sessionCookie {
			return &claims.Identity{ID: c.Value, Email: c.Value + "@example.com"}, nil
		}
	}
	return nil, session.ErrNoSession
}

type testServer struct {
	handler  http.Handler
	profiles *profilemocks.ServiceInterface
	tutor    *handlermocks.Tutor
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	profiles := &profilemocks.ServiceInterface{}
	profiles.On("Role", mock.Anything, "admin-1").Return("admin", nil)
	profiles.On("Role", mock.Anything, "user-1").Return("user", nil)
	tutor := &handlermocks.Tutor{}

	limiter := middleware.NewRateLimiter(rate.Limit(1), 1)
	t.Cleanup(limiter.Close)

	h, err := routing.NewHandler(routing.Deps{
		Sessions: cookieStore{&handlermocks.AuthService{}},
		Profiles: profiles,
		History:  &practicemocks.ServiceInterface{},
		Tutor:    tutor,
		Avatars:  &handlermocks.AvatarTokens{},
		Limiter:  limiter,
		Gate:     middleware.DefaultGateConfig(),
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)

	return &testServer{handler: h, profiles: profiles, tutor: tutor}
}

func (s *testServer) do(method, target, user string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookie, Value: user})
	}
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)
	return rr
}

func TestRoutes(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name     string
		method   string
		target   string
		user     string
		status   int
		location string
	}{
		{name: "health", method: http.MethodGet, target: "/healthz", status: http.StatusOK},
		{name: "metrics", method: http.MethodGet, target: "/metrics", status: http.StatusOK},
		{name: "static asset", method: http.MethodGet, target: "/static/app.css", status: http.StatusOK},
		{name: "login page", method: http.MethodGet, target: "/login", status: http.StatusOK},
		{name: "root", method: http.MethodGet, target: "/", status: http.StatusFound, location: "/dashboard"},
		{name: "anonymous dashboard", method: http.MethodGet, target: "/dashboard", status: http.StatusTemporaryRedirect, location: "/login"},
		{name: "dashboard", method: http.MethodGet, target: "/dashboard", user: "user-1", status: http.StatusOK},
		{name: "unknown protected page", method: http.MethodGet, target: "/voice/unknown", status: http.StatusTemporaryRedirect, location: "/login"},
		{name: "anonymous admin", method: http.MethodGet, target: "/admin", status: http.StatusTemporaryRedirect, location: "/login"},
		{name: "non-admin admin page", method: http.MethodGet, target: "/admin", user: "user-1", status: http.StatusTemporaryRedirect, location: "/dashboard"},
		{name: "admin page", method: http.MethodGet, target: "/admin", user: "admin-1", status: http.StatusOK},
		{name: "anonymous admin api", method: http.MethodGet, target: "/api/admin/profiles", status: http.StatusUnauthorized},
		{name: "non-admin admin api", method: http.MethodGet, target: "/api/admin/profiles", user: "user-1", status: http.StatusForbidden},
		{name: "anonymous profile api", method: http.MethodGet, target: "/api/profile", status: http.StatusUnauthorized},
		{name: "clear page", method: http.MethodGet, target: "/clear-cookies", status: http.StatusOK},
		{name: "unknown page", method: http.MethodGet, target: "/nope", status: http.StatusNotFound},
		{name: "unknown api", method: http.MethodGet, target: "/api/nope", status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := srv.do(tt.method, tt.target, tt.user, nil)

			assert.Equal(t, tt.status, rr.Code)
			if tt.location != "" {
				assert.Equal(t, tt.location, rr.Header().Get("Location"))
			}
			assert.NotEmpty(t, rr.Header().Get(middleware.RequestIDHeader))
		})
	}
}

func TestOversizedSessionEvictedBeforeRouting(t *testing.T) {
	srv := newTestServer(t)

	for _, target := range []string{"/dashboard", "/login", "/static/app.css", "/healthz", "/metrics", "/api/chat"} {
		t.Run(target, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, target, nil)
			req.AddCookie(&http.Cookie{Name: sessionCookie + ".0", Value: strings.Repeat("a", 3000)})
			req.AddCookie(&http.Cookie{Name: sessionCookie + ".1", Value: strings.Repeat("b", 2000)})
			rr := httptest.NewRecorder()
			srv.handler.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusTemporaryRedirect, rr.Code)
			assert.Equal(t, "/clear-cookies", rr.Header().Get("Location"))
			assert.Len(t, rr.Result().Cookies(), 2)
		})
	}
}

func TestClearCookiesAPIIsExempt(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/clear-cookies", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie + ".0", Value: strings.Repeat("a", 5000)})
	rr := httptest.NewRecorder()
	srv.handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), sessionCookie+".0")
}

func TestProxyRoutesAreRateLimited(t *testing.T) {
	srv := newTestServer(t)
	srv.tutor.On("Chat", mock.Anything, mock.Anything, "hi").Return("Hello!", nil)

	first := srv.do(http.MethodPost, "/api/chat", "", strings.NewReader(`{"message":"hi"}`))
	second := srv.do(http.MethodPost, "/api/chat", "", strings.NewReader(`{"message":"hi"}`))

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Contains(t, first.Body.String(), "Hello!")
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))

	// the limiter only covers vendor proxies
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, srv.do(http.MethodGet, "/healthz", "", nil).Code)
	}
}
