package handlers_test

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"speakup/pkg/claims"
	"speakup/pkg/handlers"
	hmocks "speakup/pkg/handlers/mocks"
	"speakup/pkg/profile"
	pmocks "speakup/pkg/profile/mocks"
	"speakup/pkg/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))

func withIdentity(r *http.Request, id *claims.Identity) *http.Request {
	return r.WithContext(claims.WithIdentity(r.Context(), id))
}

func jsonRequest(method, target, body string) *http.Request {
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}

func setCookieArg(c *http.Cookie) func(mock.Arguments) {
	return func(args mock.Arguments) {
		args.Get(2).(session.SetCookieFunc)(c)
	}
}

func TestLogin(t *testing.T) {
	sess := &session.Session{AccessToken: "at", RefreshToken: "rt", User: session.User{ID: "u1", Email: "ana@example.com"}}

	tests := []struct {
		name           string
		body           string
		contentType    string
		setup          func(auth *hmocks.AuthService, profiles *pmocks.ServiceInterface)
		expectedStatus int
		expectedBody   string
		expectCookie   bool
	}{
		{
			name: "Successful login",
			body: `{"email":"ana@example.com","password":"secret1"}`,
			setup: func(auth *hmocks.AuthService, profiles *pmocks.ServiceInterface) {
				auth.On("SignIn", mock.Anything, "ana@example.com", "secret1").Return(sess, nil)
				profiles.On("Ensure", mock.Anything, "u1").Return(&profile.Profile{ID: "u1", Role: "user"}, nil)
				auth.On("SetSession", sess, mock.Anything, mock.Anything).
					Run(setCookieArg(&http.Cookie{Name: "sb-proj-auth-token", Value: "base64-abc", Path: "/"})).
					Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"id":"u1"`,
			expectCookie:   true,
		},
		{
			name: "Profile creation failure does not block login",
			body: `{"email":"ana@example.com","password":"secret1"}`,
			setup: func(auth *hmocks.AuthService, profiles *pmocks.ServiceInterface) {
				auth.On("SignIn", mock.Anything, "ana@example.com", "secret1").Return(sess, nil)
				profiles.On("Ensure", mock.Anything, "u1").Return(nil, errors.New("db down"))
				auth.On("SetSession", sess, mock.Anything, mock.Anything).Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Invalid credentials",
			body: `{"email":"ana@example.com","password":"wrong-pass"}`,
			setup: func(auth *hmocks.AuthService, profiles *pmocks.ServiceInterface) {
				auth.On("SignIn", mock.Anything, "ana@example.com", "wrong-pass").Return(nil, session.ErrInvalidCredentials)
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"message":"invalid credentials"}`,
		},
		{
			name: "Auth service down",
			body: `{"email":"ana@example.com","password":"secret1"}`,
			setup: func(auth *hmocks.AuthService, profiles *pmocks.ServiceInterface) {
				auth.On("SignIn", mock.Anything, "ana@example.com", "secret1").
					Return(nil, fmt.Errorf("%w: connection refused", session.ErrAuthUnavailable))
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   "auth service unavailable",
		},
		{
			name:           "Missing password",
			body:           `{"email":"ana@example.com"}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "email and password are required",
		},
		{
			name:           "Bad email",
			body:           `{"email":"not-an-email","password":"secret1"}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "invalid email",
		},
		{
			name:           "Bad Content-Type",
			body:           `{"email":"ana@example.com","password":"secret1"}`,
			contentType:    "text/plain",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"invalid Content-Type"}`,
		},
		{
			name:           "Bad JSON",
			body:           `{"email" oops}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"bad json"}`,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			auth := new(hmocks.AuthService)
			profiles := new(pmocks.ServiceInterface)
			if test.setup != nil {
				test.setup(auth, profiles)
			}
			handler := handlers.NewAuthHandler(auth, profiles, testLogger)

			req := jsonRequest(http.MethodPost, "/api/auth/login", test.body)
			if test.contentType != "" {
				req.Header.Set("Content-Type", test.contentType)
			}
			rr := httptest.NewRecorder()

			handler.Login(rr, req)

			assert.Equal(t, test.expectedStatus, rr.Code)
			if test.expectedBody != "" {
				assert.Contains(t, rr.Body.String(), test.expectedBody)
			}
			if test.expectCookie {
				assert.Contains(t, rr.Header().Get("Set-Cookie"), "sb-proj-auth-token=base64-abc")
			}
			auth.AssertExpectations(t)
			profiles.AssertExpectations(t)
		})
	}
}

func TestRegister(t *testing.T) {
	confirmed := &session.Session{AccessToken: "at", User: session.User{ID: "u2", Email: "bo@example.com"}}
	pending := &session.Session{User: session.User{ID: "u3", Email: "cy@example.com"}}

	tests := []struct {
		name           string
		body           string
		setup          func(auth *hmocks.AuthService, profiles *pmocks.ServiceInterface)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "Successful registration",
			body: `{"email":"bo@example.com","password":"secret1"}`,
			setup: func(auth *hmocks.AuthService, profiles *pmocks.ServiceInterface) {
				auth.On("SignUp", mock.Anything, "bo@example.com", "secret1").Return(confirmed, nil)
				profiles.On("Ensure", mock.Anything, "u2").Return(&profile.Profile{ID: "u2", Role: "user"}, nil)
				auth.On("SetSession", confirmed, mock.Anything, mock.Anything).Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"id":"u2"`,
		},
		{
			name: "Confirmation required",
			body: `{"email":"cy@example.com","password":"secret1"}`,
			setup: func(auth *hmocks.AuthService, profiles *pmocks.ServiceInterface) {
				auth.On("SignUp", mock.Anything, "cy@example.com", "secret1").Return(pending, nil)
				profiles.On("Ensure", mock.Anything, "u3").Return(&profile.Profile{ID: "u3", Role: "user"}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"confirmation_required":true`,
		},
		{
			name: "User already exists",
			body: `{"email":"bo@example.com","password":"secret1"}`,
			setup: func(auth *hmocks.AuthService, profiles *pmocks.ServiceInterface) {
				auth.On("SignUp", mock.Anything, "bo@example.com", "secret1").Return(nil, session.ErrUserExists)
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   "already exists",
		},
		{
			name: "Rejected by auth service",
			body: `{"email":"bo@example.com","password":"secret1"}`,
			setup: func(auth *hmocks.AuthService, profiles *pmocks.ServiceInterface) {
				auth.On("SignUp", mock.Anything, "bo@example.com", "secret1").
					Return(nil, fmt.Errorf("%w: %s", session.ErrSignUpRejected, "Signups not allowed for this instance"))
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"message":"Signups not allowed for this instance"}`,
		},
		{
			name: "Auth service down",
			body: `{"email":"bo@example.com","password":"secret1"}`,
			setup: func(auth *hmocks.AuthService, profiles *pmocks.ServiceInterface) {
				auth.On("SignUp", mock.Anything, "bo@example.com", "secret1").Return(nil, session.ErrAuthUnavailable)
			},
			expectedStatus: http.StatusServiceUnavailable,
		},
		{
			name:           "Short password",
			body:           `{"email":"bo@example.com","password":"123"}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "password is too short",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			auth := new(hmocks.AuthService)
			profiles := new(pmocks.ServiceInterface)
			if test.setup != nil {
				test.setup(auth, profiles)
			}
			handler := handlers.NewAuthHandler(auth, profiles, testLogger)
			rr := httptest.NewRecorder()

			handler.Register(rr, jsonRequest(http.MethodPost, "/api/auth/register", test.body))

			assert.Equal(t, test.expectedStatus, rr.Code)
			if test.expectedBody != "" {
				assert.Contains(t, rr.Body.String(), test.expectedBody)
			}
			auth.AssertExpectations(t)
			profiles.AssertExpectations(t)
		})
	}
}

func TestLogout(t *testing.T) {
	t.Run("with session", func(t *testing.T) {
		auth := new(hmocks.AuthService)
		auth.On("ReadSession", mock.Anything).Return(&session.Session{AccessToken: "at"}, nil)
		auth.On("SignOut", mock.Anything, "at").Return(errors.New("timeout"))
		auth.On("ClearSession", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			args.Get(1).(session.SetCookieFunc)(session.Expired("sb-proj-auth-token"))
		})
		handler := handlers.NewAuthHandler(auth, new(pmocks.ServiceInterface), testLogger)
		rr := httptest.NewRecorder()

		handler.Logout(rr, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Header().Get("Set-Cookie"), "sb-proj-auth-token=;")
		assert.Contains(t, rr.Header().Get("Set-Cookie"), "Max-Age=0")
		auth.AssertExpectations(t)
	})

	t.Run("without session", func(t *testing.T) {
		auth := new(hmocks.AuthService)
		auth.On("ReadSession", mock.Anything).Return(nil, session.ErrNoSession)
		auth.On("ClearSession", mock.Anything, mock.Anything)
		handler := handlers.NewAuthHandler(auth, new(pmocks.ServiceInterface), testLogger)
		rr := httptest.NewRecorder()

		handler.Logout(rr, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		auth.AssertNotCalled(t, "SignOut", mock.Anything, mock.Anything)
	})

}

func TestProfile(t *testing.T) {
	user := &claims.Identity{ID: "u1", Email: "ana@example.com"}

	t.Run("unauthenticated", func(t *testing.T) {
		handler := handlers.NewAuthHandler(new(hmocks.AuthService), new(pmocks.ServiceInterface), testLogger)
		rr := httptest.NewRecorder()

		handler.Profile(rr, httptest.NewRequest(http.MethodGet, "/api/profile", nil))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.JSONEq(t, `{"message":"unauthorized"}`, rr.Body.String())
	})

	t.Run("admin", func(t *testing.T) {
		profiles := new(pmocks.ServiceInterface)
		profiles.On("Role", mock.Anything, "u1").Return("admin", nil)
		handler := handlers.NewAuthHandler(new(hmocks.AuthService), profiles, testLogger)
		rr := httptest.NewRecorder()

		handler.Profile(rr, withIdentity(httptest.NewRequest(http.MethodGet, "/api/profile", nil), user))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"id":"u1","email":"ana@example.com","role":"admin"}`, rr.Body.String())
	})

	t.Run("no profile row", func(t *testing.T) {
		profiles := new(pmocks.ServiceInterface)
		profiles.On("Role", mock.Anything, "u1").Return("", profile.ErrNotFound)
		handler := handlers.NewAuthHandler(new(hmocks.AuthService), profiles, testLogger)
		rr := httptest.NewRecorder()

		handler.Profile(rr, withIdentity(httptest.NewRequest(http.MethodGet, "/api/profile", nil), user))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"id":"u1","email":"ana@example.com","role":""}`, rr.Body.String())
	})

	t.Run("lookup failure", func(t *testing.T) {
		profiles := new(pmocks.ServiceInterface)
		profiles.On("Role", mock.Anything, "u1").Return("", errors.New("db down"))
		handler := handlers.NewAuthHandler(new(hmocks.AuthService), profiles, testLogger)
		rr := httptest.NewRecorder()

		handler.Profile(rr, withIdentity(httptest.NewRequest(http.MethodGet, "/api/profile", nil), user))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}
