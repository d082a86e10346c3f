package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"

	"speakup/pkg/profile"
	"speakup/pkg/session"
)

const minPasswordLen = 6

type LoginForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthService is the part of the session store the auth endpoints use.
type AuthService interface {
	SignIn(ctx context.Context, email, password string) (*session.Session, error)
	SignUp(ctx context.Context, email, password string) (*session.Session, error)
	SignOut(ctx context.Context, accessToken string) error
	ReadSession(cookies []*http.Cookie) (*session.Session, error)
	SetSession(sess *session.Session, existing []*http.Cookie, setCookie session.SetCookieFunc) error
	ClearSession(existing []*http.Cookie, setCookie session.SetCookieFunc)
}

type AuthHandler struct {
	Auth     AuthService
	Profiles profile.ServiceInterface
	Logger   *slog.Logger
}

func NewAuthHandler(auth AuthService, profiles profile.ServiceInterface, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		Auth:     auth,
		Profiles: profiles,
		Logger:   logger,
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginForm
	if ok := DecodeJSONBody(w, r, &req); !ok {
		return
	}
	if msg := validateCredentials(&req); msg != "" {
		writeError(w, http.StatusBadRequest, typeMessage, msg)
		return
	}

	sess, err := h.Auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, session.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, typeMessage, "invalid credentials")
			return
		}
		h.Logger.Error("login", "error", err)
		writeError(w, http.StatusServiceUnavailable, typeMessage, "auth service unavailable")
		return
	}

	h.ensureProfile(r.Context(), sess.User.ID)
	h.startSession(w, r, sess, "login")
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req LoginForm
	if ok := DecodeJSONBody(w, r, &req); !ok {
		return
	}
	if msg := validateCredentials(&req); msg != "" {
		writeError(w, http.StatusBadRequest, typeMessage, msg)
		return
	}

	sess, err := h.Auth.SignUp(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, session.ErrUserExists):
		WriteResp(w, h.Logger, map[string]any{
			"errors": []FieldError{
				{
					Location: "body",
					Param:    "email",
					Value:    req.Email,
					Msg:      "already exists",
				},
			},
		}, http.StatusUnprocessableEntity)
		return
	case errors.Is(err, session.ErrSignUpRejected):
		writeError(w, http.StatusBadRequest, typeMessage, strings.TrimPrefix(err.Error(), session.ErrSignUpRejected.Error()+": "))
		return
	case err != nil:
		h.Logger.Error("register", "error", err)
		writeError(w, http.StatusServiceUnavailable, typeMessage, "auth service unavailable")
		return
	}

	h.ensureProfile(r.Context(), sess.User.ID)

	if sess.AccessToken == "" {
		// e-mail confirmation pending, nothing to store yet
		if ok := WriteResp(w, h.Logger, map[string]any{
			"user":                  sess.User,
			"confirmation_required": true,
		}, http.StatusOK); ok {
			h.Logger.Info("register", "user", sess.User.ID, "confirmed", false)
		}
		return
	}

	h.startSession(w, r, sess, "register")
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookies := r.Cookies()
	if sess, err := h.Auth.ReadSession(cookies); err == nil {
		if err := h.Auth.SignOut(r.Context(), sess.AccessToken); err != nil {
			h.Logger.Warn("logout: remote sign out", "error", err)
		}
	}
	h.Auth.ClearSession(cookies, func(c *http.Cookie) { http.SetCookie(w, c) })

	writeJSON(w, h.Logger, map[string]string{"message": "logged out"})
}

// Profile answers the client side role check.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	id, ok := identityFromRequest(w, r)
	if !ok {
		return
	}

	role, err := h.Profiles.Role(r.Context(), id.ID)
	if err != nil && !errors.Is(err, profile.ErrNotFound) {
		h.Logger.Error("profile", "user", id.ID, "error", err)
		writeError(w, http.StatusInternalServerError, typeError, "profile lookup failed")
		return
	}

	writeJSON(w, h.Logger, map[string]string{
		"id":    id.ID,
		"email": id.Email,
		"role":  role,
	})
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, sess *session.Session, action string) {
	err := h.Auth.SetSession(sess, r.Cookies(), func(c *http.Cookie) { http.SetCookie(w, c) })
	if err != nil {
		h.Logger.Error(action, "error", err)
		writeError(w, http.StatusInternalServerError, typeError, "internal server error")
		return
	}

	if ok := WriteResp(w, h.Logger, map[string]any{"user": sess.User}, http.StatusOK); ok {
		h.Logger.Info(action, "user", sess.User.ID)
	}
}

// ensureProfile is best effort: a missing profile only means no admin role.
func (h *AuthHandler) ensureProfile(ctx context.Context, userID string) {
	if userID == "" {
		return
	}
	if _, err := h.Profiles.Ensure(ctx, userID); err != nil {
		h.Logger.Error("ensure profile", "user", userID, "error", err)
	}
}

func validateCredentials(req *LoginForm) string {
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return "email and password are required"
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return "invalid email"
	}
	if len(req.Password) < minPasswordLen {
		return "password is too short"
	}
	return ""
}
