package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"speakup/pkg/claims"

	jwt "github.com/dgrijalva/jwt-go"
)

const (
	cookieMaxAge = 400 * 24 * 60 * 60
	expiryMargin = 10 * time.Second
	maxErrorBody = 4 << 10
)

var ErrSignUpRejected = errors.New("sign up rejected")

type Options struct {
	URL           string
	AnonKey       string
	JWTSecret     string
	HTTPClient    *http.Client
	SecureCookies bool
}

// SupabaseStore keeps the auth session of a hosted GoTrue service in
// chunked browser cookies. Access tokens are verified locally when the
// project JWT secret is known, otherwise against the user endpoint.
type SupabaseStore struct {
	baseURL    string
	anonKey    string
	jwtSecret  []byte
	storageKey string
	secure     bool
	client     *http.Client
	now        func() time.Time
}

func NewSupabaseStore(opts Options) (*SupabaseStore, error) {
	key, err := StorageKey(opts.URL)
	if err != nil {
		return nil, err
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	s := &SupabaseStore{
		baseURL:    strings.TrimRight(opts.URL, "/"),
		anonKey:    opts.AnonKey,
		storageKey: key,
		secure:     opts.SecureCookies,
		client:     client,
		now:        time.Now,
	}
	if opts.JWTSecret != "" {
		s.jwtSecret = []byte(opts.JWTSecret)
	}
	return s, nil
}

// StorageKey derives the cookie name from the project URL:
// https://<ref>.supabase.co -> sb-<ref>-auth-token.
func StorageKey(projectURL string) (string, error) {
	u, err := url.Parse(projectURL)
	if err != nil || u.Hostname() == "" {
		return "", fmt.Errorf("invalid auth service url %q", projectURL)
	}
	ref := strings.Split(u.Hostname(), ".")[0]
	return sessionCookiePrefix + ref + "-auth-token", nil
}

func (s *SupabaseStore) StorageKey() string {
	return s.storageKey
}

// ReadSession decodes the session stored in cookies.
func (s *SupabaseStore) ReadSession(cookies []*http.Cookie) (*Session, error) {
	value, ok := readChunked(s.storageKey, cookies)
	if !ok {
		return nil, ErrNoSession
	}
	return decodeSession(value)
}

func (s *SupabaseStore) GetUser(ctx context.Context, cookies []*http.Cookie, setCookie SetCookieFunc) (*claims.Identity, error) {
	sess, err := s.ReadSession(cookies)
	if err != nil {
		return nil, err
	}

	if !s.expired(sess) {
		id, err := s.verify(ctx, sess.AccessToken)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, ErrTokenExpired) {
			return nil, err
		}
	}

	if sess.RefreshToken == "" {
		return nil, ErrSessionExpired
	}

	fresh, err := s.refresh(ctx, sess.RefreshToken)
	if err != nil {
		return nil, err
	}
	if err := s.SetSession(fresh, cookies, setCookie); err != nil {
		return nil, err
	}

	if fresh.User.ID != "" {
		return fresh.User.Identity(), nil
	}
	return s.verify(ctx, fresh.AccessToken)
}

// SetSession writes sess under the storage key and expires chunks left over
// from a previous, longer value.
func (s *SupabaseStore) SetSession(sess *Session, existing []*http.Cookie, setCookie SetCookieFunc) error {
	value, err := encodeSession(sess)
	if err != nil {
		return err
	}

	chunks := splitChunks(s.storageKey, value, chunkSize)
	for _, name := range storageCookies(s.storageKey, existing) {
		if _, keep := chunks[name]; !keep {
			setCookie(Expired(name))
		}
	}
	for _, name := range sortedKeys(chunks) {
		setCookie(s.cookie(name, chunks[name]))
	}
	return nil
}

// ClearSession expires every cookie holding the session.
func (s *SupabaseStore) ClearSession(existing []*http.Cookie, setCookie SetCookieFunc) {
	for _, name := range storageCookies(s.storageKey, existing) {
		setCookie(Expired(name))
	}
}

func (s *SupabaseStore) SignIn(ctx context.Context, email, password string) (*Session, error) {
	var resp tokenResponse
	status, msg, err := s.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", "",
		map[string]string{"email": email, "password": password}, &resp)
	if err != nil {
		return nil, err
	}
	switch {
	case status == http.StatusOK:
		return resp.session(s.now()), nil
	case status >= 400 && status < 500:
		return nil, ErrInvalidCredentials
	default:
		return nil, fmt.Errorf("%w: sign in status %d: %s", ErrAuthUnavailable, status, msg)
	}
}

// SignUp creates an account. When the project requires e-mail confirmation
// the returned session carries only the user.
func (s *SupabaseStore) SignUp(ctx context.Context, email, password string) (*Session, error) {
	var resp tokenResponse
	status, msg, err := s.do(ctx, http.MethodPost, "/auth/v1/signup", "",
		map[string]string{"email": email, "password": password}, &resp)
	if err != nil {
		return nil, err
	}
	switch {
	case status == http.StatusOK:
		sess := resp.session(s.now())
		if sess.User.ID == "" {
			sess.User = User{ID: resp.ID, Email: resp.Email}
		}
		return sess, nil
	case status >= 400 && status < 500:
		if strings.Contains(strings.ToLower(msg), "already") {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("%w: %s", ErrSignUpRejected, msg)
	default:
		return nil, fmt.Errorf("%w: sign up status %d: %s", ErrAuthUnavailable, status, msg)
	}
}

func (s *SupabaseStore) SignOut(ctx context.Context, accessToken string) error {
	status, msg, err := s.do(ctx, http.MethodPost, "/auth/v1/logout", accessToken, nil, nil)
	if err != nil {
		return err
	}
	if status >= 500 {
		return fmt.Errorf("%w: sign out status %d: %s", ErrAuthUnavailable, status, msg)
	}
	return nil
}

func (s *SupabaseStore) expired(sess *Session) bool {
	if sess.ExpiresAt == 0 {
		return false
	}
	return !s.now().Add(expiryMargin).Before(time.Unix(sess.ExpiresAt, 0))
}

func (s *SupabaseStore) verify(ctx context.Context, token string) (*claims.Identity, error) {
	if s.jwtSecret == nil {
		return s.remoteUser(ctx, token)
	}

	c := &claims.Claims{}
	_, err := jwt.ParseWithClaims(token, c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorExpired != 0 &&
			ve.Errors&(jwt.ValidationErrorSignatureInvalid|jwt.ValidationErrorUnverifiable|jwt.ValidationErrorMalformed) == 0 {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if c.Subject == "" {
		return nil, ErrInvalidToken
	}
	return &claims.Identity{ID: c.Subject, Email: c.Email}, nil
}

func (s *SupabaseStore) remoteUser(ctx context.Context, token string) (*claims.Identity, error) {
	var u User
	status, msg, err := s.do(ctx, http.MethodGet, "/auth/v1/user", token, nil, &u)
	if err != nil {
		return nil, err
	}
	switch {
	case status == http.StatusOK && u.ID != "":
		return u.Identity(), nil
	case status == http.StatusOK:
		return nil, ErrInvalidToken
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return nil, ErrTokenExpired
	default:
		return nil, fmt.Errorf("%w: user status %d: %s", ErrAuthUnavailable, status, msg)
	}
}

func (s *SupabaseStore) refresh(ctx context.Context, refreshToken string) (*Session, error) {
	var resp tokenResponse
	status, msg, err := s.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=refresh_token", "",
		map[string]string{"refresh_token": refreshToken}, &resp)
	if err != nil {
		return nil, err
	}
	switch {
	case status == http.StatusOK && resp.AccessToken != "":
		return resp.session(s.now()), nil
	case status == http.StatusOK || (status >= 400 && status < 500):
		return nil, ErrSessionExpired
	default:
		return nil, fmt.Errorf("%w: refresh status %d: %s", ErrAuthUnavailable, status, msg)
	}
}

// do performs one call against the auth API. Non-2xx answers are not errors:
// the status and the upstream message are returned for the caller to map.
func (s *SupabaseStore) do(ctx context.Context, method, path, bearer string, body, out any) (int, string, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return 0, "", err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return 0, "", fmt.Errorf("%w: %w", ErrAuthUnavailable, err)
	}
	req.Header.Set("apikey", s.anonKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, "", fmt.Errorf("%w: %w", ErrAuthUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return resp.StatusCode, readErrorMessage(resp.Body), nil
	}
	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, "", fmt.Errorf("%w: bad response: %w", ErrAuthUnavailable, err)
		}
	}
	return resp.StatusCode, "", nil
}

func (s *SupabaseStore) cookie(name, value string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   cookieMaxAge,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

type tokenResponse struct {
	Session
	// sign up without auto-confirm returns the bare user
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (t tokenResponse) session(now time.Time) *Session {
	s := t.Session
	if s.ExpiresAt == 0 && s.ExpiresIn > 0 {
		s.ExpiresAt = now.Unix() + s.ExpiresIn
	}
	return &s
}

type apiError struct {
	Error       string `json:"error"`
	Description string `json:"error_description"`
	Msg         string `json:"msg"`
	Message     string `json:"message"`
}

func readErrorMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil {
		return ""
	}
	var e apiError
	if json.Unmarshal(raw, &e) != nil {
		return strings.TrimSpace(string(raw))
	}
	for _, m := range []string{e.Description, e.Msg, e.Message, e.Error} {
		if m != "" {
			return m
		}
	}
	return ""
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
