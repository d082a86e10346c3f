package claims

import (
	"context"

	jwt "github.com/dgrijalva/jwt-go"
)

type contextKey string

const (
	identityContextKey contextKey = "identity"
	roleContextKey     contextKey = "role"
)

// Claims is the payload of an access token issued by the auth service.
// The user id travels in the standard "sub" claim.
type Claims struct {
	Email     string `json:"email"`
	Role      string `json:"role"`
	SessionID string `json:"session_id"`
	jwt.StandardClaims
}

type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}

func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, id)
}

func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityContextKey).(*Identity)
	if !ok || id == nil || id.ID == "" {
		return nil, false
	}
	return id, true
}

// WithRole stores the profile role once it has been looked up for the request.
func WithRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, roleContextKey, role)
}

func RoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(roleContextKey).(string)
	return role, ok
}
