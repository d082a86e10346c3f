package profile

import (
	"context"
	"errors"

	"speakup/pkg/route"
)

var (
	ErrNotFound    = errors.New("profile not found")
	ErrInvalidRole = errors.New("invalid role")
)

// Profile links an auth identity to its application role.
type Profile struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

func (p *Profile) IsAdmin() bool {
	return p != nil && p.Role == route.RoleAdmin
}

func ValidRole(role string) bool {
	return role == route.RoleUser || role == route.RoleAdmin
}

type Repository interface {
	FindByID(ctx context.Context, id string) (*Profile, error)
	List(ctx context.Context) ([]*Profile, error)
	UpdateRole(ctx context.Context, id, role string) error
	Create(ctx context.Context, p *Profile) error
}
