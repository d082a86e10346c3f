package profile

import (
	"context"
	"errors"
	"fmt"

	"speakup/pkg/route"
)

type ServiceInterface interface {
	Role(ctx context.Context, userID string) (string, error)
	List(ctx context.Context) ([]*Profile, error)
	SetRole(ctx context.Context, userID, role string) (*Profile, error)
	Ensure(ctx context.Context, userID string) (*Profile, error)
}

type Service struct {
	Repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{Repo: repo}
}

// Role returns the stored role of userID. A missing profile is an error so
// callers fail closed.
func (s *Service) Role(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", ErrNotFound
	}
	p, err := s.Repo.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return p.Role, nil
}

func (s *Service) List(ctx context.Context) ([]*Profile, error) {
	return s.Repo.List(ctx)
}

func (s *Service) SetRole(ctx context.Context, userID, role string) (*Profile, error) {
	if !ValidRole(role) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	if err := s.Repo.UpdateRole(ctx, userID, role); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update role: %w", err)
	}
	return &Profile{ID: userID, Role: role}, nil
}

// Ensure returns the profile of userID, creating a plain user profile on
// first sight.
func (s *Service) Ensure(ctx context.Context, userID string) (*Profile, error) {
	if userID == "" {
		return nil, ErrNotFound
	}
	p, err := s.Repo.FindByID(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	p = &Profile{ID: userID, Role: route.RoleUser}
	if err := s.Repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	return p, nil
}
