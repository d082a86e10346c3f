package practice

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
	maxStoredText       = 4000
)

var (
	ErrMissingUser = errors.New("missing user id")
	ErrUnknownMode = errors.New("unknown practice mode")
)

type ServiceInterface interface {
	Record(ctx context.Context, userID, mode, prompt, reply string) (*Exchange, error)
	History(ctx context.Context, userID string, limit int) ([]*Exchange, error)
	Clear(ctx context.Context, userID string) (int64, error)
}

type Service struct {
	Repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{Repo: repo, now: time.Now}
}

func (s *Service) Record(ctx context.Context, userID, mode, prompt, reply string) (*Exchange, error) {
	if userID == "" {
		return nil, ErrMissingUser
	}
	switch mode {
	case ModeChat, ModeVoice, ModeAvatar:
	default:
		return nil, ErrUnknownMode
	}

	e := &Exchange{
		UserID:  userID,
		Mode:    mode,
		Prompt:  truncate(strings.TrimSpace(prompt), maxStoredText),
		Reply:   truncate(strings.TrimSpace(reply), maxStoredText),
		Created: s.now().UTC(),
	}
	if err := s.Repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// History returns the newest exchanges first. limit is clamped to
// [1, MaxHistoryLimit]; zero or negative selects DefaultHistoryLimit.
func (s *Service) History(ctx context.Context, userID string, limit int) ([]*Exchange, error) {
	if userID == "" {
		return nil, ErrMissingUser
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	limit = min(limit, MaxHistoryLimit)
	return s.Repo.ListByUser(ctx, userID, int64(limit))
}

func (s *Service) Clear(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, ErrMissingUser
	}
	return s.Repo.DeleteByUser(ctx, userID)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
