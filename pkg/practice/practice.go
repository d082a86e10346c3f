package practice

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ModeChat   = "chat"
	ModeVoice  = "voice"
	ModeAvatar = "avatar"
)

// Exchange is one learner prompt and the tutor reply to it.
type Exchange struct {
	MongoID primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ID      string             `bson:"-" json:"id"`
	UserID  string             `bson:"user_id" json:"-"`
	Mode    string             `bson:"mode" json:"mode"`
	Prompt  string             `bson:"prompt" json:"prompt"`
	Reply   string             `bson:"reply" json:"reply"`
	Created time.Time          `bson:"created" json:"created"`
}

type Repository interface {
	Create(ctx context.Context, e *Exchange) error
	ListByUser(ctx context.Context, userID string, limit int64) ([]*Exchange, error)
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}

// Discard is used when no history database is configured.
type Discard struct{}

func (Discard) Create(context.Context, *Exchange) error { return nil }

func (Discard) ListByUser(context.Context, string, int64) ([]*Exchange, error) {
	return []*Exchange{}, nil
}

func (Discard) DeleteByUser(context.Context, string) (int64, error) { return 0, nil }
