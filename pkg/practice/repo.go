package practice

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionName = "practice_exchanges"

type MongoRepo struct {
	collection *mongo.Collection
}

func NewMongoRepo(db *mongo.Database) *MongoRepo {
	return &MongoRepo{
		collection: db.Collection(collectionName),
	}
}

// EnsureIndexes creates the (user_id, created) index used by ListByUser.
func (r *MongoRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created", Value: -1}},
	})
	return err
}

func (r *MongoRepo) Create(ctx context.Context, e *Exchange) error {
	result, err := r.collection.InsertOne(ctx, e)
	if err != nil {
		return fmt.Errorf("insert exchange: %w", err)
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return errors.New("failed to convert inserted ID to ObjectID")
	}
	e.MongoID = oid
	e.ID = oid.Hex()
	return nil
}

func (r *MongoRepo) ListByUser(ctx context.Context, userID string, limit int64) ([]*Exchange, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find exchanges: %w", err)
	}
	defer cursor.Close(ctx)

	exchanges := make([]*Exchange, 0)
	for cursor.Next(ctx) {
		var e Exchange
		if err := cursor.Decode(&e); err != nil {
			continue
		}
		e.ID = e.MongoID.Hex()
		exchanges = append(exchanges, &e)
	}
	return exchanges, cursor.Err()
}

func (r *MongoRepo) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, fmt.Errorf("delete exchanges: %w", err)
	}
	return res.DeletedCount, nil
}
