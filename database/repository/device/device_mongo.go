// File: database/repository/device/device_mongo.go
package deviceRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"consultly/database"
	"consultly/models"
)

// DeviceRepository stores FCM push tokens keyed by token value.
type DeviceRepository interface {
	Register(ctx context.Context, token models.DeviceToken) error
	TokensForRole(ctx context.Context, role string) ([]string, error)
	TokensForOwner(ctx context.Context, ownerID string) ([]string, error)
	Remove(ctx context.Context, token string) error
}

type mongoDeviceRepo struct {
	coll *mongo.Collection
}

// NewMongoDeviceRepo constructs a new MongoDB DeviceRepository.
func NewMongoDeviceRepo() DeviceRepository {
	return &mongoDeviceRepo{
		coll: database.DB().Collection("deviceTokens"),
	}
}

func (r *mongoDeviceRepo) Register(ctx context.Context, token models.DeviceToken) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	token.UpdatedAt = time.Now().UTC()
	opts := options.Replace().SetUpsert(true)
	if _, err := r.coll.ReplaceOne(ctx, bson.M{"_id": token.Token}, token, opts); err != nil {
		return fmt.Errorf("failed to register device token: %w", err)
	}
	return nil
}

func (r *mongoDeviceRepo) TokensForRole(ctx context.Context, role string) ([]string, error) {
	return r.tokens(ctx, bson.M{"role": role})
}

func (r *mongoDeviceRepo) TokensForOwner(ctx context.Context, ownerID string) ([]string, error) {
	return r.tokens(ctx, bson.M{"ownerId": ownerID})
}

func (r *mongoDeviceRepo) tokens(ctx context.Context, filter bson.M) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch device tokens: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []models.DeviceToken
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	tokens := make([]string, 0, len(docs))
	for _, d := range docs {
		tokens = append(tokens, d.Token)
	}
	return tokens, nil
}

func (r *mongoDeviceRepo) Remove(ctx context.Context, token string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": token}); err != nil {
		return fmt.Errorf("failed to remove device token: %w", err)
	}
	return nil
}
