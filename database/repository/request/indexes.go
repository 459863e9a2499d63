// File: database/repository/request/indexes.go
package requestRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"consultly/database"
)

// EnsureIndexes creates the indexes the availability resolver relies on.
func EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	coll := database.DB().Collection("serviceRequests")
	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			// Serves BookedTimes: provider + per-slot date + status.
			Keys: bson.D{
				{Key: "providerId", Value: 1},
				{Key: "selectedSlots.date", Value: 1},
				{Key: "status", Value: 1},
			},
		},
	})
	return err
}
