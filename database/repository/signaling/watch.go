// File: database/repository/signaling/watch.go
package signalingRepo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"consultly/models"
	"consultly/utils"

	"go.uber.org/zap"
)

// Watch opens a change stream scoped to one room and feeds full-document
// snapshots into the returned channel. The current state is delivered first so
// a subscriber that joins after the offer was written still observes it; there
// is no polling window.
func (r *mongoRoomRepo) Watch(ctx context.Context, roomID string) (<-chan models.SignalRoom, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"documentKey._id": roomID,
			"operationType":   bson.M{"$in": bson.A{"insert", "update", "replace"}},
		}}},
	}
	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)
	stream, err := r.coll.Watch(ctx, pipeline, opts)
	if err != nil {
		return nil, err
	}

	out := make(chan models.SignalRoom, 16)

	go func() {
		defer close(out)
		defer stream.Close(context.Background())

		// Initial snapshot, after the stream is open so no update is lost
		// between read and subscribe.
		if room, err := r.Get(ctx, roomID); err == nil {
			select {
			case out <- *room:
			case <-ctx.Done():
				return
			}
		} else if !errors.Is(err, mongo.ErrNoDocuments) {
			utils.GetLogger().Warn("room watch: initial read failed",
				zap.String("roomId", roomID), zap.Error(err))
		}

		for stream.Next(ctx) {
			var event struct {
				FullDocument models.SignalRoom `bson:"fullDocument"`
			}
			if err := stream.Decode(&event); err != nil {
				utils.GetLogger().Warn("room watch: decode failed",
					zap.String("roomId", roomID), zap.Error(err))
				continue
			}
			select {
			case out <- event.FullDocument:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}
