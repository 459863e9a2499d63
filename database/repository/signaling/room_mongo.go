// File: database/repository/signaling/room_mongo.go
package signalingRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"consultly/models"
)

func (r *mongoRoomRepo) Claim(ctx context.Context, roomID, peerID string) (*models.SignalRoom, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	update := bson.M{
		"$setOnInsert": bson.M{
			"callerId":         peerID,
			"offerCandidates":  []models.ICECandidate{},
			"answerCandidates": []models.ICECandidate{},
			"participants":     models.Participants{},
			"ended":            false,
			"createdAt":        now,
			"updatedAt":        now,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var room models.SignalRoom
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": roomID}, update, opts).Decode(&room); err != nil {
		return nil, fmt.Errorf("failed to claim signaling room: %w", err)
	}
	return &room, nil
}

func (r *mongoRoomRepo) Get(ctx context.Context, roomID string) (*models.SignalRoom, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var room models.SignalRoom
	if err := r.coll.FindOne(ctx, bson.M{"_id": roomID}).Decode(&room); err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *mongoRoomRepo) Delete(ctx context.Context, roomID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": roomID}); err != nil {
		return fmt.Errorf("failed to delete signaling room: %w", err)
	}
	return nil
}

func (r *mongoRoomRepo) SetOffer(ctx context.Context, roomID string, offer models.SessionDescription) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"offer": offer, "updatedAt": time.Now().UTC()}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": roomID}, update)
	if err != nil {
		return fmt.Errorf("failed to write offer: %w", err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoRoomRepo) SetAnswer(ctx context.Context, roomID string, answer models.SessionDescription) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"answer": answer, "updatedAt": time.Now().UTC()}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": roomID}, update)
	if err != nil {
		return fmt.Errorf("failed to write answer: %w", err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoRoomRepo) AppendCandidate(ctx context.Context, roomID, role string, cand models.ICECandidate) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	field := "offerCandidates"
	if role == models.RoleCallee {
		field = "answerCandidates"
	}
	update := bson.M{
		"$push": bson.M{field: cand},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": roomID}, update)
	if err != nil {
		return fmt.Errorf("failed to append %s candidate: %w", role, err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoRoomRepo) SetPresence(ctx context.Context, roomID, role string, present bool) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	field := "participants.caller"
	if role == models.RoleCallee {
		field = "participants.callee"
	}
	update := bson.M{"$set": bson.M{field: present, "updatedAt": time.Now().UTC()}}
	if _, err := r.coll.UpdateOne(ctx, bson.M{"_id": roomID}, update); err != nil {
		return fmt.Errorf("failed to set %s presence: %w", role, err)
	}
	return nil
}

func (r *mongoRoomRepo) SetEnded(ctx context.Context, roomID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	update := bson.M{"$set": bson.M{"ended": true, "endedAt": now, "updatedAt": now}}
	if _, err := r.coll.UpdateOne(ctx, bson.M{"_id": roomID}, update); err != nil {
		return fmt.Errorf("failed to mark room ended: %w", err)
	}
	return nil
}

func (r *mongoRoomRepo) DeleteStale(ctx context.Context, cutoff, endedCutoff int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	filter := bson.M{"$or": bson.A{
		bson.M{"createdAt": bson.M{"$lt": time.Unix(cutoff, 0).UTC()}},
		bson.M{"ended": true, "endedAt": bson.M{"$lt": time.Unix(endedCutoff, 0).UTC()}},
	}}
	res, err := r.coll.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to reap stale rooms: %w", err)
	}
	return res.DeletedCount, nil
}
