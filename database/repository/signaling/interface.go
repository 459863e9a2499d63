// File: database/repository/signaling/interface.go
package signalingRepo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"consultly/database"
	"consultly/models"
)

// RoomRepository persists signaling rooms. Writes are scoped to disjoint
// fields per role so the two peers never contend except on room creation and
// the ended flag, which are both last-writer-safe.
type RoomRepository interface {
	// Claim atomically creates the room with peerID as caller if it does not
	// exist. It returns the resulting document; the peer learns its role by
	// comparing CallerID, never by identity convention.
	Claim(ctx context.Context, roomID, peerID string) (*models.SignalRoom, error)
	Get(ctx context.Context, roomID string) (*models.SignalRoom, error)
	Delete(ctx context.Context, roomID string) error
	SetOffer(ctx context.Context, roomID string, offer models.SessionDescription) error
	// SetAnswer requires the room to exist already; callees never create.
	SetAnswer(ctx context.Context, roomID string, answer models.SessionDescription) error
	AppendCandidate(ctx context.Context, roomID, role string, cand models.ICECandidate) error
	SetPresence(ctx context.Context, roomID, role string, present bool) error
	SetEnded(ctx context.Context, roomID string) error
	// DeleteStale removes rooms created before cutoff or ended before
	// endedCutoff, returning the number reaped.
	DeleteStale(ctx context.Context, cutoff, endedCutoff int64) (int64, error)
	// Watch streams full snapshots of the room document, starting with its
	// current state, until ctx is cancelled.
	Watch(ctx context.Context, roomID string) (<-chan models.SignalRoom, error)
}

type mongoRoomRepo struct {
	coll *mongo.Collection
}

// NewMongoRoomRepo constructs a new MongoDB RoomRepository.
func NewMongoRoomRepo() RoomRepository {
	return &mongoRoomRepo{
		coll: database.DB().Collection("webrtc_sessions"),
	}
}
