// File: services/signaling/room.go
package signaling

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	signalingRepo "consultly/database/repository/signaling"
	"consultly/models"
	"consultly/utils"
)

// ErrNotCaller is returned when a callee tries a caller-only write.
var ErrNotCaller = errors.New("peer is not the room caller")

// ErrNotCallee is returned when a caller tries a callee-only write.
var ErrNotCallee = errors.New("peer is not the room callee")

// RoomService runs the signaling protocol over the shared room document.
// Roles come out of the conditional room creation: the peer whose create wins
// is caller, every other peer is callee. The room moves EMPTY -> OFFERED ->
// ANSWERED -> ENDED; candidate exchange rides alongside on append-only arrays.
type RoomService interface {
	Join(ctx context.Context, roomID, peerID string) (*Session, error)
	End(ctx context.Context, roomID string) error
}

// DefaultRoomService is the production implementation.
type DefaultRoomService struct {
	Rooms signalingRepo.RoomRepository
}

// Join attaches a peer to the room, claiming it if absent. A caller that
// finds its own stale room (ended, or carrying a malformed offer) deletes and
// recreates it before proceeding. The returned session delivers the
// counterpart's descriptions and candidates exactly once each.
func (s *DefaultRoomService) Join(ctx context.Context, roomID, peerID string) (*Session, error) {
	room, err := s.Rooms.Claim(ctx, roomID, peerID)
	if err != nil {
		return nil, fmt.Errorf("failed to join room %s: %w", roomID, err)
	}

	role := models.RoleCallee
	if room.CallerID == peerID {
		role = models.RoleCaller

		// Self-heal: an ended room or a half-written offer from an earlier
		// call is discarded, not surfaced.
		if room.Ended || (room.Offer != nil && !room.Offer.Valid()) {
			utils.GetLogger().Info("signaling: recreating stale room",
				zap.String("roomId", roomID), zap.Bool("ended", room.Ended))
			if err := s.Rooms.Delete(ctx, roomID); err != nil {
				return nil, err
			}
			room, err = s.Rooms.Claim(ctx, roomID, peerID)
			if err != nil {
				return nil, fmt.Errorf("failed to recreate room %s: %w", roomID, err)
			}
			if room.CallerID != peerID {
				// Another peer slipped in between delete and claim; fall back
				// to callee rather than fight over the offer.
				role = models.RoleCallee
			}
		}
	}

	if err := s.Rooms.SetPresence(ctx, roomID, role, true); err != nil {
		utils.GetLogger().Warn("signaling: failed to set presence",
			zap.String("roomId", roomID), zap.String("role", role), zap.Error(err))
	}

	watchCtx, cancel := context.WithCancel(context.Background())
	snapshots, err := s.Rooms.Watch(watchCtx, roomID)
	if err != nil {
		cancel()
		_ = s.Rooms.SetPresence(ctx, roomID, role, false)
		return nil, fmt.Errorf("failed to watch room %s: %w", roomID, err)
	}

	session := newSession(s, roomID, peerID, role, cancel)
	go session.run(snapshots)
	return session, nil
}

// End flags the room so every subscribed peer tears down. The document is
// left in place for the reaper.
func (s *DefaultRoomService) End(ctx context.Context, roomID string) error {
	return s.Rooms.SetEnded(ctx, roomID)
}
