// File: services/signaling/session.go
package signaling

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"consultly/models"
	"consultly/utils"
)

// Session is one peer's attachment to a signaling room. Events carry only the
// counterpart's writes: a caller session emits the answer and answer-side
// candidates, a callee session the offer and offer-side candidates, and both
// emit presence changes and the ended flag.
type Session struct {
	RoomID string
	PeerID string
	Role   string

	svc    *DefaultRoomService
	events chan models.RoomEvent
	done   chan struct{}
	cancel context.CancelFunc
	once   sync.Once
}

func newSession(svc *DefaultRoomService, roomID, peerID, role string, cancel context.CancelFunc) *Session {
	return &Session{
		RoomID: roomID,
		PeerID: peerID,
		Role:   role,
		svc:    svc,
		events: make(chan models.RoomEvent, 32),
		done:   make(chan struct{}),
		cancel: cancel,
	}
}

// Events delivers deduplicated room changes. The channel closes when the peer
// leaves or the watch ends.
func (s *Session) Events() <-chan models.RoomEvent {
	return s.events
}

// SendDescription publishes this peer's SDP: the offer for the caller, the
// answer for the callee. A description whose type does not match the peer's
// role is rejected before it reaches the store. Callee answers require the
// room to exist; a callee can never resurrect a deleted room.
func (s *Session) SendDescription(ctx context.Context, desc models.SessionDescription) error {
	if s.Role == models.RoleCaller {
		if desc.Type != "offer" {
			return ErrNotCallee
		}
		return s.svc.Rooms.SetOffer(ctx, s.RoomID, desc)
	}
	if desc.Type != "answer" {
		return ErrNotCaller
	}
	return s.svc.Rooms.SetAnswer(ctx, s.RoomID, desc)
}

// SendCandidate appends a locally discovered ICE candidate to this side's
// array.
func (s *Session) SendCandidate(ctx context.Context, cand models.ICECandidate) error {
	return s.svc.Rooms.AppendCandidate(ctx, s.RoomID, s.Role, cand)
}

// End marks the call over for both peers.
func (s *Session) End(ctx context.Context) error {
	return s.svc.End(ctx, s.RoomID)
}

// Leave clears this peer's presence flag and stops the watch. Safe to call
// more than once; unmount and explicit hang-up may race. The caller's context
// is usually already cancelled when an SSE client disconnects, so the
// presence write runs on its own deadline.
func (s *Session) Leave(ctx context.Context) {
	s.once.Do(func() {
		close(s.done)
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := s.svc.Rooms.SetPresence(ctx, s.RoomID, s.Role, false); err != nil {
			utils.GetLogger().Warn("signaling: failed to clear presence on leave",
				zap.String("roomId", s.RoomID), zap.String("role", s.Role), zap.Error(err))
		}
		s.cancel()
	})
}

// run translates room snapshots into deduplicated events. Once the peer has
// left, pending events are abandoned rather than forced on a consumer that
// stopped reading.
func (s *Session) run(snapshots <-chan models.SignalRoom) {
	defer close(s.events)

	feed := newRoomFeed(s.Role)
	for snapshot := range snapshots {
		for _, event := range feed.diff(&snapshot) {
			select {
			case s.events <- event:
			case <-s.done:
				return
			}
		}
		if snapshot.Ended {
			return
		}
	}
}
