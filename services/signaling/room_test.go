package signaling

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"consultly/models"
)

// memoryRoomRepo is an in-memory RoomRepository. Watchers get a snapshot on
// subscribe and after every write, mirroring the change-stream contract.
// Writes fail on a dead context the way the driver does.
type memoryRoomRepo struct {
	mu       sync.Mutex
	rooms    map[string]*models.SignalRoom
	watchers map[string][]chan models.SignalRoom
}

func newMemoryRoomRepo() *memoryRoomRepo {
	return &memoryRoomRepo{
		rooms:    map[string]*models.SignalRoom{},
		watchers: map[string][]chan models.SignalRoom{},
	}
}

func (r *memoryRoomRepo) notifyLocked(roomID string) {
	room, ok := r.rooms[roomID]
	if !ok {
		return
	}
	for _, ch := range r.watchers[roomID] {
		select {
		case ch <- *room:
		default:
		}
	}
}

func (r *memoryRoomRepo) Claim(ctx context.Context, roomID, peerID string) (*models.SignalRoom, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if room, ok := r.rooms[roomID]; ok {
		snapshot := *room
		return &snapshot, nil
	}
	room := &models.SignalRoom{
		ID:        roomID,
		CallerID:  peerID,
		CreatedAt: time.Now().UTC(),
	}
	r.rooms[roomID] = room
	snapshot := *room
	return &snapshot, nil
}

func (r *memoryRoomRepo) Get(ctx context.Context, roomID string) (*models.SignalRoom, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[roomID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	snapshot := *room
	return &snapshot, nil
}

func (r *memoryRoomRepo) Delete(ctx context.Context, roomID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rooms, roomID)
	return nil
}

func (r *memoryRoomRepo) SetOffer(ctx context.Context, roomID string, offer models.SessionDescription) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[roomID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	room.Offer = &offer
	r.notifyLocked(roomID)
	return nil
}

func (r *memoryRoomRepo) SetAnswer(ctx context.Context, roomID string, answer models.SessionDescription) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[roomID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	room.Answer = &answer
	r.notifyLocked(roomID)
	return nil
}

func (r *memoryRoomRepo) AppendCandidate(ctx context.Context, roomID, role string, cand models.ICECandidate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[roomID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	if role == models.RoleCaller {
		room.OfferCandidates = append(room.OfferCandidates, cand)
	} else {
		room.AnswerCandidates = append(room.AnswerCandidates, cand)
	}
	r.notifyLocked(roomID)
	return nil
}

func (r *memoryRoomRepo) SetPresence(ctx context.Context, roomID, role string, present bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[roomID]
	if !ok {
		return nil
	}
	if role == models.RoleCaller {
		room.Participants.Caller = present
	} else {
		room.Participants.Callee = present
	}
	r.notifyLocked(roomID)
	return nil
}

func (r *memoryRoomRepo) SetEnded(ctx context.Context, roomID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[roomID]
	if !ok {
		return nil
	}
	now := time.Now().UTC()
	room.Ended = true
	room.EndedAt = &now
	r.notifyLocked(roomID)
	return nil
}

func (r *memoryRoomRepo) DeleteStale(ctx context.Context, cutoff, endedCutoff int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	for id, room := range r.rooms {
		stale := room.CreatedAt.Before(time.Unix(cutoff, 0)) ||
			(room.Ended && room.EndedAt != nil && room.EndedAt.Before(time.Unix(endedCutoff, 0)))
		if stale {
			delete(r.rooms, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *memoryRoomRepo) Watch(ctx context.Context, roomID string) (<-chan models.SignalRoom, error) {
	r.mu.Lock()
	ch := make(chan models.SignalRoom, 64)
	r.watchers[roomID] = append(r.watchers[roomID], ch)
	if room, ok := r.rooms[roomID]; ok {
		ch <- *room
	}
	r.mu.Unlock()

	go func() {
		<-ctx.Done()
		r.mu.Lock()
		defer r.mu.Unlock()
		chans := r.watchers[roomID]
		for i, c := range chans {
			if c == ch {
				r.watchers[roomID] = append(chans[:i], chans[i+1:]...)
				close(ch)
				break
			}
		}
	}()
	return ch, nil
}

func collectEvents(t *testing.T, session *Session, want int) []models.RoomEvent {
	t.Helper()
	var events []models.RoomEvent
	timeout := time.After(2 * time.Second)
	for len(events) < want {
		select {
		case ev, ok := <-session.Events():
			if !ok {
				return events
			}
			events = append(events, ev)
		case <-timeout:
			t.Fatalf("timed out waiting for events, have %d of %d: %+v", len(events), want, events)
		}
	}
	return events
}

func TestJoinFirstPeerIsCaller(t *testing.T) {
	svc := &DefaultRoomService{Rooms: newMemoryRoomRepo()}

	caller, err := svc.Join(context.Background(), "room-1", "peer-a")
	if err != nil {
		t.Fatalf("Join returned error: %v", err)
	}
	defer caller.Leave(context.Background())
	if caller.Role != models.RoleCaller {
		t.Errorf("first peer role = %q, want caller", caller.Role)
	}

	callee, err := svc.Join(context.Background(), "room-1", "peer-b")
	if err != nil {
		t.Fatalf("Join returned error: %v", err)
	}
	defer callee.Leave(context.Background())
	if callee.Role != models.RoleCallee {
		t.Errorf("second peer role = %q, want callee", callee.Role)
	}
}

func TestJoinRoleComesFromDocumentNotIdentity(t *testing.T) {
	repo := newMemoryRoomRepo()
	svc := &DefaultRoomService{Rooms: repo}

	first, err := svc.Join(context.Background(), "room-1", "peer-a")
	if err != nil {
		t.Fatalf("Join returned error: %v", err)
	}
	defer first.Leave(context.Background())

	// The same peer joining again still reads caller off the document.
	again, err := svc.Join(context.Background(), "room-1", "peer-a")
	if err != nil {
		t.Fatalf("Join returned error: %v", err)
	}
	defer again.Leave(context.Background())
	if again.Role != models.RoleCaller {
		t.Errorf("rejoining creator role = %q, want caller", again.Role)
	}
}

func TestJoinCallerRecreatesEndedRoom(t *testing.T) {
	repo := newMemoryRoomRepo()
	svc := &DefaultRoomService{Rooms: repo}

	if _, err := repo.Claim(context.Background(), "room-1", "peer-a"); err != nil {
		t.Fatal(err)
	}
	if err := repo.SetEnded(context.Background(), "room-1"); err != nil {
		t.Fatal(err)
	}

	session, err := svc.Join(context.Background(), "room-1", "peer-a")
	if err != nil {
		t.Fatalf("Join returned error: %v", err)
	}
	defer session.Leave(context.Background())
	if session.Role != models.RoleCaller {
		t.Errorf("role = %q, want caller", session.Role)
	}

	room, err := repo.Get(context.Background(), "room-1")
	if err != nil {
		t.Fatal(err)
	}
	if room.Ended {
		t.Error("stale ended room was not recreated")
	}
}

func TestCalleeReceivesOfferAndCandidatesExactlyOnce(t *testing.T) {
	repo := newMemoryRoomRepo()
	svc := &DefaultRoomService{Rooms: repo}
	ctx := context.Background()

	caller, err := svc.Join(ctx, "room-1", "peer-a")
	if err != nil {
		t.Fatal(err)
	}
	defer caller.Leave(ctx)

	if err := caller.SendDescription(ctx, models.SessionDescription{Type: "offer", SDP: "sdp-a"}); err != nil {
		t.Fatal(err)
	}
	if err := caller.SendCandidate(ctx, models.ICECandidate{Candidate: "cand-1"}); err != nil {
		t.Fatal(err)
	}
	if err := caller.SendCandidate(ctx, models.ICECandidate{Candidate: "cand-2"}); err != nil {
		t.Fatal(err)
	}

	callee, err := svc.Join(ctx, "room-1", "peer-b")
	if err != nil {
		t.Fatal(err)
	}
	defer callee.Leave(ctx)

	// Initial snapshot replays the pre-join writes; presence arrives too.
	events := collectEvents(t, callee, 4)
	var offers, candidates int
	seen := map[string]bool{}
	for _, ev := range events {
		switch ev.Kind {
		case models.RoomEventOffer:
			offers++
			if ev.Description.SDP != "sdp-a" {
				t.Errorf("offer sdp = %q", ev.Description.SDP)
			}
		case models.RoomEventCandidate:
			candidates++
			if seen[ev.Candidate.Candidate] {
				t.Errorf("candidate %q delivered twice", ev.Candidate.Candidate)
			}
			seen[ev.Candidate.Candidate] = true
		}
	}
	if offers != 1 {
		t.Errorf("got %d offer events, want 1", offers)
	}
	if candidates != 2 {
		t.Errorf("got %d candidate events, want 2", candidates)
	}
}

func TestCallerReceivesAnswer(t *testing.T) {
	repo := newMemoryRoomRepo()
	svc := &DefaultRoomService{Rooms: repo}
	ctx := context.Background()

	caller, err := svc.Join(ctx, "room-1", "peer-a")
	if err != nil {
		t.Fatal(err)
	}
	defer caller.Leave(ctx)
	callee, err := svc.Join(ctx, "room-1", "peer-b")
	if err != nil {
		t.Fatal(err)
	}
	defer callee.Leave(ctx)

	if err := callee.SendDescription(ctx, models.SessionDescription{Type: "answer", SDP: "sdp-b"}); err != nil {
		t.Fatal(err)
	}

	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev := <-caller.Events():
			if ev.Kind == models.RoomEventAnswer {
				if ev.Description.SDP != "sdp-b" {
					t.Errorf("answer sdp = %q", ev.Description.SDP)
				}
				return
			}
		case <-timeout:
			t.Fatal("caller never received the answer")
		}
	}
}

func TestCalleeAnswerRequiresExistingRoom(t *testing.T) {
	repo := newMemoryRoomRepo()
	if err := repo.SetAnswer(context.Background(), "ghost", models.SessionDescription{Type: "answer", SDP: "x"}); err == nil {
		t.Fatal("expected error answering a missing room")
	}
}

func TestEndClosesBothSessions(t *testing.T) {
	repo := newMemoryRoomRepo()
	svc := &DefaultRoomService{Rooms: repo}
	ctx := context.Background()

	caller, err := svc.Join(ctx, "room-1", "peer-a")
	if err != nil {
		t.Fatal(err)
	}
	callee, err := svc.Join(ctx, "room-1", "peer-b")
	if err != nil {
		t.Fatal(err)
	}

	if err := caller.End(ctx); err != nil {
		t.Fatal(err)
	}

	for _, session := range []*Session{caller, callee} {
		sawEnded := false
		timeout := time.After(2 * time.Second)
	drain:
		for {
			select {
			case ev, ok := <-session.Events():
				if !ok {
					break drain
				}
				if ev.Kind == models.RoomEventEnded {
					sawEnded = true
				}
			case <-timeout:
				t.Fatalf("%s session never saw ended", session.Role)
			}
		}
		if !sawEnded {
			t.Errorf("%s session closed without an ended event", session.Role)
		}
	}
}

func TestLeaveClearsPresenceOnce(t *testing.T) {
	repo := newMemoryRoomRepo()
	svc := &DefaultRoomService{Rooms: repo}
	ctx := context.Background()

	caller, err := svc.Join(ctx, "room-1", "peer-a")
	if err != nil {
		t.Fatal(err)
	}

	room, _ := repo.Get(ctx, "room-1")
	if !room.Participants.Caller {
		t.Fatal("join did not set caller presence")
	}

	caller.Leave(ctx)
	caller.Leave(ctx) // second call must be a no-op

	room, _ = repo.Get(ctx, "room-1")
	if room.Participants.Caller {
		t.Error("leave did not clear caller presence")
	}
}

func TestDeleteStaleReapsOldAndEndedRooms(t *testing.T) {
	repo := newMemoryRoomRepo()
	ctx := context.Background()

	old, _ := repo.Claim(ctx, "room-old", "a")
	repo.mu.Lock()
	repo.rooms[old.ID].CreatedAt = time.Now().Add(-48 * time.Hour)
	repo.mu.Unlock()

	ended, _ := repo.Claim(ctx, "room-ended", "b")
	_ = repo.SetEnded(ctx, ended.ID)
	past := time.Now().Add(-time.Hour)
	repo.mu.Lock()
	repo.rooms[ended.ID].EndedAt = &past
	repo.mu.Unlock()

	if _, err := repo.Claim(ctx, "room-live", "c"); err != nil {
		t.Fatal(err)
	}

	now := time.Now()
	deleted, err := repo.DeleteStale(ctx, now.Add(-24*time.Hour).Unix(), now.Add(-30*time.Minute).Unix())
	if err != nil {
		t.Fatal(err)
	}
	if deleted != 2 {
		t.Errorf("reaped %d rooms, want 2", deleted)
	}
	if _, err := repo.Get(ctx, "room-live"); err != nil {
		t.Error("live room was reaped")
	}
}

func TestLeaveAfterStreamContextCancelledClearsPresence(t *testing.T) {
	repo := newMemoryRoomRepo()
	svc := &DefaultRoomService{Rooms: repo}

	reqCtx, cancel := context.WithCancel(context.Background())
	caller, err := svc.Join(reqCtx, "room-1", "peer-a")
	if err != nil {
		t.Fatal(err)
	}

	room, _ := repo.Get(context.Background(), "room-1")
	if !room.Participants.Caller {
		t.Fatal("join did not set caller presence")
	}

	// The stream's request context is already cancelled by the time the
	// deferred leave runs on client disconnect.
	cancel()
	caller.Leave(reqCtx)

	room, _ = repo.Get(context.Background(), "room-1")
	if room.Participants.Caller {
		t.Error("presence still set after leave with a cancelled request context")
	}
}

func TestDescriptionTypeMustMatchRole(t *testing.T) {
	repo := newMemoryRoomRepo()
	svc := &DefaultRoomService{Rooms: repo}
	ctx := context.Background()

	caller, err := svc.Join(ctx, "room-1", "peer-a")
	if err != nil {
		t.Fatal(err)
	}
	defer caller.Leave(ctx)
	callee, err := svc.Join(ctx, "room-1", "peer-b")
	if err != nil {
		t.Fatal(err)
	}
	defer callee.Leave(ctx)

	err = caller.SendDescription(ctx, models.SessionDescription{Type: "answer", SDP: "x"})
	if !errors.Is(err, ErrNotCallee) {
		t.Errorf("caller sending an answer returned %v, want ErrNotCallee", err)
	}
	err = callee.SendDescription(ctx, models.SessionDescription{Type: "offer", SDP: "x"})
	if !errors.Is(err, ErrNotCaller) {
		t.Errorf("callee sending an offer returned %v, want ErrNotCaller", err)
	}

	room, _ := repo.Get(ctx, "room-1")
	if room.Offer != nil || room.Answer != nil {
		t.Error("mismatched description reached the store")
	}
}

func TestEventFeedClosesWhenAbandonedConsumerLeaves(t *testing.T) {
	repo := newMemoryRoomRepo()
	svc := &DefaultRoomService{Rooms: repo}
	ctx := context.Background()

	caller, err := svc.Join(ctx, "room-1", "peer-a")
	if err != nil {
		t.Fatal(err)
	}
	defer caller.Leave(ctx)
	callee, err := svc.Join(ctx, "room-1", "peer-b")
	if err != nil {
		t.Fatal(err)
	}

	// The callee never reads its events; push enough counterpart writes to
	// overflow the session buffer before leaving.
	for i := 0; i < 100; i++ {
		cand := models.ICECandidate{Candidate: fmt.Sprintf("candidate:%d", i)}
		if err := repo.AppendCandidate(ctx, "room-1", models.RoleCaller, cand); err != nil {
			t.Fatal(err)
		}
	}
	callee.Leave(ctx)

	timeout := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-callee.Events():
			if !ok {
				return
			}
		case <-timeout:
			t.Fatal("event feed never closed after leave")
		}
	}
}
