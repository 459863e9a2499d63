package signaling

import (
	"testing"

	"consultly/models"
)

func roomSnapshot(mutate func(*models.SignalRoom)) *models.SignalRoom {
	room := &models.SignalRoom{ID: "room-1", CallerID: "peer-a"}
	if mutate != nil {
		mutate(room)
	}
	return room
}

func kinds(events []models.RoomEvent) []string {
	out := make([]string, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.Kind)
	}
	return out
}

func TestFeedReplayedSnapshotProducesNothing(t *testing.T) {
	feed := newRoomFeed(models.RoleCallee)
	snap := roomSnapshot(func(r *models.SignalRoom) {
		r.Offer = &models.SessionDescription{Type: "offer", SDP: "sdp"}
		r.OfferCandidates = []models.ICECandidate{{Candidate: "c1"}, {Candidate: "c2"}}
		r.Participants = models.Participants{Caller: true}
	})

	first := feed.diff(snap)
	if len(first) == 0 {
		t.Fatal("first snapshot produced no events")
	}

	// Identical snapshot again: the initial read racing the first change
	// event must not double-deliver.
	if again := feed.diff(snap); len(again) != 0 {
		t.Errorf("replayed snapshot produced %v", kinds(again))
	}
}

func TestFeedPeerNeverHearsOwnWrites(t *testing.T) {
	caller := newRoomFeed(models.RoleCaller)
	snap := roomSnapshot(func(r *models.SignalRoom) {
		r.Offer = &models.SessionDescription{Type: "offer", SDP: "own"}
		r.OfferCandidates = []models.ICECandidate{{Candidate: "own-cand"}}
	})

	for _, ev := range caller.diff(snap) {
		if ev.Kind == models.RoomEventOffer || ev.Kind == models.RoomEventCandidate {
			t.Errorf("caller received its own %s", ev.Kind)
		}
	}
}

func TestFeedDeliversCandidateTail(t *testing.T) {
	feed := newRoomFeed(models.RoleCallee)
	feed.diff(roomSnapshot(func(r *models.SignalRoom) {
		r.OfferCandidates = []models.ICECandidate{{Candidate: "c1"}}
	}))

	events := feed.diff(roomSnapshot(func(r *models.SignalRoom) {
		r.OfferCandidates = []models.ICECandidate{{Candidate: "c1"}, {Candidate: "c2"}, {Candidate: "c3"}}
	}))

	var got []string
	for _, ev := range events {
		if ev.Kind == models.RoomEventCandidate {
			got = append(got, ev.Candidate.Candidate)
		}
	}
	if len(got) != 2 || got[0] != "c2" || got[1] != "c3" {
		t.Errorf("candidate tail = %v, want [c2 c3]", got)
	}
}

func TestFeedHalfWrittenDescriptionIsIgnored(t *testing.T) {
	feed := newRoomFeed(models.RoleCallee)
	events := feed.diff(roomSnapshot(func(r *models.SignalRoom) {
		r.Offer = &models.SessionDescription{Type: "offer"} // no SDP yet
	}))
	for _, ev := range events {
		if ev.Kind == models.RoomEventOffer {
			t.Error("half-written offer was delivered")
		}
	}

	events = feed.diff(roomSnapshot(func(r *models.SignalRoom) {
		r.Offer = &models.SessionDescription{Type: "offer", SDP: "sdp"}
	}))
	found := false
	for _, ev := range events {
		if ev.Kind == models.RoomEventOffer {
			found = true
		}
	}
	if !found {
		t.Error("completed offer was not delivered")
	}
}

func TestFeedEndedDeliveredOnce(t *testing.T) {
	feed := newRoomFeed(models.RoleCaller)
	ended := roomSnapshot(func(r *models.SignalRoom) { r.Ended = true })

	first := feed.diff(ended)
	count := 0
	for _, ev := range first {
		if ev.Kind == models.RoomEventEnded {
			count++
		}
	}
	for _, ev := range feed.diff(ended) {
		if ev.Kind == models.RoomEventEnded {
			count++
		}
	}
	if count != 1 {
		t.Errorf("ended delivered %d times, want 1", count)
	}
}

func TestFeedPresenceOnlyOnChange(t *testing.T) {
	feed := newRoomFeed(models.RoleCaller)

	count := func(events []models.RoomEvent) int {
		n := 0
		for _, ev := range events {
			if ev.Kind == models.RoomEventPresence {
				n++
			}
		}
		return n
	}

	base := roomSnapshot(nil)
	if n := count(feed.diff(base)); n != 1 {
		t.Errorf("initial presence events = %d, want 1", n)
	}
	if n := count(feed.diff(base)); n != 0 {
		t.Errorf("unchanged presence re-emitted %d times", n)
	}

	joined := roomSnapshot(func(r *models.SignalRoom) {
		r.Participants = models.Participants{Caller: true, Callee: true}
	})
	if n := count(feed.diff(joined)); n != 1 {
		t.Errorf("presence change events = %d, want 1", n)
	}
}
