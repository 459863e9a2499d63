// File: services/signaling/feed.go
package signaling

import "consultly/models"

// roomFeed turns a stream of full room snapshots into incremental events for
// one role, delivering each description and candidate exactly once. Candidate
// arrays are append-only, so a high-water mark per array is enough; snapshots
// that replay earlier state (the initial read racing the first change event)
// produce nothing new.
type roomFeed struct {
	role string

	offerSeen    bool
	answerSeen   bool
	offerCands   int
	answerCands  int
	participants *models.Participants
	endedSeen    bool
}

func newRoomFeed(role string) *roomFeed {
	return &roomFeed{role: role}
}

func (f *roomFeed) diff(room *models.SignalRoom) []models.RoomEvent {
	var events []models.RoomEvent

	// Counterpart's description only; a peer never hears its own SDP back.
	if f.role == models.RoleCallee && !f.offerSeen && room.Offer.Valid() {
		f.offerSeen = true
		events = append(events, models.RoomEvent{
			Kind:        models.RoomEventOffer,
			Description: room.Offer,
			FromRole:    models.RoleCaller,
		})
	}
	if f.role == models.RoleCaller && !f.answerSeen && room.Answer.Valid() {
		f.answerSeen = true
		events = append(events, models.RoomEvent{
			Kind:        models.RoomEventAnswer,
			Description: room.Answer,
			FromRole:    models.RoleCallee,
		})
	}

	if f.role == models.RoleCallee {
		events = append(events, f.newCandidates(room.OfferCandidates, &f.offerCands, models.RoleCaller)...)
	} else {
		events = append(events, f.newCandidates(room.AnswerCandidates, &f.answerCands, models.RoleCallee)...)
	}

	if f.participants == nil || *f.participants != room.Participants {
		p := room.Participants
		f.participants = &p
		events = append(events, models.RoomEvent{
			Kind:         models.RoomEventPresence,
			Participants: &p,
		})
	}

	if room.Ended && !f.endedSeen {
		f.endedSeen = true
		events = append(events, models.RoomEvent{Kind: models.RoomEventEnded})
	}

	return events
}

func (f *roomFeed) newCandidates(cands []models.ICECandidate, seen *int, fromRole string) []models.RoomEvent {
	if len(cands) <= *seen {
		return nil
	}
	var events []models.RoomEvent
	for _, cand := range cands[*seen:] {
		c := cand
		events = append(events, models.RoomEvent{
			Kind:      models.RoomEventCandidate,
			Candidate: &c,
			FromRole:  fromRole,
		})
	}
	*seen = len(cands)
	return events
}
