package models

import "time"

// Peer roles within a signaling room. The caller is whichever peer wins the
// conditional room creation; the role is read back from the document, never
// derived from identity.
const (
	RoleCaller = "caller"
	RoleCallee = "callee"
)

// SessionDescription carries an SDP blob plus its type ("offer" or "answer").
type SessionDescription struct {
	Type string `bson:"type" json:"type"`
	SDP  string `bson:"sdp" json:"sdp"`
}

// Valid reports whether the description has both required fields.
func (d *SessionDescription) Valid() bool {
	return d != nil && d.Type != "" && d.SDP != ""
}

// ICECandidate mirrors the browser RTCIceCandidateInit shape.
type ICECandidate struct {
	Candidate     string `bson:"candidate" json:"candidate"`
	SDPMid        string `bson:"sdpMid,omitempty" json:"sdpMid,omitempty"`
	SDPMLineIndex int    `bson:"sdpMLineIndex" json:"sdpMLineIndex"`
}

// Participants tracks presence of the two fixed room roles.
type Participants struct {
	Caller bool `bson:"caller" json:"caller"`
	Callee bool `bson:"callee" json:"callee"`
}

// SignalRoom is the shared signaling document for one call. The two peers
// write disjoint fields: the caller owns offer and offerCandidates, the callee
// owns answer and answerCandidates, and each owns its presence flag. Candidate
// arrays are append-only.
type SignalRoom struct {
	ID               string              `bson:"_id" json:"id"`
	CallerID         string              `bson:"callerId" json:"callerId"`
	Offer            *SessionDescription `bson:"offer,omitempty" json:"offer,omitempty"`
	Answer           *SessionDescription `bson:"answer,omitempty" json:"answer,omitempty"`
	OfferCandidates  []ICECandidate      `bson:"offerCandidates" json:"offerCandidates"`
	AnswerCandidates []ICECandidate      `bson:"answerCandidates" json:"answerCandidates"`
	Participants     Participants        `bson:"participants" json:"participants"`
	Ended            bool                `bson:"ended" json:"ended"`
	CreatedAt        time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time           `bson:"updatedAt" json:"updatedAt"`
	EndedAt          *time.Time          `bson:"endedAt,omitempty" json:"endedAt,omitempty"`
}

// Room event kinds delivered to watchers.
const (
	RoomEventOffer     = "offer"
	RoomEventAnswer    = "answer"
	RoomEventCandidate = "candidate"
	RoomEventPresence  = "presence"
	RoomEventEnded     = "ended"
)

// RoomEvent is one observed change to a signaling room, deduplicated so that
// every offer, answer and candidate is delivered at most once per watcher.
type RoomEvent struct {
	Kind         string              `json:"kind"`
	Description  *SessionDescription `json:"description,omitempty"`
	Candidate    *ICECandidate       `json:"candidate,omitempty"`
	FromRole     string              `json:"fromRole,omitempty"`
	Participants *Participants       `json:"participants,omitempty"`
}
