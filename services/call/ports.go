// File: services/call/ports.go
package call

import (
	"context"

	"consultly/models"
)

// The browser media and peer-connection APIs are external collaborators; the
// controller drives them through these ports.

// MediaTrack is a single audio or video track.
type MediaTrack interface {
	Kind() string // "audio" or "video"
	Enabled() bool
	SetEnabled(enabled bool)
	Stop()
	// OnEnded fires when the track stops outside our control, e.g. the
	// browser's own "stop sharing" button.
	OnEnded(fn func())
}

// MediaStream is a set of tracks captured together.
type MediaStream interface {
	Tracks() []MediaTrack
}

// MediaDevices acquires capture streams.
type MediaDevices interface {
	GetUserMedia(ctx context.Context) (MediaStream, error)
	GetDisplayMedia(ctx context.Context) (MediaStream, error)
}

// TrackSender is the outgoing side of one added track; screen share swaps the
// track on the sender without renegotiating.
type TrackSender interface {
	Track() MediaTrack
	ReplaceTrack(track MediaTrack) error
}

// PeerConnection wraps an RTCPeerConnection.
type PeerConnection interface {
	AddTrack(track MediaTrack) (TrackSender, error)
	CreateOffer(ctx context.Context) (models.SessionDescription, error)
	CreateAnswer(ctx context.Context) (models.SessionDescription, error)
	SetLocalDescription(desc models.SessionDescription) error
	SetRemoteDescription(desc models.SessionDescription) error
	AddICECandidate(cand models.ICECandidate) error
	OnICECandidate(fn func(models.ICECandidate))
	OnTrack(fn func(MediaTrack))
	OnConnectionStateChange(fn func(state string))
	Close() error
}

// PeerConnectionFactory builds a fresh connection per call.
type PeerConnectionFactory func() (PeerConnection, error)
