// File: services/call/controller.go
package call

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"consultly/models"
	"consultly/services/signaling"
	"consultly/utils"
)

// ErrMediaAccess wraps camera/microphone acquisition failures. The call
// attempt terminates through the hang-up path and control returns to the
// caller.
var ErrMediaAccess = errors.New("media access denied")

// Controller owns one peer's side of a call: the local media stream, the peer
// connection, mute and camera toggles, screen share, and teardown. The leave
// callback fires exactly once no matter how the call ends.
type Controller struct {
	Signaling         signaling.RoomService
	Media             MediaDevices
	NewPeerConnection PeerConnectionFactory
	OnLeave           func()

	mu           sync.Mutex
	session      *signaling.Session
	pc           PeerConnection
	local        MediaStream
	remoteTracks []MediaTrack
	videoSender  TrackSender
	cameraTrack  MediaTrack
	screenTrack  MediaTrack
	done         bool

	leaveOnce sync.Once
}

// Start joins the room, acquires media and runs the role-appropriate side of
// the SDP/ICE exchange until the call ends. It returns once signaling is
// under way; media errors abort and route through the hang-up path.
func (c *Controller) Start(ctx context.Context, roomID, peerID string) error {
	session, err := c.Signaling.Join(ctx, roomID, peerID)
	if err != nil {
		return fmt.Errorf("failed to join call: %w", err)
	}
	c.mu.Lock()
	c.session = session
	c.mu.Unlock()

	local, err := c.Media.GetUserMedia(ctx)
	if err != nil {
		c.teardown(ctx, false)
		return fmt.Errorf("%w: %v", ErrMediaAccess, err)
	}

	pc, err := c.NewPeerConnection()
	if err != nil {
		c.teardown(ctx, false)
		return err
	}

	c.mu.Lock()
	c.local = local
	c.pc = pc
	for _, track := range local.Tracks() {
		sender, err := pc.AddTrack(track)
		if err != nil {
			c.mu.Unlock()
			c.teardown(ctx, false)
			return err
		}
		if track.Kind() == "video" {
			c.videoSender = sender
			c.cameraTrack = track
		}
	}
	c.mu.Unlock()

	pc.OnICECandidate(func(cand models.ICECandidate) {
		if err := session.SendCandidate(context.Background(), cand); err != nil {
			utils.GetLogger().Warn("call: failed to publish candidate",
				zap.String("roomId", roomID), zap.Error(err))
		}
	})
	pc.OnTrack(func(track MediaTrack) {
		c.mu.Lock()
		c.remoteTracks = append(c.remoteTracks, track)
		c.mu.Unlock()
	})
	pc.OnConnectionStateChange(func(state string) {
		// Connection failures are surfaced, not auto-retried; the user
		// re-joins.
		utils.GetLogger().Info("call: connection state",
			zap.String("roomId", roomID), zap.String("state", state))
	})

	if session.Role == models.RoleCaller {
		offer, err := pc.CreateOffer(ctx)
		if err != nil {
			c.teardown(ctx, false)
			return err
		}
		if err := pc.SetLocalDescription(offer); err != nil {
			c.teardown(ctx, false)
			return err
		}
		if err := session.SendDescription(ctx, offer); err != nil {
			c.teardown(ctx, false)
			return err
		}
	}

	go c.dispatch(session, pc)
	return nil
}

// dispatch consumes counterpart events until the session closes.
func (c *Controller) dispatch(session *signaling.Session, pc PeerConnection) {
	ctx := context.Background()
	for event := range session.Events() {
		switch event.Kind {
		case models.RoomEventOffer:
			if err := c.answer(ctx, session, pc, *event.Description); err != nil {
				utils.GetLogger().Error("call: failed to answer",
					zap.String("roomId", session.RoomID), zap.Error(err))
			}
		case models.RoomEventAnswer:
			if err := pc.SetRemoteDescription(*event.Description); err != nil {
				utils.GetLogger().Error("call: failed to apply answer",
					zap.String("roomId", session.RoomID), zap.Error(err))
			}
		case models.RoomEventCandidate:
			if err := pc.AddICECandidate(*event.Candidate); err != nil {
				utils.GetLogger().Warn("call: failed to apply candidate",
					zap.String("roomId", session.RoomID), zap.Error(err))
			}
		case models.RoomEventEnded:
			c.teardown(ctx, false)
			return
		}
	}
	// Watch closed without an ended flag; treat as a local disconnect.
	c.teardown(ctx, false)
}

func (c *Controller) answer(ctx context.Context, session *signaling.Session, pc PeerConnection, offer models.SessionDescription) error {
	if err := pc.SetRemoteDescription(offer); err != nil {
		return err
	}
	answer, err := pc.CreateAnswer(ctx)
	if err != nil {
		return err
	}
	if err := pc.SetLocalDescription(answer); err != nil {
		return err
	}
	return session.SendDescription(ctx, answer)
}

// ToggleMute flips the enabled bit on local audio tracks and reports the new
// muted state. Tracks stay live; nothing is renegotiated.
func (c *Controller) ToggleMute() bool {
	return c.toggleKind("audio")
}

// ToggleCamera flips the enabled bit on the local camera track and reports
// whether the camera is now off.
func (c *Controller) ToggleCamera() bool {
	return c.toggleKind("video")
}

func (c *Controller) toggleKind(kind string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	disabled := false
	if c.local == nil {
		return false
	}
	for _, track := range c.local.Tracks() {
		if track.Kind() != kind {
			continue
		}
		track.SetEnabled(!track.Enabled())
		disabled = !track.Enabled()
	}
	return disabled
}

// StartScreenShare swaps the outgoing video for a display capture. When the
// capture ends (including via the browser's stop-sharing control) the camera
// track is restored automatically.
func (c *Controller) StartScreenShare(ctx context.Context) error {
	display, err := c.Media.GetDisplayMedia(ctx)
	if err != nil {
		return fmt.Errorf("failed to start screen share: %w", err)
	}

	var screen MediaTrack
	for _, track := range display.Tracks() {
		if track.Kind() == "video" {
			screen = track
			break
		}
	}
	if screen == nil {
		return errors.New("display capture has no video track")
	}

	c.mu.Lock()
	sender := c.videoSender
	c.screenTrack = screen
	c.mu.Unlock()
	if sender == nil {
		screen.Stop()
		return errors.New("no outgoing video to replace")
	}

	if err := sender.ReplaceTrack(screen); err != nil {
		screen.Stop()
		return err
	}
	screen.OnEnded(func() {
		c.StopScreenShare()
	})
	return nil
}

// StopScreenShare restores the camera track. Safe to call when no share is
// active.
func (c *Controller) StopScreenShare() {
	c.mu.Lock()
	sender := c.videoSender
	camera := c.cameraTrack
	screen := c.screenTrack
	c.screenTrack = nil
	c.mu.Unlock()

	if screen != nil {
		screen.Stop()
	}
	if sender != nil && camera != nil {
		if err := sender.ReplaceTrack(camera); err != nil {
			utils.GetLogger().Warn("call: failed to restore camera track", zap.Error(err))
		}
	}
}

// RemoteTracks returns the inbound media received so far.
func (c *Controller) RemoteTracks() []MediaTrack {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]MediaTrack, len(c.remoteTracks))
	copy(out, c.remoteTracks)
	return out
}

// HangUp ends the call for both peers and tears down local state.
func (c *Controller) HangUp(ctx context.Context) {
	c.teardown(ctx, true)
}

// teardown stops local media, closes the connection, leaves the room and
// fires the leave callback exactly once. propagate marks the shared room
// ended; observers of a remote ended flag skip that write.
func (c *Controller) teardown(ctx context.Context, propagate bool) {
	c.mu.Lock()
	if c.done {
		c.mu.Unlock()
		return
	}
	c.done = true
	session := c.session
	pc := c.pc
	local := c.local
	screen := c.screenTrack
	c.mu.Unlock()

	if propagate && session != nil {
		if err := session.End(ctx); err != nil {
			utils.GetLogger().Warn("call: failed to flag room ended",
				zap.String("roomId", session.RoomID), zap.Error(err))
		}
	}
	if screen != nil {
		screen.Stop()
	}
	if local != nil {
		for _, track := range local.Tracks() {
			track.Stop()
		}
	}
	if pc != nil {
		if err := pc.Close(); err != nil {
			utils.GetLogger().Warn("call: failed to close peer connection", zap.Error(err))
		}
	}
	if session != nil {
		session.Leave(ctx)
	}

	c.leaveOnce.Do(func() {
		if c.OnLeave != nil {
			c.OnLeave()
		}
	})
}
