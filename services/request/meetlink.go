// File: services/request/meetlink.go
package request

import (
	"fmt"

	"github.com/google/uuid"
)

// MeetLinkGenerator produces the meeting URL for an online booking. The real
// calendar-provider integration sits behind this interface.
type MeetLinkGenerator interface {
	NewMeetingLink(requestID string) string
}

// URLMeetLinkGenerator derives links under a fixed base URL.
type URLMeetLinkGenerator struct {
	BaseURL string
}

func (g *URLMeetLinkGenerator) NewMeetingLink(requestID string) string {
	return fmt.Sprintf("%s/%s", g.BaseURL, uuid.New().String())
}
