package model

import (
	"strings"
	"time"
)

// Announcement is a notice posted by the exchange. To is either a single
// tenant email or the broadcast address; empty means broadcast.
type Announcement struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	To        string    `json:"to,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// VisibleTo reports whether a viewer with the given email may see the
// announcement. Broadcast announcements are visible to everyone;
// addressed ones only to the matching recipient. Comparison is
// case-insensitive, matching tenant key comparison elsewhere.
func (a *Announcement) VisibleTo(viewerEmail, broadcastAddress string) bool {
	if a.To == "" {
		return true
	}
	if strings.EqualFold(a.To, broadcastAddress) {
		return true
	}
	return strings.EqualFold(a.To, viewerEmail)
}
