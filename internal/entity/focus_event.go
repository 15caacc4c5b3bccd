package entity

import "time"

// Focus events are the raw signals a browser collaborator sends when it
// cannot aggregate sessions locally. The backend folds them through a
// per-user focus tracker.
const (
	EventFocusGained   = "focus_gained"
	EventFocusLost     = "focus_lost"
	EventWindowBlurred = "window_blurred"
	EventWindowFocused = "window_focused"
)

type FocusEvent struct {
	Type      string    `json:"type" binding:"required"`
	Timestamp time.Time `json:"ts" binding:"required"`
	TabID     *int      `json:"tabId,omitempty"`
	URL       *string   `json:"url,omitempty"`
	Title     *string   `json:"title,omitempty"`
	Favicon   *string   `json:"favicon,omitempty"`
}

type IngestEventsRequest struct {
	Events []FocusEvent `json:"events" binding:"required,dive"`
}

type IngestEventsResponse struct {
	Accepted int `json:"accepted"`
	Recorded int `json:"recorded"`
}

// LiveStatsResponse is the uncommitted in-memory view of today's activity,
// served without touching the database.
type LiveStatsResponse struct {
	Date          string      `json:"date"`
	Rollup        DailyRollup `json:"rollup"`
	Tracking      bool        `json:"tracking"`
	CurrentDomain *string     `json:"currentDomain,omitempty"`
	PendingSync   int         `json:"pendingSync"`
}
