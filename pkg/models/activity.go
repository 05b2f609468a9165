package models

import "time"

// ActivityEntry is one line of the append-only, capped audit trail.
type ActivityEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type"`
	Action    string    `json:"action"`
	Details   string    `json:"details,omitempty"`
}
