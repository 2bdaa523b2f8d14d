package models

import "time"

// Event is a single audit log entry.
type Event struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`    // SET | DELETE | TARGET_CHANGE
	Keyname     string    `json:"keyname"` // empty for TARGET_CHANGE
	Description string    `json:"description"`
	Metadata    any       `json:"metadata,omitempty"`
}

// Event types.
const (
	EventSet          = "SET"
	EventDelete       = "DELETE"
	EventTargetChange = "TARGET_CHANGE"
)
