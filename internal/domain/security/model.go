package security

import (
	"time"

	"github.com/docuforge/docuforge/internal/types"
)

// Event is an immutable security telemetry record. Events are only ever
// appended; the key encodes timestamp-first sort order for range scans.
type Event struct {
	EventType types.SecurityEventType `json:"event_type"`
	Severity  types.Severity          `json:"severity"`
	UserID    string                  `json:"user_id"`
	Message   string                  `json:"message"`
	Endpoint  string                  `json:"endpoint,omitempty"`
	Metadata  map[string]interface{}  `json:"metadata,omitempty"`
	Timestamp int64                   `json:"timestamp"` // epoch ms
}

// Key returns the event's composite store key.
func (e *Event) Key() EventKey {
	return EventKey{
		Timestamp: e.Timestamp,
		UserID:    e.UserID,
		EventType: e.EventType,
	}
}

// Time returns the event time.
func (e *Event) Time() time.Time {
	return time.UnixMilli(e.Timestamp).UTC()
}

// Notification is an alert derived from event aggregation. Only the Read
// flag is mutable after creation.
type Notification struct {
	Title        string                 `json:"title"`
	Message      string                 `json:"message"`
	Read         bool                   `json:"read"`
	QuickActions []types.QuickAction    `json:"quick_actions,omitempty"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
	Severity     types.Severity         `json:"severity"`
	UserID       string                 `json:"user_id"`
	Timestamp    int64                  `json:"timestamp"` // epoch ms
}

// Key returns the notification's composite store key.
func (n *Notification) Key() NotificationKey {
	return NotificationKey{
		Timestamp: n.Timestamp,
		Severity:  n.Severity,
		UserID:    n.UserID,
	}
}
