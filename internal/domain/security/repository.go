package security

import (
	"context"
	"time"
)

// EventRepository persists append-only security events.
type EventRepository interface {
	// Append writes a new event. Events are never updated or deleted.
	Append(ctx context.Context, event *Event) error

	// ListSince returns events at or after the cutoff, oldest first.
	ListSince(ctx context.Context, cutoff time.Time) ([]*Event, error)
}

// NotificationRepository persists admin notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
	List(ctx context.Context, limit int) ([]*Notification, error)

	// MarkRead flips the read flag, the only mutation the model allows.
	MarkRead(ctx context.Context, key NotificationKey) error
}
