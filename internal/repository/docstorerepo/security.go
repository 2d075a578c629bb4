package docstorerepo

import (
	"context"
	"time"

	"github.com/docuforge/docuforge/internal/docstore"
	"github.com/docuforge/docuforge/internal/domain/security"
	"github.com/docuforge/docuforge/internal/logger"
	"github.com/docuforge/docuforge/internal/types"
	"github.com/samber/lo"
)

type securityEventRepository struct {
	store docstore.Store
	log   *logger.Logger
}

// NewSecurityEventRepository creates a docstore-backed append-only event
// repository.
func NewSecurityEventRepository(store docstore.Store, log *logger.Logger) security.EventRepository {
	return &securityEventRepository{store: store, log: log}
}

func (r *securityEventRepository) Append(ctx context.Context, event *security.Event) error {
	// Unconditional write: the timestamp-first key makes collisions
	// effectively impossible and events are immutable anyway.
	_, err := r.store.Set(ctx, types.CollectionSecurityEvents, event.Key().Encode(), event, nil)
	return err
}

func (r *securityEventRepository) ListSince(ctx context.Context, cutoff time.Time) ([]*security.Event, error) {
	// Full-collection scan filtered client-side. Fine at current scale;
	// the timestamp-prefixed keys allow a range scan if this becomes hot.
	docs, err := r.store.List(ctx, types.CollectionSecurityEvents, docstore.ListOptions{})
	if err != nil {
		return nil, err
	}

	cutoffMs := cutoff.UnixMilli()
	events := make([]*security.Event, 0, len(docs))
	for _, doc := range docs {
		event, err := docstore.Decode[security.Event](doc)
		if err != nil {
			r.log.Warnw("skipping malformed security event", "key", doc.Key, "error", err)
			continue
		}
		if event.Timestamp < cutoffMs {
			continue
		}
		events = append(events, event)
	}
	return events, nil
}

type notificationRepository struct {
	store docstore.Store
	log   *logger.Logger
}

// NewNotificationRepository creates a docstore-backed admin notification
// repository.
func NewNotificationRepository(store docstore.Store, log *logger.Logger) security.NotificationRepository {
	return &notificationRepository{store: store, log: log}
}

func (r *notificationRepository) Create(ctx context.Context, n *security.Notification) error {
	_, err := r.store.Set(ctx, types.CollectionAdminNotifications, n.Key().Encode(), n, nil)
	return err
}

func (r *notificationRepository) List(ctx context.Context, limit int) ([]*security.Notification, error) {
	docs, err := r.store.List(ctx, types.CollectionAdminNotifications, docstore.ListOptions{Limit: limit})
	if err != nil {
		return nil, err
	}

	notifications := make([]*security.Notification, 0, len(docs))
	for _, doc := range docs {
		n, err := docstore.Decode[security.Notification](doc)
		if err != nil {
			r.log.Warnw("skipping malformed notification", "key", doc.Key, "error", err)
			continue
		}
		notifications = append(notifications, n)
	}
	return notifications, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, key security.NotificationKey) error {
	encoded := key.Encode()
	doc, err := r.store.Get(ctx, types.CollectionAdminNotifications, encoded)
	if err != nil {
		return err
	}
	n, err := docstore.Decode[security.Notification](doc)
	if err != nil {
		return err
	}
	n.Read = true
	_, err = r.store.Set(ctx, types.CollectionAdminNotifications, encoded, n, lo.ToPtr(doc.Version))
	return err
}
