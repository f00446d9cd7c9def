package memory

import (
	"context"
	"sync"

	"github.com/fairwayclub/league-engine/internal/domain/notification"
)

type NotificationRepository struct {
	mu    sync.RWMutex
	items []notification.Notification
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{}
}

func (r *NotificationRepository) CreateBatch(_ context.Context, items []notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, items...)
	return nil
}

// All returns every stored notification, a test helper.
func (r *NotificationRepository) All() []notification.Notification {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]notification.Notification, len(r.items))
	copy(out, r.items)
	return out
}

// ByType filters stored notifications, a test helper.
func (r *NotificationRepository) ByType(t notification.Type) []notification.Notification {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []notification.Notification
	for _, n := range r.items {
		if n.Type == t {
			out = append(out, n)
		}
	}
	return out
}
