package service

import (
	"sync"
	"time"

	"github.com/linguamarket/linguamarket-api/internal/models"
)

const defaultFeedCapacity = 100

// Notifier collects the toast-style events emitted after each mutation and
// exposes them as a bounded feed, newest first.
type Notifier struct {
	mu    sync.Mutex
	items []models.Notification
	max   int
	now   func() time.Time
}

// NewNotifier constructs a notifier with the given feed capacity.
func NewNotifier(max int) *Notifier {
	if max <= 0 {
		max = defaultFeedCapacity
	}
	return &Notifier{max: max, now: time.Now}
}

// Publish appends an event to the feed and returns it so callers can include
// it in the operation's event list.
func (n *Notifier) Publish(kind models.NotificationKind, message string) models.Notification {
	event := models.Notification{Kind: kind, Message: message, Timestamp: n.now().UTC()}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.items = append(n.items, event)
	if len(n.items) > n.max {
		n.items = n.items[len(n.items)-n.max:]
	}
	return event
}

// Feed returns up to limit events, newest first. A non-positive limit returns
// the whole feed.
func (n *Notifier) Feed(limit int) []models.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	if limit <= 0 || limit > len(n.items) {
		limit = len(n.items)
	}
	out := make([]models.Notification, 0, limit)
	for i := len(n.items) - 1; i >= len(n.items)-limit; i-- {
		out = append(out, n.items[i])
	}
	return out
}
