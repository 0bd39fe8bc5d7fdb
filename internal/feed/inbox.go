package feed

import (
	"sync"
	"time"

	"slidecast/internal/domain"
)

// Inbox holds notifications newest first. A repeated id moves to the front
// with its new content.
type Inbox struct {
	mu    sync.RWMutex
	items []domain.Notification
}

// NewInbox returns an empty inbox.
func NewInbox() *Inbox { return &Inbox{} }

// Upsert applies one update.
func (in *Inbox) Upsert(n domain.Notification) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.removeLocked(n.ID)
	in.items = append([]domain.Notification{n}, in.items...)
}

// Replace swaps the inbox contents. items are expected newest first.
func (in *Inbox) Replace(items []domain.Notification) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.items = append([]domain.Notification(nil), items...)
}

// Get returns the notification with id.
func (in *Inbox) Get(id string) (domain.Notification, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	for _, n := range in.items {
		if n.ID == id {
			return n, true
		}
	}
	return domain.Notification{}, false
}

// Visible returns every notification that is not deleted.
func (in *Inbox) Visible() []domain.Notification {
	return in.filter(func(n domain.Notification) bool { return !n.IsDeleted })
}

// Unread returns visible notifications that were not read.
func (in *Inbox) Unread() []domain.Notification {
	return in.filter(domain.Notification.Unread)
}

// Read returns visible notifications already read.
func (in *Inbox) Read() []domain.Notification {
	return in.filter(func(n domain.Notification) bool {
		return !n.IsDeleted && n.Status == domain.NotificationRead
	})
}

// HasUnread reports whether any visible notification is unread.
func (in *Inbox) HasUnread() bool {
	return len(in.Unread()) > 0
}

// MarkRead flags id as read at the given time and returns the updated item.
func (in *Inbox) MarkRead(id string, at time.Time) (domain.Notification, bool) {
	in.mu.Lock()
	defer in.mu.Unlock()
	for i := range in.items {
		if in.items[i].ID == id {
			in.items[i].Status = domain.NotificationRead
			in.items[i].ReadAt = &at
			return in.items[i], true
		}
	}
	return domain.Notification{}, false
}

// Remove drops id from the inbox.
func (in *Inbox) Remove(id string) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.removeLocked(id)
}

func (in *Inbox) removeLocked(id string) bool {
	for i, n := range in.items {
		if n.ID == id {
			in.items = append(in.items[:i:i], in.items[i+1:]...)
			return true
		}
	}
	return false
}

func (in *Inbox) filter(keep func(domain.Notification) bool) []domain.Notification {
	in.mu.RLock()
	defer in.mu.RUnlock()
	out := []domain.Notification{}
	for _, n := range in.items {
		if keep(n) {
			out = append(out, n)
		}
	}
	return out
}
