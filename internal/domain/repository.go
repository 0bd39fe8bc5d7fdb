package domain

import "context"

// FeedRepository persists the latest known state of tasks and notifications.
// Saves are upserts keyed by id: the newest write replaces the stored row.
type FeedRepository interface {
	SaveTask(ctx context.Context, task Task) error
	ListTasks(ctx context.Context) ([]Task, error)
	SaveNotification(ctx context.Context, n Notification) error
	ListNotifications(ctx context.Context) ([]Notification, error)
}
