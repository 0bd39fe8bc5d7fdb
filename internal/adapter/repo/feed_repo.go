package repo

import (
	"context"
	"fmt"
	"time"

	"slidecast/internal/domain"
	"slidecast/internal/infra"
	"slidecast/internal/sqlinline"
)

// FeedRepositoryPG stores the latest task and notification snapshots in
// PostgreSQL.
type FeedRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewFeedRepository creates a feed repo on top of a marker-checked executor.
func NewFeedRepository(sql infra.SQLExecutor) *FeedRepositoryPG {
	return &FeedRepositoryPG{sql: sql}
}

var _ domain.FeedRepository = (*FeedRepositoryPG)(nil)

// EnsureSchema creates the feed tables when missing.
func (r *FeedRepositoryPG) EnsureSchema(ctx context.Context) error {
	for _, q := range []string{sqlinline.QCreateFeedTasks, sqlinline.QCreateFeedNotifications} {
		if _, err := r.sql.Exec(ctx, q); err != nil {
			return fmt.Errorf("ensure feed schema: %w", err)
		}
	}
	return nil
}

// SaveTask upserts a task by id.
func (r *FeedRepositoryPG) SaveTask(ctx context.Context, t domain.Task) error {
	var videoKey string
	if t.Result != nil {
		videoKey = t.Result.VideoKey
	}
	_, err := r.sql.Exec(ctx, sqlinline.QUpsertFeedTask,
		t.ID, t.ProjectID, string(t.Status), t.Error, videoKey, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save task %s: %w", t.ID, err)
	}
	return nil
}

// ListTasks returns stored tasks in the order they were first received.
func (r *FeedRepositoryPG) ListTasks(ctx context.Context) ([]domain.Task, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListFeedTasks)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	items := []domain.Task{}
	for rows.Next() {
		var (
			t        domain.Task
			status   string
			videoKey string
		)
		if err := rows.Scan(&t.ID, &t.ProjectID, &status, &t.Error, &videoKey, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		t.Status = domain.TaskStatus(status)
		if videoKey != "" {
			t.Result = &domain.TaskResult{VideoKey: videoKey}
		}
		items = append(items, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// SaveNotification upserts a notification by id.
func (r *FeedRepositoryPG) SaveNotification(ctx context.Context, n domain.Notification) error {
	_, err := r.sql.Exec(ctx, sqlinline.QUpsertFeedNotification,
		n.ID, n.UserID, n.TaskID, n.Message, string(n.Status), n.IsDeleted,
		n.CreatedAt, n.UpdatedAt, n.SentAt, n.ReadAt)
	if err != nil {
		return fmt.Errorf("save notification %s: %w", n.ID, err)
	}
	return nil
}

// ListNotifications returns stored notifications that are not deleted,
// newest first.
func (r *FeedRepositoryPG) ListNotifications(ctx context.Context) ([]domain.Notification, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListFeedNotifications)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	items := []domain.Notification{}
	for rows.Next() {
		var (
			n      domain.Notification
			status string
		)
		if err := rows.Scan(&n.ID, &n.UserID, &n.TaskID, &n.Message, &status, &n.IsDeleted,
			&n.CreatedAt, &n.UpdatedAt, &n.SentAt, &n.ReadAt); err != nil {
			return nil, err
		}
		n.Status = domain.NotificationStatus(status)
		if n.IsDeleted {
			continue
		}
		items = append(items, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// PruneTasks drops finished or failed tasks received before cutoff.
func (r *FeedRepositoryPG) PruneTasks(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.sql.Exec(ctx, sqlinline.QPruneFeedTasks, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune tasks: %w", err)
	}
	return tag.RowsAffected(), nil
}
