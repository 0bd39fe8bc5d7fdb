// Package feed follows the backend's live task and notification streams and
// keeps in-memory read models of both.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"slidecast/internal/backend"
	"slidecast/internal/domain"
)

// Topics published for browser subscribers.
const (
	TopicTasks         = "tasks"
	TopicNotifications = "notifications"
)

// Publisher receives every applied update, serialized as JSON.
type Publisher interface {
	Publish(topic string, msg []byte)
}

// Source is the backend surface the feed needs.
type Source interface {
	Opener
	ListTasks(ctx context.Context) ([]domain.Task, error)
}

// Options configure a Feed. Publisher and Repo are optional.
type Options struct {
	Source     Source
	Publisher  Publisher
	Repo       domain.FeedRepository
	RetryDelay time.Duration
	Logger     zerolog.Logger
}

// Feed owns the task board and the inbox and keeps them current.
type Feed struct {
	Tasks *TaskBoard
	Inbox *Inbox

	src        Source
	pub        Publisher
	repo       domain.FeedRepository
	retryDelay time.Duration
	log        zerolog.Logger

	tasksUp atomic.Bool
	notesUp atomic.Bool
}

// New builds a feed with empty read models.
func New(opts Options) *Feed {
	return &Feed{
		Tasks:      NewTaskBoard(),
		Inbox:      NewInbox(),
		src:        opts.Source,
		pub:        opts.Publisher,
		repo:       opts.Repo,
		retryDelay: opts.RetryDelay,
		log:        opts.Logger,
	}
}

// Restore fills the read models from the repository snapshot, if any.
func (f *Feed) Restore(ctx context.Context) error {
	if f.repo == nil {
		return nil
	}
	tasks, err := f.repo.ListTasks(ctx)
	if err != nil {
		return fmt.Errorf("restore tasks: %w", err)
	}
	notes, err := f.repo.ListNotifications(ctx)
	if err != nil {
		return fmt.Errorf("restore notifications: %w", err)
	}
	f.Tasks.Replace(tasks)
	f.Inbox.Replace(notes)
	f.log.Info().Int("tasks", len(tasks)).Int("notifications", len(notes)).Msg("feed restored")
	return nil
}

// Refresh reloads the task board from the backend.
func (f *Feed) Refresh(ctx context.Context) error {
	tasks, err := f.src.ListTasks(ctx)
	if err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}
	f.Tasks.Replace(tasks)
	for _, t := range tasks {
		f.persistTask(ctx, t)
	}
	return nil
}

// Run performs the initial load and follows both streams until ctx ends.
func (f *Feed) Run(ctx context.Context) error {
	if err := f.Refresh(ctx); err != nil {
		f.log.Warn().Err(err).Msg("initial task load failed")
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, s := range f.streams() {
		g.Go(func() error {
			s.Run(gctx)
			return nil
		})
	}
	return g.Wait()
}

func (f *Feed) streams() []*Stream {
	return []*Stream{
		{
			Name:       TopicTasks,
			Path:       backend.TaskStreamPath,
			Source:     f.src,
			Apply:      f.applyTaskEvent,
			RetryDelay: f.retryDelay,
			Logger:     f.log,
			OnState:    f.tasksUp.Store,
		},
		{
			Name:       TopicNotifications,
			Path:       backend.NotificationStreamPath,
			Source:     f.src,
			Apply:      f.applyNotificationEvent,
			RetryDelay: f.retryDelay,
			Logger:     f.log,
			OnState:    f.notesUp.Store,
		},
	}
}

// Connected reports whether the task and notification streams are live.
func (f *Feed) Connected() (tasks, notifications bool) {
	return f.tasksUp.Load(), f.notesUp.Load()
}

func (f *Feed) applyTaskEvent(ctx context.Context, ev Event) error {
	var t domain.Task
	if err := json.Unmarshal(ev.Data, &t); err != nil {
		return fmt.Errorf("decode task: %w", err)
	}
	return f.ApplyTask(ctx, t)
}

func (f *Feed) applyNotificationEvent(ctx context.Context, ev Event) error {
	var n domain.Notification
	if err := json.Unmarshal(ev.Data, &n); err != nil {
		return fmt.Errorf("decode notification: %w", err)
	}
	return f.ApplyNotification(ctx, n)
}

// ApplyTask merges one task update and fans it out.
func (f *Feed) ApplyTask(ctx context.Context, t domain.Task) error {
	if t.ID == "" {
		return fmt.Errorf("task without id: %w", domain.ErrInvalidInput)
	}
	f.Tasks.Upsert(t)
	f.persistTask(ctx, t)
	f.publish(TopicTasks, t)
	return nil
}

// ApplyNotification merges one notification update and fans it out.
func (f *Feed) ApplyNotification(ctx context.Context, n domain.Notification) error {
	if n.ID == "" {
		return fmt.Errorf("notification without id: %w", domain.ErrInvalidInput)
	}
	f.Inbox.Upsert(n)
	f.persistNotification(ctx, n)
	f.publish(TopicNotifications, n)
	return nil
}

// MarkRead records a read made through this service.
func (f *Feed) MarkRead(ctx context.Context, id string, at time.Time) (domain.Notification, error) {
	n, ok := f.Inbox.MarkRead(id, at)
	if !ok {
		return domain.Notification{}, fmt.Errorf("notification %s: %w", id, domain.ErrNotFound)
	}
	f.persistNotification(ctx, n)
	f.publish(TopicNotifications, n)
	return n, nil
}

// Remove soft-deletes a notification made through this service.
func (f *Feed) Remove(ctx context.Context, id string) error {
	n, ok := f.Inbox.Get(id)
	if !ok {
		return fmt.Errorf("notification %s: %w", id, domain.ErrNotFound)
	}
	f.Inbox.Remove(id)
	n.IsDeleted = true
	f.persistNotification(ctx, n)
	f.publish(TopicNotifications, n)
	return nil
}

func (f *Feed) persistTask(ctx context.Context, t domain.Task) {
	if f.repo == nil {
		return
	}
	if err := f.repo.SaveTask(ctx, t); err != nil {
		f.log.Error().Err(err).Str("task_id", t.ID).Msg("persist task")
	}
}

func (f *Feed) persistNotification(ctx context.Context, n domain.Notification) {
	if f.repo == nil {
		return
	}
	if err := f.repo.SaveNotification(ctx, n); err != nil {
		f.log.Error().Err(err).Str("notification_id", n.ID).Msg("persist notification")
	}
}

func (f *Feed) publish(topic string, v any) {
	if f.pub == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		f.log.Error().Err(err).Str("topic", topic).Msg("encode update")
		return
	}
	f.pub.Publish(topic, b)
}
