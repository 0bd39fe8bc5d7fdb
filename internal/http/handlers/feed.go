package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"slidecast/internal/domain"
	"slidecast/internal/feed"
	"slidecast/pkg/sse"
)

func (a *App) ListTasks(w http.ResponseWriter, r *http.Request) {
	var items []domain.Task
	if project := r.URL.Query().Get("project"); project != "" {
		items = a.Feed.Tasks.ForProject(project)
	} else {
		items = a.Feed.Tasks.All()
	}
	if items == nil {
		items = []domain.Task{}
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

// GetTask returns a task and, once it finished, the video asset it produced.
func (a *App) GetTask(w http.ResponseWriter, r *http.Request) {
	task, ok := a.Feed.Tasks.Get(chi.URLParam(r, "taskID"))
	if !ok {
		a.error(w, http.StatusNotFound, "not_found", "task not found")
		return
	}
	resp := map[string]any{"task": task, "video": nil}
	if task.Status == domain.TaskStatusFinished {
		video, err := a.Creator.TaskVideo(r.Context(), task)
		switch {
		case err == nil:
			resp["video"] = video
		case errors.Is(err, domain.ErrNotFound):
			// asset not listed yet
		default:
			a.fail(w, r, err)
			return
		}
	}
	a.json(w, http.StatusOK, resp)
}

// ListNotifications supports ?filter=all|unread|read.
func (a *App) ListNotifications(w http.ResponseWriter, r *http.Request) {
	var items []domain.Notification
	switch r.URL.Query().Get("filter") {
	case "", "all":
		items = a.Feed.Inbox.Visible()
	case "unread":
		items = a.Feed.Inbox.Unread()
	case "read":
		items = a.Feed.Inbox.Read()
	default:
		a.error(w, http.StatusBadRequest, "bad_request", "filter must be one of: all, unread, read")
		return
	}
	if items == nil {
		items = []domain.Notification{}
	}
	a.json(w, http.StatusOK, map[string]any{
		"items":     items,
		"hasUnread": a.Feed.Inbox.HasUnread(),
	})
}

func (a *App) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := a.Notifier.MarkNotificationRead(r.Context(), id); err != nil {
		a.fail(w, r, err)
		return
	}
	n, err := a.Feed.MarkRead(r.Context(), id, a.now().UTC())
	if err != nil {
		// not cached yet; the stream brings it
		w.WriteHeader(http.StatusNoContent)
		return
	}
	a.json(w, http.StatusOK, n)
}

func (a *App) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := a.Notifier.DeleteNotification(r.Context(), id); err != nil {
		a.fail(w, r, err)
		return
	}
	// Ids never seen by the feed are not cached.
	if err := a.Feed.Remove(r.Context(), id); err != nil && !errors.Is(err, domain.ErrNotFound) {
		a.Logger.Debug().Err(err).Str("notification_id", id).Msg("remove cached notification")
	}
	w.WriteHeader(http.StatusNoContent)
}

// Events streams task or notification updates as server-sent events.
func (a *App) Events(w http.ResponseWriter, r *http.Request) {
	topic := r.URL.Query().Get("topic")
	if topic != feed.TopicTasks && topic != feed.TopicNotifications {
		a.error(w, http.StatusBadRequest, "bad_request", "topic must be one of: tasks, notifications")
		return
	}
	// the server write timeout would cut the stream
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	err := a.Hub.Stream(w, r, topic, a.KeepAlive)
	switch {
	case errors.Is(err, sse.ErrStreamingUnsupported):
		a.error(w, http.StatusInternalServerError, "internal", "streaming unsupported")
	case errors.Is(err, sse.ErrHubStopped):
		a.error(w, http.StatusServiceUnavailable, "unavailable", "shutting down")
	case err != nil:
		a.Logger.Debug().Err(err).Str("topic", topic).Msg("event stream closed")
	}
}
