package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"slidecast/internal/backend"
	"slidecast/internal/creator"
	"slidecast/internal/domain"
	"slidecast/internal/feed"
	"slidecast/internal/upload"
	"slidecast/pkg/sse"
)

// Notifier forwards notification changes to the backend.
type Notifier interface {
	MarkNotificationRead(ctx context.Context, id string) error
	DeleteNotification(ctx context.Context, id string) error
}

type App struct {
	Creator   *creator.Service
	Feed      *feed.Feed
	Notifier  Notifier
	Hub       *sse.Hub
	Logger    zerolog.Logger
	KeepAlive time.Duration
	MaxBody   int64
	now       func() time.Time
}

// NewApp wires the API handlers. MaxBody caps multipart upload requests.
func NewApp(c *creator.Service, f *feed.Feed, n Notifier, hub *sse.Hub, logger zerolog.Logger) *App {
	return &App{
		Creator:   c,
		Feed:      f,
		Notifier:  n,
		Hub:       hub,
		Logger:    logger,
		KeepAlive: 15 * time.Second,
		MaxBody:   10 * upload.MaxFileSize,
		now:       time.Now,
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Code    string               `json:"code"`
	Message string               `json:"message"`
	Fields  []creator.FieldError `json:"fields,omitempty"`
}

func (a *App) error(w http.ResponseWriter, code int, kind, message string) {
	a.json(w, code, map[string]any{"error": errorBody{Code: kind, Message: message}})
}

// fail maps service errors onto the JSON error envelope.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	var verr *creator.ValidationError
	switch {
	case errors.As(err, &verr):
		a.json(w, http.StatusBadRequest, map[string]any{"error": errorBody{
			Code: "bad_request", Message: verr.Error(), Fields: verr.Fields,
		}})
	case errors.Is(err, upload.ErrTooLarge):
		a.error(w, http.StatusRequestEntityTooLarge, "too_large", err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, domain.ErrSessionExpired):
		a.error(w, http.StatusGone, "session_expired", "workflow session expired")
	case errors.Is(err, domain.ErrConflict):
		a.error(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrBackend):
		a.Logger.Warn().Err(err).Str("path", r.URL.Path).Msg("backend call failed")
		msg := "backend unavailable"
		if backend.StatusOf(err) != 0 {
			msg = err.Error()
		}
		a.error(w, http.StatusBadGateway, "bad_gateway", msg)
	case errors.Is(err, context.Canceled):
		// client went away
	default:
		a.Logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

// decode reads a JSON body. An empty body leaves v at its zero value.
func (a *App) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid json body")
		return false
	}
	return true
}
