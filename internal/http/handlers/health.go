package handlers

import (
	"net/http"
)

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	tasks, notes := a.Feed.Connected()
	a.json(w, http.StatusOK, map[string]any{
		"status": "ok",
		"streams": map[string]bool{
			"tasks":         tasks,
			"notifications": notes,
		},
	})
}
