package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"slidecast/internal/creator"
	"slidecast/internal/middleware"
)

func (a *App) locale(r *http.Request) string {
	return middleware.LocaleFromContext(r.Context())
}

func (a *App) StartWorkflow(w http.ResponseWriter, r *http.Request) {
	view, err := a.Creator.StartWorkflow(r.Context(), chi.URLParam(r, "projectID"), a.locale(r))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, view)
}

func (a *App) GetWorkflow(w http.ResponseWriter, r *http.Request) {
	view, err := a.Creator.Workflow(chi.URLParam(r, "sessionID"), a.locale(r))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, view)
}

func (a *App) EndWorkflow(w http.ResponseWriter, r *http.Request) {
	if err := a.Creator.EndWorkflow(chi.URLParam(r, "sessionID")); err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) DispatchAction(w http.ResponseWriter, r *http.Request) {
	var req creator.ActionRequest
	if !a.decode(w, r, &req) {
		return
	}
	view, err := a.Creator.Dispatch(r.Context(), chi.URLParam(r, "sessionID"), req, a.locale(r))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, view)
}

func (a *App) GenerateLyrics(w http.ResponseWriter, r *http.Request) {
	res, err := a.Creator.GenerateLyrics(r.Context(), chi.URLParam(r, "sessionID"), a.locale(r))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, res)
}

func (a *App) GenerateAudio(w http.ResponseWriter, r *http.Request) {
	var req creator.GenerateAudioRequest
	if !a.decode(w, r, &req) {
		return
	}
	res, err := a.Creator.GenerateAudio(r.Context(), chi.URLParam(r, "sessionID"), req, a.locale(r))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, res)
}

func (a *App) SubmitRender(w http.ResponseWriter, r *http.Request) {
	var req creator.RenderRequest
	if !a.decode(w, r, &req) {
		return
	}
	res, err := a.Creator.SubmitRender(r.Context(), chi.URLParam(r, "sessionID"), req, a.locale(r))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusAccepted, res)
}
