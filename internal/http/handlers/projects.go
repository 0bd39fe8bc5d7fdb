package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"slidecast/internal/backend"
	"slidecast/internal/creator"
	"slidecast/internal/domain"
)

func (a *App) ListProjects(w http.ResponseWriter, r *http.Request) {
	items, err := a.Creator.ListProjects(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if items == nil {
		items = []domain.Project{}
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

func (a *App) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req creator.CreateProjectRequest
	if !a.decode(w, r, &req) {
		return
	}
	p, err := a.Creator.CreateProject(r.Context(), req)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, p)
}

func (a *App) GetProject(w http.ResponseWriter, r *http.Request) {
	p, err := a.Creator.GetProject(r.Context(), chi.URLParam(r, "projectID"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, p)
}

func (a *App) DeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := a.Creator.DeleteProject(r.Context(), chi.URLParam(r, "projectID")); err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListAssets accepts repeated or comma separated ?format= values.
func (a *App) ListAssets(w http.ResponseWriter, r *http.Request) {
	var formats []domain.AssetFormat
	for _, raw := range r.URL.Query()["format"] {
		for _, f := range strings.Split(raw, ",") {
			if f = strings.TrimSpace(f); f != "" {
				formats = append(formats, domain.AssetFormat(f))
			}
		}
	}
	items, err := a.Creator.ListAssets(r.Context(), chi.URLParam(r, "projectID"), formats...)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if items == nil {
		items = []domain.AssetRef{}
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

// UploadAssets takes multipart "file" parts. With ?session= the uploaded
// images and audios are selected in that workflow.
func (a *App) UploadAssets(w http.ResponseWriter, r *http.Request) {
	if a.MaxBody > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, a.MaxBody)
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			a.error(w, http.StatusRequestEntityTooLarge, "too_large", "request body too large")
			return
		}
		a.error(w, http.StatusBadRequest, "bad_request", "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["file"]
	files := make([]backend.File, 0, len(headers))
	for _, fh := range headers {
		f, err := openPart(fh)
		if err != nil {
			a.error(w, http.StatusBadRequest, "bad_request", "unreadable file "+fh.Filename)
			closeFiles(files)
			return
		}
		files = append(files, f)
	}
	defer closeFiles(files)

	sessionID := r.URL.Query().Get("session")
	assets, err := a.Creator.Upload(r.Context(), chi.URLParam(r, "projectID"), sessionID, files)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	resp := map[string]any{"items": assets}
	if sessionID != "" {
		if view, err := a.Creator.Workflow(sessionID, a.locale(r)); err == nil {
			resp["workflow"] = view
		}
	}
	a.json(w, http.StatusCreated, resp)
}

func openPart(fh *multipart.FileHeader) (backend.File, error) {
	f, err := fh.Open()
	if err != nil {
		return backend.File{}, err
	}
	return backend.File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	}, nil
}

func closeFiles(files []backend.File) {
	for _, f := range files {
		if c, ok := f.Body.(multipart.File); ok {
			_ = c.Close()
		}
	}
}
