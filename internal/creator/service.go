// Package creator runs the video creation flow: it validates requests, drives
// the per-session workflow and calls the rendering backend.
package creator

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"slidecast/internal/backend"
	"slidecast/internal/domain"
	"slidecast/internal/session"
	"slidecast/internal/upload"
	"slidecast/internal/workflow"
)

// Backend is the part of the rendering backend the service calls.
type Backend interface {
	ListProjects(ctx context.Context) ([]domain.Project, error)
	GetProject(ctx context.Context, id string) (*domain.Project, error)
	CreateProject(ctx context.Context, name, description string) (*domain.Project, error)
	DeleteProject(ctx context.Context, id string) error
	ListAssets(ctx context.Context, projectID string, formats ...domain.AssetFormat) ([]domain.AssetRef, error)
	UploadAsset(ctx context.Context, projectID string, f backend.File) (*domain.AssetRef, error)
	GenerateLyrics(ctx context.Context, projectID string, imageIDs []string) (*backend.Lyrics, error)
	GenerateAudio(ctx context.Context, projectID, lyrics, stylePrompt string) (*domain.AssetRef, error)
	SubmitSlideshow(ctx context.Context, projectID string, audioIDs, imageIDs []string) (string, error)
}

// Options configure a Service.
type Options struct {
	Backend  Backend
	Sessions *session.Store
	Upload   upload.Options
	Logger   zerolog.Logger
}

// Service coordinates sessions and backend calls.
type Service struct {
	be       Backend
	sessions *session.Store
	validate *validator.Validate
	upload   upload.Options
	log      zerolog.Logger
}

// New builds a Service.
func New(opts Options) *Service {
	return &Service{
		be:       opts.Backend,
		sessions: opts.Sessions,
		validate: newValidator(),
		upload:   opts.Upload,
		log:      opts.Logger,
	}
}

// View is everything a client renders for a session.
type View struct {
	Session    session.Snapshot      `json:"session"`
	Progress   workflow.ProgressView `json:"progress"`
	Navigation workflow.Navigation   `json:"navigation"`
	Summary    workflow.Summary      `json:"summary"`
}

func viewOf(snap session.Snapshot, locale string) View {
	return View{
		Session:    snap,
		Progress:   workflow.Progress(snap.State, locale),
		Navigation: workflow.Navigate(snap.State, locale),
		Summary:    workflow.Summarize(snap.State),
	}
}

// ListProjects returns every project.
func (s *Service) ListProjects(ctx context.Context) ([]domain.Project, error) {
	return s.be.ListProjects(ctx)
}

// GetProject returns one project with its assets.
func (s *Service) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	return s.be.GetProject(ctx, id)
}

// CreateProject validates and creates a project.
func (s *Service) CreateProject(ctx context.Context, req CreateProjectRequest) (*domain.Project, error) {
	if err := check(s.validate, req); err != nil {
		return nil, err
	}
	return s.be.CreateProject(ctx, strings.TrimSpace(req.Name), strings.TrimSpace(req.Description))
}

// DeleteProject removes a project.
func (s *Service) DeleteProject(ctx context.Context, id string) error {
	return s.be.DeleteProject(ctx, id)
}

// ListAssets returns project assets, optionally limited to formats.
func (s *Service) ListAssets(ctx context.Context, projectID string, formats ...domain.AssetFormat) ([]domain.AssetRef, error) {
	for _, f := range formats {
		if !f.Valid() {
			return nil, invalid("format", "must be one of: image, audio, ai_audio, video")
		}
	}
	return s.be.ListAssets(ctx, projectID, formats...)
}

// StartWorkflow opens an editing session on an existing project.
func (s *Service) StartWorkflow(ctx context.Context, projectID, locale string) (View, error) {
	if _, err := s.be.GetProject(ctx, projectID); err != nil {
		return View{}, err
	}
	snap := s.sessions.Create(projectID)
	s.log.Info().Str("session_id", snap.ID).Str("project_id", projectID).Msg("workflow started")
	return viewOf(snap, locale), nil
}

// Workflow returns the current view of a session.
func (s *Service) Workflow(sessionID, locale string) (View, error) {
	snap, err := s.sessions.Get(sessionID)
	if err != nil {
		return View{}, err
	}
	return viewOf(snap, locale), nil
}

// EndWorkflow discards a session.
func (s *Service) EndWorkflow(sessionID string) error {
	return s.sessions.Delete(sessionID)
}

// Dispatch applies one client action to the session's workflow. Selecting an
// asset requires it to belong to the session's project and to match the kind
// being selected.
func (s *Service) Dispatch(ctx context.Context, sessionID string, req ActionRequest, locale string) (View, error) {
	if err := check(s.validate, req); err != nil {
		return View{}, err
	}
	var action workflow.Action
	if req.needsAsset() {
		snap, err := s.sessions.Get(sessionID)
		if err != nil {
			return View{}, err
		}
		asset, err := s.resolveAsset(ctx, snap.ProjectID, req)
		if err != nil {
			return View{}, err
		}
		if req.Type == ActionSelectImage {
			action = workflow.SelectImage{Asset: asset}
		} else {
			action = workflow.SelectAudio{Asset: asset}
		}
	} else {
		a, err := req.simpleAction()
		if err != nil {
			return View{}, err
		}
		action = a
	}

	var snap session.Snapshot
	err := s.sessions.With(sessionID, func(sess *session.Session) error {
		if _, ok := action.(workflow.Reset); ok && sess.Busy() {
			return fmt.Errorf("session %s is generating: %w", sessionID, domain.ErrConflict)
		}
		sess.Controller().Dispatch(action)
		snap = sess.Snapshot()
		return nil
	})
	if err != nil {
		return View{}, err
	}
	return viewOf(snap, locale), nil
}

func (s *Service) resolveAsset(ctx context.Context, projectID string, req ActionRequest) (domain.AssetRef, error) {
	if req.AssetID == "" {
		return domain.AssetRef{}, invalid("assetId", "is required")
	}
	formats := []domain.AssetFormat{domain.AssetFormatImage}
	if req.Type == ActionSelectAudio {
		formats = []domain.AssetFormat{domain.AssetFormatAudio, domain.AssetFormatAIAudio}
	}
	assets, err := s.be.ListAssets(ctx, projectID, formats...)
	if err != nil {
		return domain.AssetRef{}, err
	}
	asset, ok := domain.FindAsset(assets, req.AssetID)
	if !ok {
		return domain.AssetRef{}, fmt.Errorf("asset %s in project %s: %w", req.AssetID, projectID, domain.ErrNotFound)
	}
	return asset, nil
}

// beginGeneration marks the session busy and returns what the backend call
// needs. A second generation while one runs is a conflict.
func (s *Service) beginGeneration(sessionID string, prepare func(sess *session.Session) error) error {
	return s.sessions.With(sessionID, func(sess *session.Session) error {
		if sess.Busy() {
			return fmt.Errorf("session %s is already generating: %w", sessionID, domain.ErrConflict)
		}
		if err := prepare(sess); err != nil {
			return err
		}
		sess.SetBusy(true)
		return nil
	})
}

// endGeneration clears the busy flag and applies apply if the call succeeded.
func (s *Service) endGeneration(sessionID string, apply func(sess *session.Session)) (session.Snapshot, error) {
	var snap session.Snapshot
	err := s.sessions.With(sessionID, func(sess *session.Session) error {
		sess.SetBusy(false)
		if apply != nil {
			apply(sess)
		}
		snap = sess.Snapshot()
		return nil
	})
	return snap, err
}

// LyricsResult is the view after lyrics generation with the backend's timing.
type LyricsResult struct {
	View
	Lyrics backend.Lyrics `json:"lyrics"`
}

// GenerateLyrics asks the backend for lyrics matching the selected images and
// stores them in the workflow. The workflow keeps its lyrics on failure.
func (s *Service) GenerateLyrics(ctx context.Context, sessionID, locale string) (LyricsResult, error) {
	var projectID string
	var imageIDs []string
	err := s.beginGeneration(sessionID, func(sess *session.Session) error {
		st := sess.Controller().State()
		if len(st.SelectedImages) == 0 {
			return invalid("selectedImages", "must contain at least one image")
		}
		projectID, imageIDs = sess.ProjectID, st.ImageIDs()
		return nil
	})
	if err != nil {
		return LyricsResult{}, err
	}

	lyrics, callErr := s.be.GenerateLyrics(ctx, projectID, imageIDs)
	snap, err := s.endGeneration(sessionID, func(sess *session.Session) {
		if callErr == nil {
			sess.Controller().SetLyrics(lyrics.Lyrics)
		}
	})
	if callErr != nil {
		s.log.Warn().Err(callErr).Str("session_id", sessionID).Msg("generate lyrics")
		return LyricsResult{}, callErr
	}
	if err != nil {
		return LyricsResult{}, err
	}
	return LyricsResult{View: viewOf(snap, locale), Lyrics: *lyrics}, nil
}

// AudioResult is the view after audio generation with the new asset.
type AudioResult struct {
	View
	Asset domain.AssetRef `json:"asset"`
}

// GenerateAudio turns the session's lyrics into an ai_audio asset. The new
// asset is not selected; the workflow is unchanged apart from the busy flag.
func (s *Service) GenerateAudio(ctx context.Context, sessionID string, req GenerateAudioRequest, locale string) (AudioResult, error) {
	if err := check(s.validate, req); err != nil {
		return AudioResult{}, err
	}
	var projectID, lyrics string
	err := s.beginGeneration(sessionID, func(sess *session.Session) error {
		st := sess.Controller().State()
		if err := check(s.validate, lyricsInput{Lyrics: st.Lyrics}); err != nil {
			return err
		}
		projectID, lyrics = sess.ProjectID, st.Lyrics
		return nil
	})
	if err != nil {
		return AudioResult{}, err
	}

	asset, callErr := s.be.GenerateAudio(ctx, projectID, lyrics, req.Prompt())
	snap, err := s.endGeneration(sessionID, nil)
	if callErr != nil {
		s.log.Warn().Err(callErr).Str("session_id", sessionID).Msg("generate audio")
		return AudioResult{}, callErr
	}
	if err != nil {
		return AudioResult{}, err
	}
	return AudioResult{View: viewOf(snap, locale), Asset: *asset}, nil
}

// RenderResult reports a queued render.
type RenderResult struct {
	View
	TaskID   string         `json:"taskId"`
	Settings RenderSettings `json:"settings"`
}

// SubmitRender queues a slideshow of the selected images over the selected
// audios, both in selection order.
func (s *Service) SubmitRender(ctx context.Context, sessionID string, req RenderRequest, locale string) (RenderResult, error) {
	if err := check(s.validate, req); err != nil {
		return RenderResult{}, err
	}
	var projectID string
	var imageIDs, audioIDs []string
	err := s.beginGeneration(sessionID, func(sess *session.Session) error {
		st := sess.Controller().State()
		verr := &ValidationError{}
		if len(st.SelectedImages) == 0 {
			verr.Fields = append(verr.Fields, FieldError{Field: "selectedImages", Message: "must contain at least one image"})
		}
		if len(st.SelectedAudios) == 0 {
			verr.Fields = append(verr.Fields, FieldError{Field: "selectedAudios", Message: "must contain at least one audio"})
		}
		if len(verr.Fields) > 0 {
			return verr
		}
		projectID, imageIDs, audioIDs = sess.ProjectID, st.ImageIDs(), st.AudioIDs()
		return nil
	})
	if err != nil {
		return RenderResult{}, err
	}

	taskID, callErr := s.be.SubmitSlideshow(ctx, projectID, audioIDs, imageIDs)
	snap, err := s.endGeneration(sessionID, func(sess *session.Session) {
		if callErr == nil {
			sess.AddTask(taskID)
		}
	})
	if callErr != nil {
		s.log.Warn().Err(callErr).Str("session_id", sessionID).Msg("submit render")
		return RenderResult{}, callErr
	}
	if err != nil {
		return RenderResult{}, err
	}
	s.log.Info().Str("session_id", sessionID).Str("task_id", taskID).Msg("render queued")
	return RenderResult{View: viewOf(snap, locale), TaskID: taskID, Settings: req.Settings()}, nil
}

// Upload validates and uploads files to projectID. When sessionID is set the
// session must belong to the project, and each asset is selected as an image
// or audio as soon as its own upload finishes.
func (s *Service) Upload(ctx context.Context, projectID, sessionID string, files []backend.File) ([]domain.AssetRef, error) {
	if len(files) == 0 {
		return nil, invalid("file", "is required")
	}
	if sessionID != "" {
		snap, err := s.sessions.Get(sessionID)
		if err != nil {
			return nil, err
		}
		if snap.ProjectID != projectID {
			return nil, fmt.Errorf("session %s belongs to another project: %w", sessionID, domain.ErrConflict)
		}
	}
	var onDone func(int, domain.AssetRef)
	if sessionID != "" {
		onDone = func(i int, asset domain.AssetRef) {
			kind := upload.FormatFor(upload.ContentType(files[i]))
			err := s.sessions.With(sessionID, func(sess *session.Session) error {
				switch kind {
				case domain.AssetFormatImage:
					sess.Controller().SelectImage(asset)
				case domain.AssetFormatAudio:
					sess.Controller().SelectAudio(asset)
				}
				return nil
			})
			if err != nil {
				s.log.Warn().Err(err).Str("session_id", sessionID).Str("asset_id", asset.ID).Msg("select uploaded asset")
			}
		}
	}
	assets, err := upload.All(ctx, s.be, projectID, files, s.upload, onDone)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("project_id", projectID).Int("files", len(assets)).Msg("assets uploaded")
	return assets, nil
}

// TaskVideo finds the video asset a finished task produced. The backend names
// the stored file after the last segment of the task's video key.
func (s *Service) TaskVideo(ctx context.Context, task domain.Task) (*domain.AssetRef, error) {
	name := task.Result.VideoName()
	if task.Status != domain.TaskStatusFinished || name == "" {
		return nil, fmt.Errorf("task %s has no video: %w", task.ID, domain.ErrNotFound)
	}
	videos, err := s.be.ListAssets(ctx, task.ProjectID, domain.AssetFormatVideo)
	if err != nil {
		return nil, err
	}
	for i := range videos {
		if videos[i].OriginalName == name {
			return &videos[i], nil
		}
	}
	return nil, fmt.Errorf("video %s of task %s: %w", name, task.ID, domain.ErrNotFound)
}
