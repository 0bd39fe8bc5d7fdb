package creator

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"slidecast/internal/backend"
	"slidecast/internal/domain"
	"slidecast/internal/session"
	"slidecast/internal/workflow"
)

type fakeBackend struct {
	mu       sync.Mutex
	projects map[string]*domain.Project
	calls    []string

	lyrics     *backend.Lyrics
	lyricsErr  error
	lyricsGate chan struct{}
	audioErr   error
	taskID     string
	renderErr  error

	gotLyrics   string
	gotPrompt   string
	gotAudioIDs []string
	gotImageIDs []string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		projects: map[string]*domain.Project{
			"p1": {ID: "p1", Name: "Trip", Assets: []domain.AssetRef{
				{ID: "img1", OriginalName: "a.png", Format: domain.AssetFormatImage},
				{ID: "img2", OriginalName: "b.png", Format: domain.AssetFormatImage},
				{ID: "aud1", OriginalName: "song.mp3", Format: domain.AssetFormatAudio, Metadata: &domain.AssetMetadata{Duration: 61}},
				{ID: "gen1", OriginalName: "gen.mp3", Format: domain.AssetFormatAIAudio},
				{ID: "vid1", OriginalName: "out.mp4", Format: domain.AssetFormatVideo},
			}},
			"p2": {ID: "p2", Name: "Other"},
		},
		lyrics: &backend.Lyrics{Lyrics: "Sunlight on the water", Duration: 20, ImageCount: 2, TimePerImage: 10},
		taskID: "task-1",
	}
}

func (f *fakeBackend) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakeBackend) callCount(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func (f *fakeBackend) ListProjects(context.Context) ([]domain.Project, error) {
	f.record("ListProjects")
	var out []domain.Project
	for _, p := range f.projects {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeBackend) GetProject(_ context.Context, id string) (*domain.Project, error) {
	f.record("GetProject")
	p, ok := f.projects[id]
	if !ok {
		return nil, &backend.Error{Status: 404, Message: "project not found"}
	}
	return p, nil
}

func (f *fakeBackend) CreateProject(_ context.Context, name, description string) (*domain.Project, error) {
	f.record("CreateProject")
	return &domain.Project{ID: "new", Name: name, Description: description}, nil
}

func (f *fakeBackend) DeleteProject(context.Context, string) error {
	f.record("DeleteProject")
	return nil
}

func (f *fakeBackend) ListAssets(ctx context.Context, projectID string, formats ...domain.AssetFormat) ([]domain.AssetRef, error) {
	p, err := f.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return domain.FilterAssets(p.Assets, formats...), nil
}

func (f *fakeBackend) UploadAsset(_ context.Context, _ string, file backend.File) (*domain.AssetRef, error) {
	f.record("UploadAsset")
	_, _ = io.Copy(io.Discard, file.Body)
	format := domain.AssetFormatImage
	if strings.HasPrefix(file.ContentType, "audio/") {
		format = domain.AssetFormatAudio
	}
	return &domain.AssetRef{ID: "up-" + file.Name, OriginalName: file.Name, Format: format}, nil
}

func (f *fakeBackend) GenerateLyrics(_ context.Context, _ string, imageIDs []string) (*backend.Lyrics, error) {
	f.record("GenerateLyrics")
	if f.lyricsGate != nil {
		<-f.lyricsGate
	}
	f.mu.Lock()
	f.gotImageIDs = imageIDs
	f.mu.Unlock()
	if f.lyricsErr != nil {
		return nil, f.lyricsErr
	}
	return f.lyrics, nil
}

func (f *fakeBackend) GenerateAudio(_ context.Context, _ string, lyrics, prompt string) (*domain.AssetRef, error) {
	f.record("GenerateAudio")
	f.gotLyrics, f.gotPrompt = lyrics, prompt
	if f.audioErr != nil {
		return nil, f.audioErr
	}
	return &domain.AssetRef{ID: "gen2", Format: domain.AssetFormatAIAudio}, nil
}

func (f *fakeBackend) SubmitSlideshow(_ context.Context, _ string, audioIDs, imageIDs []string) (string, error) {
	f.record("SubmitSlideshow")
	f.gotAudioIDs, f.gotImageIDs = audioIDs, imageIDs
	if f.renderErr != nil {
		return "", f.renderErr
	}
	return f.taskID, nil
}

func newService(t *testing.T) (*Service, *fakeBackend) {
	t.Helper()
	be := newFakeBackend()
	return New(Options{Backend: be, Sessions: session.NewStore(time.Hour), Logger: zerolog.Nop()}), be
}

func start(t *testing.T, s *Service) string {
	t.Helper()
	v, err := s.StartWorkflow(context.Background(), "p1", "en")
	if err != nil {
		t.Fatalf("StartWorkflow: %v", err)
	}
	return v.Session.ID
}

func dispatch(t *testing.T, s *Service, id string, reqs ...ActionRequest) View {
	t.Helper()
	var v View
	for _, r := range reqs {
		var err error
		v, err = s.Dispatch(context.Background(), id, r, "en")
		if err != nil {
			t.Fatalf("Dispatch(%+v): %v", r, err)
		}
	}
	return v
}

func fieldsOf(t *testing.T, err error) []string {
	t.Helper()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("ValidationError should match ErrInvalidInput")
	}
	var out []string
	for _, f := range verr.Fields {
		out = append(out, f.Field)
	}
	return out
}

func TestCreateProjectValidation(t *testing.T) {
	s, be := newService(t)
	ctx := context.Background()
	tests := []struct {
		name string
		req  CreateProjectRequest
		want []string
	}{
		{name: "blank name", req: CreateProjectRequest{Name: "   "}, want: []string{"name"}},
		{name: "long name", req: CreateProjectRequest{Name: strings.Repeat("x", 121)}, want: []string{"name"}},
		{name: "long description", req: CreateProjectRequest{Name: "ok", Description: strings.Repeat("d", 1001)}, want: []string{"description"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.CreateProject(ctx, tc.req)
			if diff := cmp.Diff(tc.want, fieldsOf(t, err)); diff != "" {
				t.Fatalf("fields (-want +got):\n%s", diff)
			}
		})
	}
	if n := be.callCount("CreateProject"); n != 0 {
		t.Fatalf("backend called %d times for invalid input", n)
	}

	p, err := s.CreateProject(ctx, CreateProjectRequest{Name: "  Holiday  ", Description: "beach"})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	if p.Name != "Holiday" {
		t.Fatalf("name = %q", p.Name)
	}
}

func TestStartWorkflowUnknownProject(t *testing.T) {
	s, _ := newService(t)
	_, err := s.StartWorkflow(context.Background(), "missing", "en")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestDispatchSelectsResolvedAssets(t *testing.T) {
	s, _ := newService(t)
	id := start(t, s)
	v := dispatch(t, s, id,
		ActionRequest{Type: ActionSelectImage, AssetID: "img2"},
		ActionRequest{Type: ActionSelectImage, AssetID: "img1"},
		ActionRequest{Type: ActionNextStep},
		ActionRequest{Type: ActionSetAudioMethod, Method: "file_upload"},
		ActionRequest{Type: ActionNextStep},
		ActionRequest{Type: ActionSelectAudio, AssetID: "gen1"},
		ActionRequest{Type: ActionSelectAudio, AssetID: "aud1"},
	)
	st := v.Session.State
	if st.CurrentStep != workflow.StepAudioFileSelection || !st.CanProceed {
		t.Fatalf("state = %+v", st)
	}
	if diff := cmp.Diff([]string{"img2", "img1"}, st.ImageIDs()); diff != "" {
		t.Fatalf("images (-want +got):\n%s", diff)
	}
	if st.SelectedImages[0].Asset.OriginalName != "b.png" {
		t.Fatalf("selection should carry the resolved asset: %+v", st.SelectedImages[0])
	}
	if v.Summary.EstimatedDuration != "1:01" {
		t.Fatalf("duration = %q", v.Summary.EstimatedDuration)
	}
	if v.Navigation.ProceedMessage != "Select at least one audio file to continue" {
		t.Fatalf("proceed message = %q", v.Navigation.ProceedMessage)
	}
}

func TestDispatchErrors(t *testing.T) {
	s, _ := newService(t)
	id := start(t, s)
	ctx := context.Background()
	tests := []struct {
		name    string
		req     ActionRequest
		wantErr error
	}{
		{name: "unknown type", req: ActionRequest{Type: "jump"}, wantErr: domain.ErrInvalidInput},
		{name: "missing type", req: ActionRequest{}, wantErr: domain.ErrInvalidInput},
		{name: "bad step", req: ActionRequest{Type: ActionGoToStep, Step: "nowhere"}, wantErr: domain.ErrInvalidInput},
		{name: "bad method", req: ActionRequest{Type: ActionSetAudioMethod, Method: "hum"}, wantErr: domain.ErrInvalidInput},
		{name: "remove without id", req: ActionRequest{Type: ActionRemoveImage}, wantErr: domain.ErrInvalidInput},
		{name: "select without id", req: ActionRequest{Type: ActionSelectImage}, wantErr: domain.ErrInvalidInput},
		{name: "unknown asset", req: ActionRequest{Type: ActionSelectImage, AssetID: "nope"}, wantErr: domain.ErrNotFound},
		{name: "audio as image", req: ActionRequest{Type: ActionSelectImage, AssetID: "aud1"}, wantErr: domain.ErrNotFound},
		{name: "video as audio", req: ActionRequest{Type: ActionSelectAudio, AssetID: "vid1"}, wantErr: domain.ErrNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Dispatch(ctx, id, tc.req, "en")
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
		})
	}
	v, _ := s.Workflow(id, "en")
	if diff := cmp.Diff(workflow.Initial(), v.Session.State); diff != "" {
		t.Fatalf("failed actions changed state (-want +got):\n%s", diff)
	}
	if _, err := s.Dispatch(ctx, "ghost", ActionRequest{Type: ActionNextStep}, "en"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown session err = %v", err)
	}
}

func TestGenerateLyrics(t *testing.T) {
	s, be := newService(t)
	id := start(t, s)
	ctx := context.Background()

	_, err := s.GenerateLyrics(ctx, id, "en")
	if diff := cmp.Diff([]string{"selectedImages"}, fieldsOf(t, err)); diff != "" {
		t.Fatalf("fields (-want +got):\n%s", diff)
	}
	if be.callCount("GenerateLyrics") != 0 {
		t.Fatal("backend called without images")
	}

	dispatch(t, s, id,
		ActionRequest{Type: ActionSelectImage, AssetID: "img1"},
		ActionRequest{Type: ActionSelectImage, AssetID: "img2"},
		ActionRequest{Type: ActionGoToStep, Step: "ai_audio_generation"},
	)
	res, err := s.GenerateLyrics(ctx, id, "en")
	if err != nil {
		t.Fatalf("GenerateLyrics: %v", err)
	}
	if diff := cmp.Diff([]string{"img1", "img2"}, be.gotImageIDs); diff != "" {
		t.Fatalf("image ids (-want +got):\n%s", diff)
	}
	st := res.Session.State
	if st.Lyrics != "Sunlight on the water" || !st.CanProceed || st.IsGenerating {
		t.Fatalf("state = %+v", st)
	}
	if res.Lyrics.TimePerImage != 10 {
		t.Fatalf("lyrics = %+v", res.Lyrics)
	}
}

func TestGenerateLyricsFailureKeepsWorkflow(t *testing.T) {
	s, be := newService(t)
	id := start(t, s)
	dispatch(t, s, id,
		ActionRequest{Type: ActionSelectImage, AssetID: "img1"},
		ActionRequest{Type: ActionSetLyrics, Text: "mine"},
	)
	be.lyricsErr = &backend.Error{Status: 500, Message: "model offline"}
	_, err := s.GenerateLyrics(context.Background(), id, "en")
	if !errors.Is(err, domain.ErrBackend) {
		t.Fatalf("err = %v", err)
	}
	v, _ := s.Workflow(id, "en")
	if v.Session.State.Lyrics != "mine" || v.Session.State.IsGenerating {
		t.Fatalf("state after failure = %+v", v.Session.State)
	}
}

func TestConcurrentGenerationConflicts(t *testing.T) {
	s, be := newService(t)
	id := start(t, s)
	dispatch(t, s, id, ActionRequest{Type: ActionSelectImage, AssetID: "img1"})
	be.lyricsGate = make(chan struct{})

	errc := make(chan error, 1)
	go func() {
		_, err := s.GenerateLyrics(context.Background(), id, "en")
		errc <- err
	}()

	deadline := time.Now().Add(2 * time.Second)
	for {
		v, _ := s.Workflow(id, "en")
		if v.Session.State.IsGenerating {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("generation flag never set")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if _, err := s.GenerateLyrics(context.Background(), id, "en"); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("second generation err = %v", err)
	}
	close(be.lyricsGate)
	if err := <-errc; err != nil {
		t.Fatalf("first generation: %v", err)
	}
}

func TestClientCannotReleaseGenerationLock(t *testing.T) {
	s, be := newService(t)
	id := start(t, s)
	ctx := context.Background()
	dispatch(t, s, id, ActionRequest{Type: ActionSelectImage, AssetID: "img1"})
	be.lyricsGate = make(chan struct{})

	errc := make(chan error, 1)
	go func() {
		_, err := s.GenerateLyrics(ctx, id, "en")
		errc <- err
	}()
	deadline := time.Now().Add(2 * time.Second)
	for be.callCount("GenerateLyrics") == 0 {
		if time.Now().After(deadline) {
			t.Fatal("first generation never reached the backend")
		}
		time.Sleep(5 * time.Millisecond)
	}

	_, err := s.Dispatch(ctx, id, ActionRequest{Type: "set_generating"}, "en")
	if diff := cmp.Diff([]string{"type"}, fieldsOf(t, err)); diff != "" {
		t.Fatalf("fields (-want +got):\n%s", diff)
	}
	if _, err := s.Dispatch(ctx, id, ActionRequest{Type: ActionReset}, "en"); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("reset while generating err = %v", err)
	}
	if _, err := s.GenerateLyrics(ctx, id, "en"); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("second generation err = %v", err)
	}
	if n := be.callCount("GenerateLyrics"); n != 1 {
		t.Fatalf("backend lyrics calls = %d, want 1", n)
	}

	close(be.lyricsGate)
	if err := <-errc; err != nil {
		t.Fatalf("first generation: %v", err)
	}
	v, err := s.Dispatch(ctx, id, ActionRequest{Type: ActionReset}, "en")
	if err != nil {
		t.Fatalf("reset after generation: %v", err)
	}
	if v.Session.State.IsGenerating {
		t.Fatal("reset view still generating")
	}
}

func TestGenerateAudio(t *testing.T) {
	s, be := newService(t)
	id := start(t, s)
	ctx := context.Background()

	_, err := s.GenerateAudio(ctx, id, GenerateAudioRequest{Style: "polka", Mood: "calm"}, "en")
	if diff := cmp.Diff([]string{"style"}, fieldsOf(t, err)); diff != "" {
		t.Fatalf("fields (-want +got):\n%s", diff)
	}
	_, err = s.GenerateAudio(ctx, id, GenerateAudioRequest{Style: "jazz", Mood: "calm"}, "en")
	if diff := cmp.Diff([]string{"lyrics"}, fieldsOf(t, err)); diff != "" {
		t.Fatalf("fields (-want +got):\n%s", diff)
	}

	dispatch(t, s, id, ActionRequest{Type: ActionSetLyrics, Text: strings.Repeat("é", MaxLyricsLength+1)})
	_, err = s.GenerateAudio(ctx, id, GenerateAudioRequest{Style: "jazz", Mood: "calm"}, "en")
	if diff := cmp.Diff([]string{"lyrics"}, fieldsOf(t, err)); diff != "" {
		t.Fatalf("fields (-want +got):\n%s", diff)
	}
	if be.callCount("GenerateAudio") != 0 {
		t.Fatal("backend called with invalid input")
	}

	long := strings.Repeat("é", MaxLyricsLength)
	dispatch(t, s, id,
		ActionRequest{Type: ActionSetAudioMethod, Method: "ai_generation"},
		ActionRequest{Type: ActionSetLyrics, Text: long},
	)
	res, err := s.GenerateAudio(ctx, id, GenerateAudioRequest{Style: "hip-hop", Mood: "dramatic"}, "en")
	if err != nil {
		t.Fatalf("GenerateAudio: %v", err)
	}
	if be.gotPrompt != "hip-hop dramatic" || be.gotLyrics != long {
		t.Fatalf("sent prompt %q lyrics len %d", be.gotPrompt, len(be.gotLyrics))
	}
	if res.Asset.Format != domain.AssetFormatAIAudio {
		t.Fatalf("asset = %+v", res.Asset)
	}
	if len(res.Session.State.SelectedAudios) != 0 {
		t.Fatal("generated audio must not be selected automatically")
	}
}

func TestGenerateAudioFailureKeepsMethod(t *testing.T) {
	s, be := newService(t)
	id := start(t, s)
	dispatch(t, s, id,
		ActionRequest{Type: ActionSetAudioMethod, Method: "ai_generation"},
		ActionRequest{Type: ActionSetLyrics, Text: "la"},
	)
	before, _ := s.Workflow(id, "en")
	be.audioErr = &backend.Error{Status: 502, Message: "busy"}
	if _, err := s.GenerateAudio(context.Background(), id, GenerateAudioRequest{Style: "pop", Mood: "happy"}, "en"); !errors.Is(err, domain.ErrBackend) {
		t.Fatalf("err = %v", err)
	}
	after, _ := s.Workflow(id, "en")
	if diff := cmp.Diff(before.Session.State, after.Session.State); diff != "" {
		t.Fatalf("state changed (-before +after):\n%s", diff)
	}
}

func TestSubmitRender(t *testing.T) {
	s, be := newService(t)
	id := start(t, s)
	ctx := context.Background()

	_, err := s.SubmitRender(ctx, id, RenderRequest{}, "en")
	if diff := cmp.Diff([]string{"selectedImages", "selectedAudios"}, fieldsOf(t, err)); diff != "" {
		t.Fatalf("fields (-want +got):\n%s", diff)
	}
	_, err = s.SubmitRender(ctx, id, RenderRequest{Resolution: "8k", FrameRate: 25}, "en")
	if diff := cmp.Diff([]string{"resolution", "frameRate"}, fieldsOf(t, err)); diff != "" {
		t.Fatalf("fields (-want +got):\n%s", diff)
	}
	if be.callCount("SubmitSlideshow") != 0 {
		t.Fatal("backend called with invalid input")
	}

	dispatch(t, s, id,
		ActionRequest{Type: ActionSelectImage, AssetID: "img2"},
		ActionRequest{Type: ActionSelectImage, AssetID: "img1"},
		ActionRequest{Type: ActionSelectAudio, AssetID: "aud1"},
		ActionRequest{Type: ActionSelectAudio, AssetID: "gen1"},
		ActionRequest{Type: ActionGoToStep, Step: "video_generation"},
	)
	res, err := s.SubmitRender(ctx, id, RenderRequest{Resolution: "4k"}, "en")
	if err != nil {
		t.Fatalf("SubmitRender: %v", err)
	}
	if diff := cmp.Diff([]string{"aud1", "gen1"}, be.gotAudioIDs); diff != "" {
		t.Fatalf("audio ids (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"img2", "img1"}, be.gotImageIDs); diff != "" {
		t.Fatalf("image ids (-want +got):\n%s", diff)
	}
	if res.TaskID != "task-1" || len(res.Session.TaskIDs) != 1 {
		t.Fatalf("result = %+v", res)
	}
	want := RenderSettings{Resolution: "4k", FrameRate: 30, EstimatedSizeMB: 400}
	if diff := cmp.Diff(want, res.Settings); diff != "" {
		t.Fatalf("settings (-want +got):\n%s", diff)
	}
	if res.Session.State.IsGenerating {
		t.Fatal("generating flag left on")
	}
}

func TestUploadSelectsIntoSession(t *testing.T) {
	s, be := newService(t)
	id := start(t, s)
	files := []backend.File{
		{Name: "x.png", ContentType: "image/png", Size: 3, Body: strings.NewReader("png")},
		{Name: "y.mp3", ContentType: "audio/mpeg", Size: 3, Body: strings.NewReader("mp3")},
	}
	assets, err := s.Upload(context.Background(), "p1", id, files)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if len(assets) != 2 || be.callCount("UploadAsset") != 2 {
		t.Fatalf("assets = %+v", assets)
	}
	v, _ := s.Workflow(id, "en")
	if diff := cmp.Diff([]string{"up-x.png"}, v.Session.State.ImageIDs()); diff != "" {
		t.Fatalf("images (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"up-y.mp3"}, v.Session.State.AudioIDs()); diff != "" {
		t.Fatalf("audios (-want +got):\n%s", diff)
	}
}

func TestUploadRejections(t *testing.T) {
	s, be := newService(t)
	id := start(t, s)
	ctx := context.Background()
	if _, err := s.Upload(ctx, "p1", id, nil); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("no files err = %v", err)
	}
	file := []backend.File{{Name: "x.png", ContentType: "image/png", Size: 1, Body: strings.NewReader("x")}}
	if _, err := s.Upload(ctx, "p2", id, file); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("foreign session err = %v", err)
	}
	big := []backend.File{{Name: "big.png", ContentType: "image/png", Size: 30_000_000, Body: strings.NewReader("x")}}
	if _, err := s.Upload(ctx, "p1", "", big); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("big file err = %v", err)
	}
	if be.callCount("UploadAsset") != 0 {
		t.Fatal("rejected uploads reached the backend")
	}
}

func TestListAssetsRejectsUnknownFormat(t *testing.T) {
	s, _ := newService(t)
	if _, err := s.ListAssets(context.Background(), "p1", domain.AssetFormat("gif")); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("err = %v", err)
	}
	got, err := s.ListAssets(context.Background(), "p1", domain.AssetFormatVideo)
	if err != nil || len(got) != 1 {
		t.Fatalf("videos = %+v, err = %v", got, err)
	}
}

func TestTaskVideo(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()
	done := domain.Task{ID: "t1", ProjectID: "p1", Status: domain.TaskStatusFinished, Result: &domain.TaskResult{VideoKey: "bucket/p1/out.mp4"}}
	v, err := s.TaskVideo(ctx, done)
	if err != nil || v.ID != "vid1" {
		t.Fatalf("video = %+v, err = %v", v, err)
	}
	running := domain.Task{ID: "t2", ProjectID: "p1", Status: domain.TaskStatusRunning}
	if _, err := s.TaskVideo(ctx, running); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("running task err = %v", err)
	}
	missing := done
	missing.Result = &domain.TaskResult{VideoKey: "bucket/p1/gone.mp4"}
	if _, err := s.TaskVideo(ctx, missing); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing video err = %v", err)
	}
}
