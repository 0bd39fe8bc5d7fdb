// Package backend talks to the rendering backend's REST API.
package backend

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"slidecast/internal/domain"
	"slidecast/internal/infra"
)

// Options configures the backend client.
type Options struct {
	// BaseURL is the backend origin, e.g. https://api.example.com. The
	// /api/v1 prefix is appended.
	BaseURL        string
	Token          string
	UserAgent      string
	RequestTimeout time.Duration
	HTTPClient     *http.Client
	Logger         *infra.Logger
}

// Client performs calls against the rendering backend.
type Client struct {
	rest    *resty.Client
	stream  *resty.Client
	baseURL string
	logger  *infra.Logger
}

// APIPrefix is appended to the configured origin.
const APIPrefix = "/api/v1"

// NewClient constructs a client. Long-lived streams use a second resty client
// without the request timeout.
func NewClient(opts Options) (*Client, error) {
	origin := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if origin == "" {
		return nil, fmt.Errorf("backend: base url is required: %w", domain.ErrInvalidInput)
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = "slidecast/1.0"
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		logger = &discard
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	baseURL := origin + APIPrefix

	rest := resty.NewWithClient(&http.Client{Transport: hc.Transport, Jar: hc.Jar}).
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("User-Agent", ua).
		SetHeader("Accept", "application/json").
		SetLogger(restyLogger{l: logger})
	stream := resty.NewWithClient(&http.Client{Transport: hc.Transport, Jar: hc.Jar}).
		SetBaseURL(baseURL).
		SetHeader("User-Agent", ua).
		SetHeader("Accept", "text/event-stream").
		SetLogger(restyLogger{l: logger})
	if tok := strings.TrimSpace(opts.Token); tok != "" {
		rest.SetAuthToken(tok)
		stream.SetAuthToken(tok)
	}

	c := &Client{rest: rest, stream: stream, baseURL: baseURL, logger: logger}
	rest.OnAfterResponse(c.logResponse)
	return c, nil
}

// BaseURL returns the resolved API base, including the version prefix.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) logResponse(_ *resty.Client, resp *resty.Response) error {
	c.logger.Debug().
		Str("method", resp.Request.Method).
		Str("url", resp.Request.URL).
		Int("status", resp.StatusCode()).
		Dur("took", resp.Time()).
		Msg("backend call")
	return nil
}

func (c *Client) r(ctx context.Context) *resty.Request {
	return c.rest.R().SetContext(ctx).SetError(&errorBody{})
}

// ListProjects returns every project visible to the caller.
func (c *Client) ListProjects(ctx context.Context) ([]domain.Project, error) {
	var out []domain.Project
	resp, err := c.r(ctx).SetResult(&out).Get("/projects")
	if err := check(resp, err, "list projects"); err != nil {
		return nil, err
	}
	return out, nil
}

// GetProject returns one project including its assets.
func (c *Client) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	var out domain.Project
	resp, err := c.r(ctx).
		SetPathParam("projectId", id).
		SetResult(&out).
		Get("/projects/{projectId}")
	if err := check(resp, err, "get project"); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateProject creates an empty project.
func (c *Client) CreateProject(ctx context.Context, name, description string) (*domain.Project, error) {
	var out domain.Project
	resp, err := c.r(ctx).
		SetBody(createProjectRequest{Name: name, Description: description}).
		SetResult(&out).
		Post("/projects")
	if err := check(resp, err, "create project"); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteProject removes a project and its assets.
func (c *Client) DeleteProject(ctx context.Context, id string) error {
	resp, err := c.r(ctx).SetPathParam("projectId", id).Delete("/projects/{projectId}")
	return check(resp, err, "delete project")
}

// ListAssets returns the project's assets limited to formats, or all of them
// when no format is given.
func (c *Client) ListAssets(ctx context.Context, projectID string, formats ...domain.AssetFormat) ([]domain.AssetRef, error) {
	p, err := c.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return domain.FilterAssets(p.Assets, formats...), nil
}

// UploadAsset sends one file as multipart field "file".
func (c *Client) UploadAsset(ctx context.Context, projectID string, f File) (*domain.AssetRef, error) {
	var out domain.AssetRef
	resp, err := c.r(ctx).
		SetPathParam("projectId", projectID).
		SetMultipartField("file", f.Name, f.ContentType, f.Body).
		SetResult(&out).
		Post("/assets/{projectId}")
	if err := check(resp, err, "upload "+f.Name); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateLyrics asks the backend to write lyrics for the ordered images.
func (c *Client) GenerateLyrics(ctx context.Context, projectID string, imageIDs []string) (*Lyrics, error) {
	var out Lyrics
	resp, err := c.r(ctx).
		SetPathParam("projectId", projectID).
		SetBody(generateLyricsRequest{ImageAssetIDs: nonNil(imageIDs)}).
		SetResult(&out).
		Post("/ai/{projectId}/generate-lyrics")
	if err := check(resp, err, "generate lyrics"); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateAudio renders lyrics as a song in the given style prompt and returns
// the stored ai_audio asset.
func (c *Client) GenerateAudio(ctx context.Context, projectID, lyrics, stylePrompt string) (*domain.AssetRef, error) {
	var out domain.AssetRef
	resp, err := c.r(ctx).
		SetPathParam("projectId", projectID).
		SetBody(generateAudioRequest{Prompt: lyrics, LyricsPrompt: stylePrompt}).
		SetResult(&out).
		Post("/ai/{projectId}/generate-audio")
	if err := check(resp, err, "generate audio"); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitSlideshow queues a render of the ordered images over the ordered
// audios and returns the task id.
func (c *Client) SubmitSlideshow(ctx context.Context, projectID string, audioIDs, imageIDs []string) (string, error) {
	var out submitSlideshowResponse
	resp, err := c.r(ctx).
		SetPathParam("projectId", projectID).
		SetBody(submitSlideshowRequest{AudioIDs: nonNil(audioIDs), ImageIDs: nonNil(imageIDs)}).
		SetResult(&out).
		Post("/projects/{projectId}/slideshow")
	if err := check(resp, err, "submit slideshow"); err != nil {
		return "", err
	}
	if out.TaskID == "" {
		return "", &Error{Status: resp.StatusCode(), Message: "submit slideshow: response carried no task id"}
	}
	return out.TaskID, nil
}

// ListTasks returns the caller's render tasks.
func (c *Client) ListTasks(ctx context.Context) ([]domain.Task, error) {
	var out []domain.Task
	resp, err := c.r(ctx).SetResult(&out).Get("/tasks")
	if err := check(resp, err, "list tasks"); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkNotificationRead flags a notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	resp, err := c.r(ctx).SetPathParam("id", id).Patch("/notifications/{id}/read")
	return check(resp, err, "mark notification read")
}

// DeleteNotification soft-deletes a notification.
func (c *Client) DeleteNotification(ctx context.Context, id string) error {
	resp, err := c.r(ctx).SetPathParam("id", id).Patch("/notifications/{id}/delete")
	return check(resp, err, "delete notification")
}

// Stream paths served by the backend.
const (
	TaskStreamPath         = "/tasks/stream"
	NotificationStreamPath = "/notifications/stream"
)

// OpenStream opens a Server-Sent Events stream. The caller closes the body.
func (c *Client) OpenStream(ctx context.Context, path string) (io.ReadCloser, error) {
	resp, err := c.stream.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(path)
	if err != nil {
		return nil, fmt.Errorf("open stream %s: %w", path, err)
	}
	body := resp.RawBody()
	if resp.StatusCode() != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(body, 4<<10))
		_ = body.Close()
		return nil, &Error{Status: resp.StatusCode(), Message: fmt.Sprintf("open stream %s: %s", path, strings.TrimSpace(string(msg)))}
	}
	return body, nil
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
