package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"slidecast/internal/http/handlers"
	"slidecast/internal/middleware"
)

// Options tune the middleware stack.
type Options struct {
	Logger          zerolog.Logger
	CORSOrigins     []string
	DefaultLocale   string
	RateLimitPerMin int
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(opts.Logger),
		middleware.CORS(opts.CORSOrigins),
		middleware.I18N(opts.DefaultLocale),
	)

	// generation and upload each hit the paid backend
	limited := middleware.RateLimit(opts.RateLimitPerMin, time.Minute)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/healthz", app.Health)

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", app.ListProjects)
			r.Post("/", app.CreateProject)
			r.Route("/{projectID}", func(r chi.Router) {
				r.Get("/", app.GetProject)
				r.Delete("/", app.DeleteProject)
				r.Get("/assets", app.ListAssets)
				r.With(limited).Post("/assets", app.UploadAssets)
				r.Post("/workflows", app.StartWorkflow)
			})
		})

		r.Route("/workflows/{sessionID}", func(r chi.Router) {
			r.Get("/", app.GetWorkflow)
			r.Delete("/", app.EndWorkflow)
			r.Post("/actions", app.DispatchAction)
			r.Group(func(r chi.Router) {
				r.Use(limited)
				r.Post("/lyrics", app.GenerateLyrics)
				r.Post("/audio", app.GenerateAudio)
				r.Post("/render", app.SubmitRender)
			})
		})

		r.Get("/tasks", app.ListTasks)
		r.Get("/tasks/{taskID}", app.GetTask)

		r.Get("/notifications", app.ListNotifications)
		r.Post("/notifications/{id}/read", app.MarkNotificationRead)
		r.Post("/notifications/{id}/delete", app.DeleteNotification)

		r.Get("/events", app.Events)
	})

	return r
}
