package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"slidecast/internal/adapter/repo"
	"slidecast/internal/backend"
	"slidecast/internal/creator"
	"slidecast/internal/feed"
	"slidecast/internal/http/handlers"
	httpapi "slidecast/internal/http/httpapi"
	"slidecast/internal/infra"
	"slidecast/internal/session"
	"slidecast/internal/upload"
	"slidecast/pkg/sse"
)

const pruneInterval = time.Hour

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	be, err := backend.NewClient(backend.Options{
		BaseURL:        cfg.APIURL,
		Token:          cfg.APIToken,
		RequestTimeout: cfg.BackendTimeout,
		Logger:         &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("backend client")
	}

	var feedRepo *repo.FeedRepositoryPG
	if cfg.PersistFeed() {
		pool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect database")
		}
		defer pool.Close()
		feedRepo = repo.NewFeedRepository(infra.NewSQLRunner(pool, logger))
		if err := feedRepo.EnsureSchema(ctx); err != nil {
			logger.Fatal().Err(err).Msg("feed schema")
		}
	}

	hub := sse.NewHub()
	go hub.Run(ctx)

	feedOpts := feed.Options{
		Source:     be,
		Publisher:  hub,
		RetryDelay: cfg.FeedRetryDelay,
		Logger:     logger.With().Str("component", "feed").Logger(),
	}
	if feedRepo != nil {
		feedOpts.Repo = feedRepo
	}
	fd := feed.New(feedOpts)
	if err := fd.Restore(ctx); err != nil {
		logger.Warn().Err(err).Msg("feed restore failed")
	}
	go func() {
		if err := fd.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("feed stopped")
		}
	}()
	if feedRepo != nil {
		go pruneLoop(ctx, feedRepo, cfg.FeedRetention, logger)
	}

	sessions := session.NewStore(cfg.SessionTTL)
	go sessions.RunSweeper(ctx, cfg.SessionSweepInterval, logger)

	svc := creator.New(creator.Options{
		Backend:  be,
		Sessions: sessions,
		Upload:   upload.Options{Concurrency: cfg.UploadConcurrency},
		Logger:   logger.With().Str("component", "creator").Logger(),
	})

	app := handlers.NewApp(svc, fd, be, hub, logger)
	app.KeepAlive = cfg.SSEKeepAlive

	router := httpapi.NewRouter(app, httpapi.Options{
		Logger:          logger,
		CORSOrigins:     cfg.CORSOrigins,
		DefaultLocale:   cfg.DefaultLocale,
		RateLimitPerMin: cfg.RateLimitPerMin,
	})

	server := infra.NewHTTPServer(ctx, cfg, router)

	go func() {
		logger.Info().Str("backend", be.BaseURL()).Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}

type taskPruner interface {
	PruneTasks(ctx context.Context, cutoff time.Time) (int64, error)
}

// pruneLoop drops finished tasks older than retention from the snapshot.
func pruneLoop(ctx context.Context, p taskPruner, retention time.Duration, logger infra.Logger) {
	if retention <= 0 {
		return
	}
	t := time.NewTicker(pruneInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			n, err := p.PruneTasks(ctx, now.Add(-retention))
			if err != nil {
				logger.Warn().Err(err).Msg("prune tasks")
				continue
			}
			if n > 0 {
				logger.Info().Int64("tasks", n).Msg("pruned feed tasks")
			}
		}
	}
}
