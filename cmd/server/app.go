package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/menulens/menulens-api/internal/api"
	"github.com/menulens/menulens-api/internal/config"
	"github.com/menulens/menulens-api/internal/events"
	"github.com/menulens/menulens-api/internal/imagecache"
	"github.com/menulens/menulens-api/internal/metrics"
	"github.com/menulens/menulens-api/internal/pipeline"
	"github.com/menulens/menulens-api/internal/platform/gemini"
	"github.com/menulens/menulens-api/internal/platform/logger"
	"github.com/menulens/menulens-api/internal/platform/media"
)

// application holds the explicitly constructed dependencies for the
// server. Everything is built once at startup and handed down by
// reference; there are no global singletons beyond the default slog
// logger.
type application struct {
	config   *config.Config
	logger   *slog.Logger
	hub      *events.SessionHub
	runner   *pipeline.Runner
	cache    *imagecache.Cache
	recorder *metrics.Recorder
	mediaDir string
}

// newApplication wires the application together. The returned cleanup
// function stops the pipeline workers and closes the cache tiers.
func newApplication(ctx context.Context) (*application, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.Setup(cfg.Server)
	recorder := metrics.NewRecorder(nil)
	hub := events.NewSessionHub(log)

	mediaStore, err := media.NewFileStore(cfg.Server.MediaDir, cfg.Server.MediaBaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("media store: %w", err)
	}

	engine, err := gemini.NewClient(ctx, cfg.LLM, mediaStore, log)
	if err != nil {
		return nil, nil, fmt.Errorf("gemini client: %w", err)
	}

	// The durable tier is optional: without it the process-local tier
	// still provides caching within this process.
	var durable imagecache.Store
	if cfg.Cache.RedisAddress != "" {
		durable, err = imagecache.NewValkey(imagecache.ValkeyConfig{
			Address:  cfg.Cache.RedisAddress,
			Username: cfg.Cache.RedisUsername,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		if err != nil {
			log.Warn("durable cache tier unavailable, continuing with local tier only",
				"error", err)
			durable = nil
		}
	}

	cache := imagecache.New(
		durable,
		imagecache.NewMemory(),
		imagecache.NewHTTPProber(cfg.Cache.ProbeTimeout),
		imagecache.DefaultFallbacks(),
		cfg.Cache.TTL,
		log,
		recorder,
	)

	orchestrator := pipeline.NewOrchestrator(
		engine, engine, engine, cache, hub, recorder, cfg.Pipeline, log)
	runner := pipeline.NewRunner(orchestrator, cfg.Pipeline, log)
	runner.Start()

	app := &application{
		config:   cfg,
		logger:   log,
		hub:      hub,
		runner:   runner,
		cache:    cache,
		recorder: recorder,
		mediaDir: cfg.Server.MediaDir,
	}

	cleanup := func() {
		runner.Stop()
		if err := cache.Close(context.Background()); err != nil {
			log.Error("failed to close cache", "error", err)
		}
	}
	return app, cleanup, nil
}

// setupRouter creates and configures the application router with all
// routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	menuHandler := api.NewMenuHandler(app.runner, app.hub, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Post("/menus", menuHandler.ProcessMenu)
		r.Get("/menus/{sessionID}/events", menuHandler.StreamEvents)
	})

	// Synthesized images are served straight off the media directory.
	r.Handle("/media/*", http.StripPrefix("/media/",
		http.FileServer(http.Dir(app.mediaDir))))

	r.Method(http.MethodGet, "/metrics", app.recorder.Handler())

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
