package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Harshitk-cp/lifedash/internal/api/handlers"
	mw "github.com/Harshitk-cp/lifedash/internal/api/middleware"
	"github.com/Harshitk-cp/lifedash/internal/buildconfig"
	"github.com/Harshitk-cp/lifedash/internal/config"
	"github.com/Harshitk-cp/lifedash/internal/domain"
	"github.com/Harshitk-cp/lifedash/internal/metrics"
	"github.com/Harshitk-cp/lifedash/internal/records"
	"github.com/Harshitk-cp/lifedash/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Options are the HTTP-facing settings of the App.
type Options struct {
	APIToken         string
	RateLimitRPS     float64
	RateLimitBurst   int
	HistoryLimit     int
	SnapshotInterval time.Duration
}

// OptionsFromConfig reads Options from the environment.
func OptionsFromConfig() Options {
	return Options{
		APIToken:         config.APIToken(),
		RateLimitRPS:     config.RateLimitRPS(),
		RateLimitBurst:   config.RateLimitBurst(),
		HistoryLimit:     config.SnapshotHistoryLimit(),
		SnapshotInterval: config.SnapshotInterval(),
	}
}

// App holds the router and background services for lifecycle management.
type App struct {
	Router    *chi.Mux
	Vision    *service.VisionService
	Snapshots *service.SnapshotService
	Limiter   *mw.RateLimiter
	Metrics   *metrics.Collector
	startTime time.Time
}

type pinger interface {
	Ping(ctx context.Context) error
}

func NewApp(kv domain.KVStore, logger *zap.Logger, opts Options) *App {
	if opts.RateLimitRPS <= 0 {
		opts.RateLimitRPS = 100
	}
	if opts.RateLimitBurst <= 0 {
		opts.RateLimitBurst = 20
	}

	collector := metrics.New()

	visionSvc := service.Build(kv, logger, collector, records.Config{HistoryLimit: opts.HistoryLimit})
	visionSvc.SetSnapshotHook(collector.SnapshotRecorded)

	snapshotSvc := service.NewSnapshotService(visionSvc, logger)
	snapshotSvc.SetInterval(opts.SnapshotInterval)

	limiter := mw.NewRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst)

	// Handlers
	visionHandler := handlers.NewVisionHandler(visionSvc)
	milestoneHandler := handlers.NewMilestoneHandler(visionSvc)
	decisionHandler := handlers.NewDecisionHandler(visionSvc)
	financeHandler := handlers.NewFinanceHandler(visionSvc)
	habitHandler := handlers.NewHabitHandler(visionSvc)
	stateHandler := handlers.NewStateHandler(visionSvc)
	eventsHandler := handlers.NewEventsHandler(visionSvc, collector, logger)

	r := chi.NewRouter()

	app := &App{
		Router:    r,
		Vision:    visionSvc,
		Snapshots: snapshotSvc,
		Limiter:   limiter,
		Metrics:   collector,
		startTime: time.Now(),
	}

	// Global middleware (order matters)
	r.Use(mw.RequestID)          // Generate/extract request ID first
	r.Use(middleware.RealIP)     // Extract real IP
	r.Use(mw.Metrics(collector)) // Collect metrics
	r.Use(mw.Logging(logger))    // Log all requests
	r.Use(middleware.Recoverer)  // Recover from panics
	r.Use(mw.RateLimit(limiter)) // Rate limiting

	// Health (no auth)
	r.Get("/health", app.healthHandler(kv))

	// Metrics (no auth)
	r.Method(http.MethodGet, "/metrics", collector.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Use(mw.TokenAuth(opts.APIToken))

		// Vision record
		r.Route("/vision", func(r chi.Router) {
			r.Get("/", visionHandler.Get)
			r.Put("/", visionHandler.Replace)
			r.Put("/north-star", visionHandler.SetNorthStar)
			r.Put("/themes", visionHandler.SetThemes)
			r.Put("/targets/{dimension}", visionHandler.SetTarget)
		})

		// Milestones and weekly commitments
		r.Route("/milestones", func(r chi.Router) {
			r.Get("/", milestoneHandler.List)
			r.Post("/", milestoneHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", milestoneHandler.Get)
				r.Put("/", milestoneHandler.Update)
				r.Delete("/", milestoneHandler.Delete)
				r.Post("/archive", milestoneHandler.Archive)
				r.Post("/restore", milestoneHandler.Restore)
				r.Post("/commit", milestoneHandler.ToggleCommitment)
			})
		})
		r.Delete("/commitments", milestoneHandler.ClearCommitments)

		// Decision log
		r.Route("/decisions", func(r chi.Router) {
			r.Get("/", decisionHandler.List)
			r.Post("/", decisionHandler.Create)
			r.Delete("/", decisionHandler.Clear)
		})

		// Finance and habits
		r.Get("/finance", financeHandler.Get)
		r.Put("/finance", financeHandler.Put)
		r.Route("/habits", func(r chi.Router) {
			r.Get("/", habitHandler.List)
			r.Post("/", habitHandler.Create)
			r.Post("/{id}/toggle", habitHandler.Toggle)
			r.Delete("/{id}", habitHandler.Delete)
		})

		// Derived state
		r.Get("/state/{layer}", stateHandler.Layer)
		r.Route("/snapshots", func(r chi.Router) {
			r.Get("/", stateHandler.ListSnapshots)
			r.Post("/", stateHandler.RecordSnapshot)
			r.Get("/preview", stateHandler.PreviewSnapshot)
		})
		r.Get("/insights/weekly", stateHandler.WeeklyInsights)

		// Admin
		r.Post("/reset", stateHandler.Reset)
		r.Post("/seed", stateHandler.Seed)

		// Mutation events
		r.Get("/events", eventsHandler.Stream)
	})

	logger.Info("router initialised",
		zap.Bool("auth", opts.APIToken != ""),
		zap.Float64("rate_limit_rps", opts.RateLimitRPS),
	)

	return app
}

func (app *App) healthHandler(kv domain.KVStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"status":         "ok",
			"build":          buildconfig.VersionInfo(),
			"uptime_seconds": time.Since(app.startTime).Seconds(),
		}
		status := http.StatusOK

		if p, ok := kv.(pinger); ok {
			if err := p.Ping(r.Context()); err != nil {
				resp["status"] = "error"
				resp["error"] = err.Error()
				status = http.StatusServiceUnavailable
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(resp)
	}
}
