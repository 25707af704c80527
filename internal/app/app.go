// Package app provides application initialization and lifecycle management.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/conzex/statuspulse/internal/api"
	"github.com/conzex/statuspulse/internal/config"
	"github.com/conzex/statuspulse/internal/domain"
	"github.com/conzex/statuspulse/internal/notifications"
	"github.com/conzex/statuspulse/internal/pkg/httputil"
	"github.com/conzex/statuspulse/internal/reports"
	"github.com/conzex/statuspulse/internal/setupflag"
	"github.com/conzex/statuspulse/internal/store"
	"github.com/conzex/statuspulse/internal/version"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// App represents the application instance.
type App struct {
	config        *config.Config
	logger        *slog.Logger
	store         *store.Store
	server        *http.Server
	metricsServer *http.Server
	unsubscribe   func()
}

// New creates a new application instance.
func New(cfg *config.Config) (*App, error) {
	logger := initLogger(cfg.Log)

	flag, err := setupflag.NewFile(cfg.Data.Dir)
	if err != nil {
		return nil, fmt.Errorf("create setup flag: %w", err)
	}

	renderer, err := notifications.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("create notification renderer: %w", err)
	}

	var sink notifications.Sink
	var smtpSink *notifications.SMTPSink
	if cfg.Notifications.Sink == "smtp" {
		smtpSink, err = notifications.NewSMTPSink(notifications.SMTPConfig{
			FromAddress: cfg.Notifications.FromAddress,
			BatchSize:   cfg.Notifications.BatchSize,
			SendRate:    rate.Limit(cfg.Notifications.SendRate),
		}, renderer)
		if err != nil {
			return nil, fmt.Errorf("create smtp sink: %w", err)
		}
		sink = smtpSink
	} else {
		sink = notifications.NewLogSink(renderer, logger)
	}

	var tester notifications.Tester
	if cfg.Notifications.SimulateSMTP {
		tester = notifications.NewSimulatedTester(cfg.Notifications.SimulateDelay)
	} else {
		tester = notifications.NewDialTester(10 * time.Second)
	}

	st := store.New(store.Options{
		Flag:   flag,
		Sink:   sink,
		Tester: tester,
		Logger: logger,
	})

	app := &App{
		config: cfg,
		logger: logger,
		store:  st,
	}

	// The SMTP sink reads admin-managed transport settings; keep it in
	// step with the store.
	if smtpSink != nil {
		smtpSink.UpdateSettings(st.State().SMTPSettings)
		app.unsubscribe = st.Subscribe(func() {
			smtpSink.UpdateSettings(st.State().SMTPSettings)
		})
	}

	auth := api.NewAuthenticator(api.AuthConfig{
		SecretKey:           cfg.JWT.SecretKey,
		AccessTokenDuration: cfg.JWT.AccessTokenDuration,
	}, st)

	handler := api.NewHandler(st, reports.NewTemplateGenerator(), auth)

	app.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:           app.setupRouter(handler, auth),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	// Metrics server on separate port
	metricsRouter := chi.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.Handler())

	app.metricsServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.MetricsPort),
		Handler:           metricsRouter,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return app, nil
}

// Run starts the HTTP servers.
func (a *App) Run() error {
	// Start metrics server in background
	go func() {
		a.logger.Info("starting metrics server",
			"host", a.config.Server.Host,
			"port", a.config.Server.MetricsPort,
		)
		if err := a.metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Error("metrics server error", "error", err)
		}
	}()

	a.logger.Info("starting server",
		"host", a.config.Server.Host,
		"port", a.config.Server.Port,
	)

	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down servers")

	if a.unsubscribe != nil {
		a.unsubscribe()
	}

	// Shutdown both servers in parallel
	var wg sync.WaitGroup
	var errs []error
	var mu sync.Mutex

	wg.Add(2)

	go func() {
		defer wg.Done()
		if err := a.server.Shutdown(ctx); err != nil {
			mu.Lock()
			errs = append(errs, fmt.Errorf("shutdown server: %w", err))
			mu.Unlock()
		}
	}()

	go func() {
		defer wg.Done()
		if err := a.metricsServer.Shutdown(ctx); err != nil {
			mu.Lock()
			errs = append(errs, fmt.Errorf("shutdown metrics server: %w", err))
			mu.Unlock()
		}
	}()

	wg.Wait()

	return errors.Join(errs...)
}

// Router returns the HTTP handler for testing.
func (a *App) Router() http.Handler {
	return a.server.Handler
}

// Store returns the state container. Used in tests to inspect state.
func (a *App) Store() *store.Store {
	return a.store
}

func (a *App) setupRouter(handler *api.Handler, auth *api.Authenticator) *chi.Mux {
	r := chi.NewRouter()

	// Metrics middleware must be first to measure full request time
	r.Use(httputil.MetricsMiddleware)

	// CORS must be early to handle preflight requests before other middleware
	r.Use(httputil.CORSMiddleware(a.config.CORS.AllowedOrigins))
	r.Use(middleware.RequestID)
	r.Use(httputil.RequestLoggerMiddleware(a.logger))
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", a.healthzHandler)
	r.Get("/version", a.versionHandler)

	r.Route("/api/v1", func(r chi.Router) {
		handler.RegisterPublicRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(httputil.AuthMiddleware(auth))

			handler.RegisterProtectedRoutes(r)

			r.Group(func(r chi.Router) {
				r.Use(httputil.RequireRole(domain.RoleManager))
				handler.RegisterManagerRoutes(r)
			})

			r.Group(func(r chi.Router) {
				r.Use(httputil.RequireRole(domain.RoleSuperAdmin))
				handler.RegisterAdminRoutes(r)
			})
		})
	})

	return r
}

func (a *App) healthzHandler(w http.ResponseWriter, _ *http.Request) {
	httputil.Text(w, http.StatusOK, "OK")
}

func (a *App) versionHandler(w http.ResponseWriter, _ *http.Request) {
	httputil.JSON(w, http.StatusOK, map[string]string{
		"version":    version.Version,
		"commit":     version.GitCommit,
		"build_date": version.BuildDate,
	})
}

func initLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
