// Package main is the entrypoint for the esxdocs API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/esxdocs/esxdocs/internal/cache"
	"github.com/esxdocs/esxdocs/internal/config"
	"github.com/esxdocs/esxdocs/internal/handler"
	"github.com/esxdocs/esxdocs/internal/metrics"
	"github.com/esxdocs/esxdocs/internal/middleware"
	"github.com/esxdocs/esxdocs/internal/repository"
	"github.com/esxdocs/esxdocs/internal/server"
	"github.com/esxdocs/esxdocs/internal/service"
	"github.com/esxdocs/esxdocs/internal/storage"
)

func main() {
	// Initialize context
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Initialize database
	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("connected to database")

	// Initialize cache
	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	defer cacheClient.Close()
	logger.Info("connected to Redis")

	// Initialize object storage
	blobStore, err := storage.New(ctx, storage.Config{
		Bucket:        cfg.S3Bucket,
		Region:        cfg.S3Region,
		Endpoint:      cfg.S3Endpoint,
		AccessKey:     cfg.S3AccessKey,
		SecretKey:     cfg.S3SecretKey,
		PublicBaseURL: cfg.S3PublicBaseURL,
	})
	if err != nil {
		logger.Error("failed to initialize object storage",
			slog.String("error", sanitizeError(err, cfg.S3SecretKey)),
			slog.String("bucket", cfg.S3Bucket),
		)
		os.Exit(1)
	}
	logger.Info("connected to object storage", "bucket", cfg.S3Bucket)

	// Initialize services
	metricsRecorder := metrics.NewInMemory()
	userService := service.NewUserService(repo, cacheClient, cfg.TenantDomain, cfg.SessionTTL, metricsRecorder)
	deadlineService := service.NewDeadlineService(repo, metricsRecorder)
	documentService := service.NewDocumentService(repo, repo, blobStore, cfg.TenantDomain, cfg.DefaultTenant, metricsRecorder)
	announcementService := service.NewAnnouncementService(repo, cfg.BroadcastAddress, metricsRecorder)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(repo, cacheClient)
	metricsHandler := handler.NewMetricsHandler(metricsRecorder)
	authHandler := handler.NewAuthHandler(userService, cacheClient, handler.AuthConfig{
		SessionTTL:      cfg.SessionTTL,
		SecureCookie:    cfg.SecureCookie && cfg.IsProduction(),
		LoginRatePerMin: cfg.RateLimitLoginPerMin,
		LoginBurst:      cfg.RateLimitLoginBurst,
	}, logger)
	userHandler := handler.NewUserHandler(userService, logger)
	deadlineHandler := handler.NewDeadlineHandler(deadlineService, logger)
	documentHandler := handler.NewDocumentHandler(documentService, logger)
	announcementHandler := handler.NewAnnouncementHandler(announcementService, logger)

	// Setup router
	r := setupRouter(routerDeps{
		health:        healthHandler,
		metrics:       metricsHandler,
		auth:          authHandler,
		users:         userHandler,
		deadlines:     deadlineHandler,
		documents:     documentHandler,
		announcements: announcementHandler,
		repo:          repo,
		cache:         cacheClient,
		cfg:           cfg,
		logger:        logger,
	})

	// Create and run server
	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"tenant_domain", cfg.TenantDomain,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	level := parseLogLevel(cfg.LogLevel)

	opts := &slog.HandlerOptions{
		Level: level,
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type routerDeps struct {
	health        *handler.HealthHandler
	metrics       *handler.MetricsHandler
	auth          *handler.AuthHandler
	users         *handler.UserHandler
	deadlines     *handler.DeadlineHandler
	documents     *handler.DocumentHandler
	announcements *handler.AnnouncementHandler
	repo          *repository.Repository
	cache         *cache.Cache
	cfg           *config.Config
	logger        *slog.Logger
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(deps routerDeps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(deps.logger))
	r.Use(middleware.Recoverer(deps.logger))
	r.Use(middleware.Security(middleware.SecurityConfig{
		IsDevelopment:  deps.cfg.IsDevelopment(),
		AllowedOrigins: deps.cfg.GetCORSAllowedOrigins(),
	}))

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = deps.cfg.GetCORSAllowedOrigins()
	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.MaxBodySize(deps.cfg.MaxRequestBodySize))

	// Health and metrics endpoints (no auth required)
	r.Get("/healthz", deps.health.Healthz)
	r.Get("/readyz", deps.health.Readyz)
	r.Get("/metrics", deps.metrics.Metrics)

	// Root info endpoint
	r.Get("/", handler.Root)

	// Auth middleware configuration. The user's role is re-read from the
	// database on every request.
	authCfg := middleware.AuthConfig{
		Logger:   deps.logger,
		Sessions: deps.cache,
		Users:    deps.repo,
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Public auth endpoints
		r.Post("/auth/register", deps.auth.Register)
		r.Post("/auth/login", deps.auth.Login)

		// Authenticated endpoints
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(authCfg))

			r.Post("/auth/logout", deps.auth.Logout)
			r.Post("/auth/password", deps.auth.ChangePassword)
			r.Get("/auth/session", deps.auth.Session)

			// User management (admin only)
			r.Route("/users", func(r chi.Router) {
				r.Use(middleware.RequireAdmin())
				r.Get("/", deps.users.List)
				r.Patch("/{id}/role", deps.users.SetRole)
			})

			// Regulatory deadlines
			r.Route("/deadlines", func(r chi.Router) {
				r.Get("/", deps.deadlines.List)
				r.Get("/upcoming", deps.deadlines.Upcoming)
				r.With(middleware.RequireAdmin()).Post("/", deps.deadlines.Create)
				r.With(middleware.RequireAdmin()).Patch("/{id}", deps.deadlines.Update)
				r.With(middleware.RequireAdmin()).Delete("/{id}", deps.deadlines.Delete)
			})

			// Compliance documents
			r.Route("/documents", func(r chi.Router) {
				r.Get("/", deps.documents.List)
				r.Post("/", deps.documents.Upload)
			})
			r.Get("/dashboard", deps.documents.Dashboard)

			// Announcements
			r.Route("/announcements", func(r chi.Router) {
				r.Get("/", deps.announcements.List)
				r.With(middleware.RequireAdmin()).Post("/", deps.announcements.Create)
			})
		})
	})

	// 404 and 405 handlers
	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
