package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ehr/formfill/internal/config"
	"github.com/ehr/formfill/internal/domain/maternity"
	"github.com/ehr/formfill/internal/platform/auth"
	"github.com/ehr/formfill/internal/platform/blobstore"
	"github.com/ehr/formfill/internal/platform/db"
	"github.com/ehr/formfill/internal/platform/middleware"
	"github.com/ehr/formfill/internal/platform/pdfform"
	"github.com/ehr/formfill/internal/platform/templates"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:           "formfill",
		Short:         "Fill maternity records into PDF form templates",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(fillCmd())
	rootCmd.AddCommand(fieldsCmd())
	rootCmd.AddCommand(auditCmd())
	rootCmd.AddCommand(fieldMapCmd())
	rootCmd.AddCommand(templateCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the document generation API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

// loadConfig loads and validates configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newLogger builds the process logger. Development gets console output.
func newLogger(cfg *config.Config, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	if cfg.IsDev() {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// newRouter wires the template sources. store may be nil.
func newRouter(cfg *config.Config, store blobstore.Store, logger zerolog.Logger) *templates.Router {
	return &templates.Router{
		Store:     store,
		Locations: cfg.TemplateLocations(),
		Files:     templates.FileSource{Dir: cfg.TemplateDir, MaxBytes: cfg.TemplateMaxBytes},
		HTTP: templates.NewHTTPSource(templates.HTTPConfig{
			Timeout:  cfg.TemplateFetchTimeout,
			Retries:  cfg.TemplateFetchRetries,
			MaxBytes: cfg.TemplateMaxBytes,
		}),
		Logger: logger,
	}
}

func newService(cfg *config.Config, loader maternity.TemplateLoader, logger zerolog.Logger) *maternity.Service {
	return maternity.NewService(loader, pdfform.NewOpener(), cfg.Formatter(), logger)
}

func rateLimitConfig(cfg *config.Config) middleware.RateLimitConfig {
	rl := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rl.RequestsPerSecond <= 0 || rl.BurstSize <= 0 {
		rl = middleware.DefaultRateLimitConfig()
	}
	return rl
}

func authMiddleware(cfg *config.Config) echo.MiddlewareFunc {
	if cfg.AuthSigningKey == "" && cfg.AuthJWKSURL == "" {
		return auth.DevAuthMiddleware()
	}
	return auth.JWTMiddleware(auth.JWTConfig{
		Issuer:     cfg.AuthIssuer,
		Audience:   cfg.AuthAudience,
		JWKSURL:    cfg.AuthJWKSURL,
		SigningKey: []byte(cfg.AuthSigningKey),
	})
}

// newServer assembles the HTTP server. pool may be nil, in which case
// uploaded templates are kept in memory.
func newServer(cfg *config.Config, pool *pgxpool.Pool, logger zerolog.Logger) *echo.Echo {
	var store blobstore.Store = blobstore.NewMemoryStore(cfg.TemplateMaxBytes)
	var recorders []middleware.AuditRecorder
	if pool != nil {
		store = blobstore.NewPGStore(pool, cfg.TemplateMaxBytes)
		recorders = append(recorders, db.NewAuditLog(pool))
	}

	router := newRouter(cfg, store, logger)
	svc := newService(cfg, router, logger)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:  cfg.CORSOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:  []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Disposition", maternity.WarningsHeader, middleware.RequestIDHeader},
	}))
	e.Use(middleware.BodyLimit(cfg.BodyLimit, strconv.FormatInt(cfg.TemplateMaxBytes, 10)))

	e.GET("/health", db.HealthHandler(pool))
	e.GET("/version", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"version": version})
	})

	apiV1 := e.Group("/api/v1")
	apiV1.Use(authMiddleware(cfg))
	apiV1.Use(middleware.Audit(logger, recorders...))
	apiV1.Use(middleware.RateLimit(rateLimitConfig(cfg)))

	blobstore.NewHandler(store, maternity.DocTypes...).RegisterRoutes(apiV1)
	maternity.NewHandler(svc).RegisterRoutes(apiV1)

	return e
}

func runServer() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg, os.Stdout)

	ctx := context.Background()
	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		pool, err = db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			return err
		}
		defer pool.Close()
		logger.Info().Msg("connected to database")
	} else {
		logger.Warn().Msg("DATABASE_URL not set, uploaded templates are kept in memory")
	}

	e := newServer(cfg, pool, logger)

	// Graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-quit:
	}

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}
