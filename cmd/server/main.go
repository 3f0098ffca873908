package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Radhe743/full-stack-social-media-app/internal/auth"
	"github.com/Radhe743/full-stack-social-media-app/internal/handlers"
	"github.com/Radhe743/full-stack-social-media-app/internal/logger"
	"github.com/Radhe743/full-stack-social-media-app/internal/metrics"
	"github.com/Radhe743/full-stack-social-media-app/internal/repositories"
	"github.com/Radhe743/full-stack-social-media-app/internal/router"
	"github.com/Radhe743/full-stack-social-media-app/internal/storage"
	"github.com/Radhe743/full-stack-social-media-app/pkg/config"
	"github.com/Radhe743/full-stack-social-media-app/pkg/firebase"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const blacklistPurgeInterval = time.Hour

var rootCmd = &cobra.Command{
	Use:           "social-api",
	Short:         "Social media backend API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context(), config.Load())
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if err := logger.Initialize(cfg.LogLevel, ""); err != nil {
			return err
		}
		defer logger.Close()

		db, err := config.InitDB(cfg)
		if err != nil {
			return err
		}
		defer db.CloseDB()
		return router.Migrate(db.SQL)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

func main() {
	// running the binary without a subcommand starts the server
	rootCmd.RunE = serveCmd.RunE
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := logger.Initialize(cfg.LogLevel, cfg.LogFile); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Close()
	metrics.Initialize()

	db, err := config.InitDB(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize databases: %w", err)
	}
	defer db.CloseDB()

	if err := router.Migrate(db.SQL); err != nil {
		return fmt.Errorf("failed to auto migrate models: %w", err)
	}

	blacklist, err := newBlacklist(ctx, cfg, db)
	if err != nil {
		return err
	}
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.AccessTokenLifetime, cfg.RefreshTokenLifetime, blacklist)

	store, err := newImageStore(ctx, cfg)
	if err != nil {
		return err
	}

	deps := router.Dependencies{
		DB:            db.SQL,
		Tokens:        tokens,
		ImageStore:    store,
		CookieSecure:  cfg.CookieSecure,
		CORSOrigins:   cfg.CORSOrigins,
		MaxReplyDepth: cfg.MaxReplyDepth,
	}
	if cfg.S3Bucket == "" {
		deps.MediaRoot = cfg.MediaRoot
	}
	if verifier := newFirebaseVerifier(ctx, cfg); verifier != nil {
		deps.FirebaseAuth = verifier
	}

	e := router.New(deps)

	metricsSrv := &http.Server{Addr: ":" + cfg.MetricsPort, Handler: promhttp.Handler()}
	go func() {
		logger.Log.Info("Metrics server starting", zap.String("port", cfg.MetricsPort))
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("Metrics server failed", zap.Error(err))
		}
	}()

	serverErr := make(chan error, 1)
	go func() {
		logger.Log.Info("Server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		return fmt.Errorf("failed to start server: %w", err)
	}
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Warn("Metrics server shutdown warning", zap.Error(err))
	}
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Log.Info("Server exited")
	return nil
}

// newBlacklist picks the refresh token blacklist store named by BLACKLIST_BACKEND
func newBlacklist(ctx context.Context, cfg *config.Config, db *config.DB) (repositories.TokenBlacklist, error) {
	switch cfg.BlacklistBackend {
	case "redis":
		if db.Redis == nil {
			return nil, errors.New("redis blacklist requires REDIS_ADDR")
		}
		return repositories.NewRedisTokenBlacklist(db.Redis), nil
	case "mongo":
		if db.Mongo == nil {
			return nil, errors.New("mongo blacklist requires MONGO_URI")
		}
		blacklist := repositories.NewMongoTokenBlacklist(db.Mongo.Database(cfg.MongoDB))
		if err := blacklist.EnsureIndexes(ctx); err != nil {
			return nil, fmt.Errorf("failed to create blacklist indexes: %w", err)
		}
		return blacklist, nil
	case "sql", "":
		blacklist := repositories.NewPostgresTokenBlacklist(db.SQL)
		go purgeExpired(ctx, blacklist)
		return blacklist, nil
	default:
		return nil, fmt.Errorf("unknown blacklist backend %q", cfg.BlacklistBackend)
	}
}

func purgeExpired(ctx context.Context, blacklist *repositories.PostgresTokenBlacklist) {
	ticker := time.NewTicker(blacklistPurgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := blacklist.PurgeExpired(ctx, time.Now())
			if err != nil {
				logger.Log.Warn("Blacklist purge failed", zap.Error(err))
				continue
			}
			logger.Log.Debug("Blacklist purged", zap.Int64("removed", n))
		}
	}
}

func newImageStore(ctx context.Context, cfg *config.Config) (storage.ImageStore, error) {
	if cfg.S3Bucket != "" {
		store, err := storage.NewS3Store(ctx, cfg.S3Region, cfg.S3Bucket, cfg.S3PublicURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 store: %w", err)
		}
		return store, nil
	}
	fs := afero.NewOsFs()
	if err := fs.MkdirAll(cfg.MediaRoot, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media root: %w", err)
	}
	return storage.NewLocalStore(fs, cfg.MediaRoot, cfg.MediaURL), nil
}

// newFirebaseVerifier returns nil when Firebase is not configured or fails to start
func newFirebaseVerifier(ctx context.Context, cfg *config.Config) handlers.IDTokenVerifier {
	if cfg.FirebaseCredentialsPath == "" {
		return nil
	}
	app, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath, cfg.FirebaseProjectID)
	if err != nil {
		logger.Log.Warn("Firebase login disabled", zap.Error(err))
		return nil
	}
	return app.AuthClient
}
