package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/nillion-vault/vault-engine/pkg/config"
	"github.com/nillion-vault/vault-engine/pkg/delegation"
	"github.com/nillion-vault/vault-engine/pkg/handlers"
	"github.com/nillion-vault/vault-engine/pkg/middleware"
	"github.com/nillion-vault/vault-engine/pkg/store"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	// Optional .env for local development; ignored when absent
	_ = godotenv.Load()

	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("database", cfg.DatabasePath),
		zap.Strings("cors_origins", cfg.CORSOrigins),
		zap.Int("token_ttl_minutes", cfg.Builder.TokenTTLMinutes))

	kv, err := store.OpenSQLite(cfg.DatabasePath)
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	defer func() { _ = kv.Close() }()

	activity := store.NewActivityLog(kv, cfg.Vault.ActivityLogCap, logger)

	// No signing key, no server: every endpoint depends on the builder
	// identity.
	if cfg.Builder.PrivateKeySeed == "" {
		logger.Fatal("BUILDER_PRIVATE_KEY environment variable is required")
	}
	keypair, err := delegation.KeypairFromSeed(cfg.Builder.PrivateKeySeed)
	if err != nil {
		logger.Fatal("Failed to load builder keypair", zap.Error(err))
	}
	issuer := delegation.NewIssuer(keypair, cfg.Builder.TokenTTL(), cfg.Builder.CollectionName, logger)
	logger.Info("Builder initialized", zap.String("builder_did", keypair.DID()))

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(cfg, issuer, logger)
	healthHandler.RegisterRoutes(mux)

	tokenHandler := handlers.NewTokenHandler(issuer, activity, logger)
	tokenHandler.RegisterRoutes(mux)

	var handler http.Handler = mux
	handler = middleware.RateLimit(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window(), "/api/")(handler)
	handler = middleware.CORS(cfg.CORSOrigins)(handler)
	handler = middleware.RequestLogger(logger)(handler)

	server := &http.Server{
		Addr:              cfg.BindAddr + ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("Starting vault-engine",
			zap.String("addr", server.Addr),
			zap.String("version", cfg.Version))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown incomplete", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "local" || env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
