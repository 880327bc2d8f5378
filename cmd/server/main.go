package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	fiberadapter "github.com/vs-wedding/backend/adapters/fiber"
	pgxadapter "github.com/vs-wedding/backend/adapters/pgx"
	"github.com/vs-wedding/backend/config"
	"github.com/vs-wedding/backend/core"
	"github.com/vs-wedding/backend/pkg/crypto"
	"github.com/vs-wedding/backend/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config.Load: %v", err)
	}

	zlog, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("zap: %v", err)
	}
	defer zlog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := newPool(ctx, cfg)
	if err != nil {
		zlog.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	ids, err := crypto.NewNanoID()
	if err != nil {
		zlog.Fatal("nanoid", zap.Error(err))
	}

	storage := pgxadapter.New(pool)

	issuer := services.NewTokenIssuer(storage, services.TokenIssuerConfig{
		Secret:     []byte(cfg.JWTSecret),
		Issuer:     cfg.JWTIssuer,
		Audience:   cfg.JWTAudience,
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
	}, zlog)

	auth := services.NewAuthService(storage, core.NewArgon2(), issuer, ids, zlog)
	resolver := services.NewIdentityResolver(storage, ids, zlog)
	provider := services.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL, cfg.ProviderTimeout)

	app := fiber.New()
	app.Use(logger.New())

	adapter := fiberadapter.New(app, fiberadapter.Config{
		Auth:           auth,
		Validator:      issuer,
		Resolver:       resolver,
		Issuer:         issuer,
		Provider:       provider,
		Gifts:          services.NewGiftService(storage, zlog),
		Messages:       services.NewMessageService(storage),
		Participations: services.NewParticipationService(storage),
		FrontendURL:    cfg.FrontendURL,
		Logger:         zlog,
	})
	adapter.RegisterRoutes()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			zlog.Error("shutdown", zap.Error(err))
		}
	}()

	zlog.Info("starting http server", zap.String("port", cfg.HTTPPort))
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		zlog.Fatal("app.Listen", zap.Error(err))
	}
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.Environment == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func newPool(ctx context.Context, cfg config.Config) (*pgxpool.Pool, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(connectCtx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
