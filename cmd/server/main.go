// Package main initializes and starts the FlashCards API server, setting up
// configuration, logging, the store, services, handlers, and the listener.
package main

import (
	"cmp"
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/atinyakov/FlashCards/internal/config"
	"github.com/atinyakov/FlashCards/internal/db"
	"github.com/atinyakov/FlashCards/internal/logger"
	"github.com/atinyakov/FlashCards/internal/metrics"
	"github.com/atinyakov/FlashCards/internal/server"
	"github.com/atinyakov/FlashCards/internal/server/handler/http"
	"github.com/atinyakov/FlashCards/internal/service"
	"github.com/atinyakov/FlashCards/internal/session"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

const healthInterval = 30 * time.Second

func main() {
	// Parse command-line, file and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.Log.Level, options.Log.File); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log.With(zap.String("environment", options.Environment))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect the configured store.
	deckStore, err := openStore(ctx, options, zapLogger)
	if err != nil {
		zapLogger.Fatal("cannot init store", zap.Error(err), zap.String("backend", options.Store.Backend))
	}
	defer func() {
		if err := deckStore.Close(); err != nil {
			zapLogger.Error("closing store", zap.Error(err))
		}
	}()

	m := metrics.New()
	health := db.StartHealthMonitor(ctx, deckStore, healthInterval, zapLogger, m.SetStoreUp)

	// Initialize business-logic services.
	authService := service.NewAuthService(options.AuthKey, options.JWTSecret)
	deckService := service.NewDeckService(deckStore)

	// Create HTTP handlers and the router.
	router := http.NewRouter(http.RouterConfig{
		Auth: &http.AuthHandler{
			AuthService: authService,
			Cookies:     session.New(options.IsProduction()),
			Metrics:     m,
			Log:         zapLogger,
		},
		Deck: &http.DeckHandler{
			DeckService: deckService,
			Metrics:     m,
			Log:         zapLogger,
		},
		System: &http.SystemHandler{
			Health: health,
			Env:    http.NewDebugEnv(options),
		},
		Metrics:     m,
		Logger:      zapLogger,
		Origins:     options.Origins(),
		Development: !options.IsProduction(),
	})

	srv := server.New(options.Addr(), router, options.TLS.CertFile, options.TLS.KeyFile, zapLogger)
	if err := srv.Run(ctx); err != nil {
		zapLogger.Error("server stopped with error", zap.Error(err))
	}
}
