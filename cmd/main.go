package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/mediaarena/arena/brackets"
	"github.com/mediaarena/arena/config"
	"github.com/mediaarena/arena/handlers"
	"github.com/mediaarena/arena/repositories"
	api "github.com/mediaarena/arena/routes"
	"github.com/mediaarena/arena/services"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	seed := cfg.ShuffleSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	logger.Info("pairing randomness seeded", slog.Int64("seed", seed))

	wsHub := brackets.NewHub(logger)

	sessionRepo := repositories.NewInMemorySessionRepository()
	tournamentService := services.NewTournamentService(rng, logger)
	sessionService := services.NewSessionService(sessionRepo, tournamentService, wsHub, cfg.DefaultTotalRounds, logger)
	logger.Info("services initialized")

	sessionHandler := handlers.NewSessionHandler(sessionService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub, sessionService)

	router := chi.NewRouter()
	api.SetupRoutes(router, sessionHandler, webSocketHandler, cfg.AllowedOrigins)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("WebSocket hub started")
		return wsHub.Run(gctx)
	})

	g.Go(func() error {
		logger.Info("starting server", slog.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server error", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("application exited")
}
