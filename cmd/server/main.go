package main

import (
	"beat-planning-service/internal/adapters/repositories"
	"beat-planning-service/internal/adapters/solver"
	"beat-planning-service/internal/api"
	"beat-planning-service/internal/auth"
	"beat-planning-service/internal/config"
	"beat-planning-service/internal/platform/db"
	"beat-planning-service/internal/platform/obs"
	"beat-planning-service/internal/services"
	"beat-planning-service/internal/state"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// main is the application composition root.
// It wires concrete adapters (SQL state store, solver client) behind ports and starts the HTTP server.
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := obs.NewLogger(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	obs.SetLogger(logger)

	if !cfg.LogDev {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, dialect, err := db.Open(ctx, cfg.DatabaseURL, cfg.DBPath)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := repositories.InitSchema(ctx, conn, dialect); err != nil {
		return err
	}

	repo, err := repositories.NewStateRepository(conn, dialect, cfg.StateKey)
	if err != nil {
		return err
	}

	store := state.New(
		state.WithRepository(repo),
		state.WithLogger(logger.Named("state")),
	)
	if err := store.Load(ctx); err != nil {
		return err
	}

	estimator, err := services.NewEstimator(cfg.Estimator)
	if err != nil {
		return err
	}

	client, err := solver.NewClient(cfg.Solver.URL, cfg.Solver.FallbackURL, cfg.Solver.BaseURL, cfg.Solver.Timeout)
	if err != nil {
		return err
	}

	verifier, err := auth.NewVerifier(cfg.JWTSecret)
	if err != nil {
		return err
	}

	router := api.NewRouter(api.Deps{
		Store:     store,
		Estimator: estimator,
		Solver:    client,
		Field:     client,
		Verifier:  verifier,
	})

	// Solves can take minutes on large plans, hence the long write timeout.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("db", string(dialect)),
			zap.String("solver", cfg.Solver.URL),
			zap.String("estimator", cfg.Estimator.Kind),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
