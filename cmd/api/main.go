package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"siar/internal/config"
	"siar/internal/database"
	"siar/internal/httpserver"
	"siar/internal/logger"
	"siar/internal/seed"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("info").Fatalw("config load failed", "error", err)
	}
	lg := logger.New(cfg.Log.Level)
	defer lg.Sync()

	db, err := database.Connect(cfg.Database, lg)
	if err != nil {
		lg.Fatalw("db connect failed", "error", err)
	}
	defer database.Close(db)
	if err := database.AutoMigrate(db); err != nil {
		lg.Fatalw("automigrate failed", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := seed.ReferenceData(ctx, db); err != nil {
		lg.Fatalw("reference data seed failed", "error", err)
	}
	if cfg.Seed.DefaultAccounts {
		if _, err := seed.DefaultAccounts(ctx, db, lg); err != nil {
			lg.Fatalw("default account seed failed", "error", err)
		}
	}

	deps := httpserver.NewDeps(cfg, db, lg)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      httpserver.NewRouter(deps),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		lg.Infow("listening", "port", cfg.Server.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatalw("http server failed", "error", err)
		}
	case <-ctx.Done():
		lg.Infow("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			lg.Errorw("graceful shutdown failed", "error", err)
		}
	}
}
