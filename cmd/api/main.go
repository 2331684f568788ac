package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dwes123/pitch-arsenal-go/internal/config"
	"github.com/dwes123/pitch-arsenal-go/internal/db"
	"github.com/dwes123/pitch-arsenal-go/internal/logging"
	"github.com/dwes123/pitch-arsenal-go/internal/mlbapi"
	"github.com/dwes123/pitch-arsenal-go/internal/notification"
	"github.com/dwes123/pitch-arsenal-go/internal/pipeline"
	"github.com/dwes123/pitch-arsenal-go/internal/pitchtype"
	"github.com/dwes123/pitch-arsenal-go/internal/store"
	"github.com/dwes123/pitch-arsenal-go/internal/worker"
)

func main() {
	// $PITCH_CONFIG or ./pitchdata.yaml, then the environment
	cfg, err := config.Load("")
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel)

	if cfg.PitchOverrides != "" {
		if err := pitchtype.LoadOverrides(cfg.PitchOverrides); err != nil {
			slog.Error("load pitch overrides", "path", cfg.PitchOverrides, "err", err)
			os.Exit(1)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Database mirror (optional)
	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		pool, err = db.InitDB(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("database unavailable", "err", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := store.EnsureSchema(ctx, pool); err != nil {
			slog.Error("ensure schema", "err", err)
			os.Exit(1)
		}
	}

	// 2. Runner and background worker
	runner := pipeline.NewRunner(cfg, pool, notification.New(cfg.Notify))
	if cfg.Server.RefreshWorker {
		worker.StartRefreshWorker(ctx, runner)
	}

	// 3. Router
	r := newRouter(deps{
		cfg:    cfg,
		pool:   pool,
		runner: runner,
		people: mlbapi.NewClient(cfg.Server.MLBAPIBaseURL, 10*time.Second),
		ctx:    ctx,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", srv.Addr, "out_dir", cfg.OutDir, "season", cfg.Season)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown", "err", err)
	}
}
