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

	"github.com/mmynk/bankroll/internal/config"
	"github.com/mmynk/bankroll/internal/registry"
	"github.com/mmynk/bankroll/internal/server"
	"github.com/mmynk/bankroll/internal/service"
	"github.com/mmynk/bankroll/pkg/logging"
)

func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	reg := registry.New()
	svc := service.New(reg, cfg.AdminName, cfg.StartingStake)
	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: server.New(svc, cfg).Handler(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go svc.RunReaper(ctx, cfg.ReapInterval)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("shutdown incomplete", "error", err)
		}
	}()

	slog.Info("server starting",
		"address", cfg.Addr,
		"admin_name", cfg.AdminName,
		"starting_stake", cfg.StartingStake,
		"reap_interval", cfg.ReapInterval,
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
