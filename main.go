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

	"github.com/example/wordbook/internal/api"
	"github.com/example/wordbook/internal/app"
	"github.com/example/wordbook/internal/config"
	"github.com/example/wordbook/internal/logger"
	"github.com/example/wordbook/internal/scheduler"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, warnings, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	for _, w := range warnings {
		log.Warn(w)
	}

	// Cancelled on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx, cfg, log)
	if err != nil {
		log.Fatal("startup failed", "error", err)
	}
	defer a.Close()

	if cfg.PhoneticAuditHours > 0 {
		var reporter scheduler.Reporter
		if a.Telegram != nil {
			reporter = a.Telegram
		}
		sched := scheduler.New(a.Services.Vocabulary, reporter, cfg.PhoneticAuditHours, log)
		if err := sched.Start(); err != nil {
			log.Error("scheduler not started", "error", err)
		} else {
			defer sched.Stop()
		}
	}

	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: api.New(a.Services, log, api.Options{
			StaticDir:      cfg.StaticDir,
			AllowedOrigins: cfg.AllowedOrigins,
		}).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", srv.Addr, "db", cfg.DBType)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
		}
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("error during shutdown", "error", err)
		}
	}
	log.Info("server stopped")
}
