package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gyaneshwarpardhi/signuprelay/internal/api"
	"github.com/gyaneshwarpardhi/signuprelay/internal/config"
	"github.com/gyaneshwarpardhi/signuprelay/internal/crm"
	"github.com/gyaneshwarpardhi/signuprelay/internal/hook"
	"github.com/gyaneshwarpardhi/signuprelay/internal/identity"
	"github.com/gyaneshwarpardhi/signuprelay/internal/notify"
)

func main() {
	cfgPath := flag.String("config", "configs/settings.yaml", "Path to settings YAML file")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// ── Load settings ────────────────────────────────────────────────────────
	loader, err := config.NewLoader(*cfgPath)
	if err != nil {
		slog.Error("failed to load settings", "err", err)
		os.Exit(1)
	}
	cfg := loader.Config()
	if err := config.Validate(cfg); err != nil {
		slog.Error("settings validation failed", "err", err)
		os.Exit(1)
	}

	// ── Outbound clients ─────────────────────────────────────────────────────
	outbound := &http.Client{
		Timeout: time.Duration(cfg.Server.OutboundTimeoutMs) * time.Millisecond,
	}
	frontegg := identity.NewClient(func() config.FronteggConf {
		return loader.Config().Frontegg
	}, outbound)
	contacts := crm.NewService(func() config.HubspotConf {
		return loader.Config().Hubspot
	}, outbound)
	notifier := notify.NewService(func() config.SlackConf {
		return loader.Config().Slack
	}, frontegg, outbound)

	dispatcher := hook.NewDispatcher(frontegg, contacts, notifier, func() string {
		return loader.Config().Frontegg.DemoTenantID
	})

	// ── Hot-reload watcher ───────────────────────────────────────────────────
	loader.OnChange(func(newCfg *config.Settings) {
		if err := config.Validate(newCfg); err != nil {
			slog.Warn("reloaded settings are invalid, /readyz will report not ready", "err", err)
			return
		}
		slog.Info("settings reloaded")
	})
	stopWatch, err := loader.Watch()
	if err != nil {
		slog.Warn("settings watcher unavailable (hot-reload disabled)", "err", err)
	} else {
		defer stopWatch()
	}

	// ── HTTP server ──────────────────────────────────────────────────────────
	handler := api.New(dispatcher, loader)
	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	// ── Graceful shutdown ────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down…")

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutCancel()
	_ = srv.Shutdown(shutCtx)
	slog.Info("goodbye")
}
