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

	"github.com/dgallion1/blogd/internal/api"
	"github.com/dgallion1/blogd/internal/config"
	"github.com/dgallion1/blogd/internal/metrics"
	"github.com/dgallion1/blogd/internal/posts"
	"github.com/dgallion1/blogd/internal/render"
	"github.com/dgallion1/blogd/internal/view"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	cfg := config.Load()
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	store, err := posts.NewSQLiteStore(cfg.DatabasePath)
	if err != nil {
		log.Error("open database", "path", cfg.DatabasePath, "error", err)
		os.Exit(1)
	}

	pages, err := view.NewPages()
	if err != nil {
		log.Error("load templates", "error", err)
		os.Exit(1)
	}

	// Initialize metrics.
	var (
		recorder       metrics.Recorder = metrics.NoopRecorder{}
		metricsHandler http.Handler
	)
	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		recorder = metrics.NewPrometheusRecorder(reg)
		metricsHandler = metrics.HTTPHandler(reg)
	}

	srv := api.NewServer(api.Deps{
		Store:    store,
		Renderer: render.New(renderOptions(cfg, recorder)...),
		Pages:    pages,
		Recorder: recorder,
		Metrics:  metricsHandler,
		Log:      log,
	}, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	done := make(chan struct{})
	go func() {
		defer close(done)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Warn("http shutdown", "error", err)
		}
	}()

	log.Info("starting blogd", "port", cfg.Port, "database", cfg.DatabasePath, "metrics", cfg.MetricsEnabled)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server error", "error", err)
		_ = store.Close()
		os.Exit(1)
	}
	<-done

	if err := store.Close(); err != nil {
		log.Warn("close database", "error", err)
	}
}

func renderOptions(cfg config.Config, rec metrics.Recorder) []render.Option {
	opts := []render.Option{render.WithRecorder(rec)}
	if cfg.UnsafeHTML {
		opts = append(opts, render.WithUnsafeHTML())
	}
	if !cfg.GFM {
		// Plain CommonMark: no tables, strikethrough or bare-URL links.
		opts = append(opts, render.WithExtensions())
	}
	return opts
}
