package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/debugtoolbar/debugtoolbar/internal/api"
	"github.com/debugtoolbar/debugtoolbar/internal/auth"
	"github.com/debugtoolbar/debugtoolbar/internal/config"
	"github.com/debugtoolbar/debugtoolbar/internal/store"
	"github.com/debugtoolbar/debugtoolbar/internal/toolbar"
	"github.com/debugtoolbar/debugtoolbar/internal/ws"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	slog.Info("debugtoolbar starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	tb := cfg.Toolbar
	slog.Info("config loaded",
		"enabled", tb.Enabled,
		"retention", tb.Retention,
		"var_dir", tb.VarDir,
		"area_code", tb.AreaCode,
		"http_port", tb.HTTPPort,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	gate := config.NewGate(tb)
	st := store.New(store.NewFSBackend(tb.VarDir))
	if loc, err := st.Location(); err != nil {
		// Not fatal: the shop keeps serving, toolbars are simply absent.
		slog.Warn("toolbar store unavailable", "err", err)
	} else {
		slog.Info("toolbar store ready", "location", loc)
	}

	hub := ws.New(st, tb.StreamInterval)
	mw := toolbar.New(st, gate, tb.AreaCode)
	mw.OnSaved = hub.Notify

	guard := auth.APIKey(tb.API.EffectiveHeader(), tb.API.Key())

	mux := http.NewServeMux()
	mux.Handle("/api/", guard(api.New(st, gate)))
	mux.Handle("/ws/toolbars", guard(hub))
	mux.Handle("/", mw.Wrap(shop()))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", tb.HTTPPort),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})
	g.Go(func() error {
		err := config.Watch(gctx, *configPath, func(updated *config.Config) {
			gate.Update(updated.Toolbar)
		})
		if err != nil {
			// Hot reload is optional; keep serving with the startup config.
			slog.Error("config watcher stopped", "err", err)
		}
		return nil
	})
	g.Go(func() error {
		slog.Info("HTTP server listening", "port", tb.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("debugtoolbar shutting down")
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("debugtoolbar stopped", "err", err)
		os.Exit(1)
	}
}
