package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/previewer-dev/previewer/frontend/internal/router"
	"github.com/previewer-dev/previewer/frontend/internal/setup"
	"github.com/previewer-dev/previewer/shared/config"
	"github.com/previewer-dev/previewer/shared/logger"
)

const (
	readTimeout     = 5 * time.Second
	idleTimeout     = 60 * time.Second
	shutdownTimeout = 10 * time.Second
)

func main() {
	var configFolder string
	flag.StringVar(&configFolder, "config_folder", "config", "path to folder with configs")
	flag.Parse()

	cfg := config.MustLoad(configFolder)
	logger.Initialize(cfg.Public.Log.Level, cfg.Public.Log.JSON)

	deps, err := setup.SetupDependencies(cfg)
	if err != nil {
		logger.Log.Error("failed to set up dependencies", "error", err)
		os.Exit(1)
	}

	server := configureServer(cfg.Public, router.SetupRouter(deps))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Log.Info("starting previewer", "addr", server.Addr, "results_root", cfg.Public.Results.DefaultRoot)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("graceful shutdown failed", "error", err)
	}
}

func configureServer(public config.Public, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:        ":" + public.ListenPort,
		Handler:     handler,
		ReadTimeout: readTimeout,
		// content responses wait on the results service
		WriteTimeout: public.Results.Timeout + readTimeout,
		IdleTimeout:  idleTimeout,
	}
}
