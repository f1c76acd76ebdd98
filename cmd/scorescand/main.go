package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gofrs/flock"

	"scorescan/internal/config"
	"scorescan/internal/daemon"
	"scorescan/internal/logging"
	"scorescan/internal/pipeline"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.New(logging.Options{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		LogFile: cfg.Paths.LogFile,
	})
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	if lockPath := cfg.Paths.LockFile; lockPath != "" {
		if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
			logger.Error("create lock directory", logging.Error(err))
			os.Exit(1)
		}
		lock := flock.New(lockPath)
		locked, err := lock.TryLock()
		if err != nil {
			logger.Error("acquire instance lock", logging.Error(err))
			os.Exit(1)
		}
		if !locked {
			logger.Error("another scorescand instance is already running",
				logging.String("lock_file", lockPath))
			os.Exit(1)
		}
		defer lock.Unlock() //nolint:errcheck
	}

	scan, err := pipeline.Build(cfg, logger)
	if err != nil {
		logger.Error("assemble scan pipeline", logging.Error(err))
		os.Exit(1)
	}

	server, err := daemon.New(cfg.Paths.APIBind, scan, cfg.Scanner.DefaultInstrument, logger)
	if err != nil {
		logger.Error("create api server", logging.Error(err))
		os.Exit(1)
	}
	if err := server.Start(ctx); err != nil {
		logger.Error("start api server", logging.Error(err))
		os.Exit(1)
	}

	<-ctx.Done()
	server.Stop()
	logger.Info("scorescand shutting down")
}
