// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/cloudhost/hostcms/internal/config"
	"github.com/cloudhost/hostcms/internal/localstore"
	"github.com/cloudhost/hostcms/internal/logging"
	"github.com/cloudhost/hostcms/internal/scheduler"
	"github.com/cloudhost/hostcms/internal/store"
	"github.com/cloudhost/hostcms/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

var versionInfo = version.Info{
	Version:   appVersion,
	GitCommit: appGitCommit,
	BuildTime: appBuildTime,
}

func main() {
	// Parse CLI flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "hostcms - CloudHost CMS core\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  HOSTCMS_DATA_DIR               Data directory for the file backend (default: ./data)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  HOSTCMS_STORAGE                Storage backend: file|memory|redis (default: file)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  HOSTCMS_REDIS_URL              Redis URL, required for the redis backend\n")
		_, _ = fmt.Fprintf(os.Stderr, "  HOSTCMS_LOG_LEVEL              Log level: debug|info|warn|error (default: info)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  HOSTCMS_ENV                    Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  HOSTCMS_COMPACT_SCHEDULE       Maintenance cron expression (default: 0 3 * * *)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  HOSTCMS_EVENT_RETENTION_DAYS   Audit event retention in days (default: 30)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Println(versionInfo)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Setup logger
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Ensure data directory exists for the file backend
	if cfg.Storage == config.StorageFile {
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
	}

	storage, err := localstore.New(localstore.Options{
		Backend:  cfg.Storage,
		Dir:      cfg.DataDir,
		RedisURL: cfg.RedisURL,
	}, logger)
	if err != nil {
		return fmt.Errorf("opening local storage: %w", err)
	}
	defer func() {
		if err := storage.Close(); err != nil {
			slog.Error("error closing local storage", "error", err)
		}
	}()

	// Open the store: restores the persisted image or seeds a fresh
	// database, in the background.
	slog.Info("opening store", "backend", cfg.Storage)
	st := store.Open(storage, store.WithLogger(logger))
	defer func() {
		if err := st.Close(); err != nil {
			slog.Error("error closing store", "error", err)
		}
	}()

	readyCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := st.WaitReady(readyCtx); err != nil {
		return fmt.Errorf("initializing store: %w", err)
	}
	slog.Info("store ready")

	// Upgrade logger to also write WARN and ERROR logs to the event log
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewEventLogHandler(textHandler, st))
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	// Start maintenance scheduler
	sched := scheduler.New(st, logger)
	sched.SetSchedule(cfg.CompactSchedule)
	sched.SetEventRetention(time.Duration(cfg.EventRetentionDays) * 24 * time.Hour)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	slog.Info("hostcms started",
		"version", versionInfo.Version,
		"env", cfg.Env,
		"storage", cfg.Storage,
	)

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	return nil
}
