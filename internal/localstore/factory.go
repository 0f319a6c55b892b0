// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package localstore

import (
	"fmt"
	"log/slog"
)

// Backend names accepted by New.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// Options configures the storage factory.
type Options struct {
	// Backend selects the implementation: memory, file or redis.
	Backend string
	// Dir is the root directory for the file backend.
	Dir string
	// RedisURL and RedisPrefix configure the redis backend.
	RedisURL    string
	RedisPrefix string
}

// New creates a Storage for the configured backend.
func New(opts Options, logger *slog.Logger) (Storage, error) {
	switch opts.Backend {
	case BackendMemory:
		logger.Info("using in-memory local storage")
		return NewMemory(), nil
	case BackendFile, "":
		logger.Info("using file local storage", "dir", opts.Dir)
		return NewFile(opts.Dir)
	case BackendRedis:
		logger.Info("using redis local storage", "prefix", opts.RedisPrefix)
		return NewRedis(opts.RedisURL, opts.RedisPrefix)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}
