// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Storage backend names accepted in HOSTCMS_STORAGE.
const (
	StorageMemory = "memory"
	StorageFile   = "file"
	StorageRedis  = "redis"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DataDir  string `env:"HOSTCMS_DATA_DIR" envDefault:"./data"`
	Env      string `env:"HOSTCMS_ENV" envDefault:"development"`
	LogLevel string `env:"HOSTCMS_LOG_LEVEL" envDefault:"info"`

	// Storage configuration. The key-value backend holds the serialized
	// database image, the admin session and the builder drafts.
	Storage  string `env:"HOSTCMS_STORAGE" envDefault:"file"`
	RedisURL string `env:"HOSTCMS_REDIS_URL"` // Required when Storage is "redis"

	// Maintenance configuration
	CompactSchedule    string `env:"HOSTCMS_COMPACT_SCHEDULE" envDefault:"0 3 * * *"`
	EventRetentionDays int    `env:"HOSTCMS_EVENT_RETENTION_DAYS" envDefault:"30"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	switch cfg.Storage {
	case StorageMemory, StorageFile:
	case StorageRedis:
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("HOSTCMS_REDIS_URL is required when HOSTCMS_STORAGE is %q", StorageRedis)
		}
	default:
		return nil, fmt.Errorf("unknown storage backend %q (want %s, %s or %s)",
			cfg.Storage, StorageMemory, StorageFile, StorageRedis)
	}

	if cfg.EventRetentionDays < 1 {
		return nil, fmt.Errorf("HOSTCMS_EVENT_RETENTION_DAYS must be positive, got %d", cfg.EventRetentionDays)
	}

	return cfg, nil
}
