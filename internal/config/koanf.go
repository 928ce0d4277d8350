// APWatch - Wireless Access Point Fleet Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/apwatch

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths searched for a config file, in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/apwatch/config.yaml",
	"/etc/apwatch/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		GDMS: GDMSConfig{
			BaseURL:   "https://www.gwn.cloud",
			PageSize:  200,
			Show:      "all",
			Timeout:   30 * time.Second,
			RateLimit: 0,
			RateBurst: 1,
			TokenSkew: 60 * time.Second,
		},
		Sync: SyncConfig{
			Enabled:          true,
			Mode:             "status",
			Interval:         5 * time.Minute,
			OnStart:          false,
			ReportErrorLimit: 50,
		},
		Database: DatabaseConfig{
			Path:       "/data/apwatch.duckdb",
			MaxMemory:  "512MB",
			Threads:    0,
			TokenStore: "database",
			BadgerPath: "/data/token",
		},
		Server: ServerConfig{
			Port:    3000,
			Host:    "0.0.0.0",
			Timeout: 30 * time.Second,
		},
		Security: SecurityConfig{
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   300,
			RateLimitWindow: time.Minute,
		},
		Stream: StreamConfig{
			HeartbeatInterval: 20 * time.Second,
			BufferSize:        64,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration from defaults, the optional config file and
// the environment, then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	cfg.applyDerived()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// applyDerived resolves settings that are expressed in more than one way.
func (c *Config) applyDerived() {
	if c.Sync.IntervalMS > 0 {
		c.Sync.Interval = time.Duration(c.Sync.IntervalMS) * time.Millisecond
	}
	c.GDMS.BaseURL = strings.TrimRight(c.GDMS.BaseURL, "/")
	c.Sync.Mode = strings.ToLower(strings.TrimSpace(c.Sync.Mode))
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields splits comma-separated env values for slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

var envMappings = map[string]string{
	"gdms_base":             "gdms.base_url",
	"gdms_oauth_url":        "gdms.oauth_url",
	"gdms_client_id":        "gdms.client_id",
	"gdms_app_id":           "gdms.app_id",
	"gdms_client_secret":    "gdms.client_secret",
	"gdms_secret":           "gdms.secret",
	"gdms_page_size":        "gdms.page_size",
	"gdms_show":             "gdms.show",
	"gdms_timeout":          "gdms.timeout",
	"gdms_rate_limit":       "gdms.rate_limit",
	"gdms_rate_burst":       "gdms.rate_burst",
	"gdms_token_skew":       "gdms.token_skew",
	"gdms_sync_interval_ms": "sync.interval_ms",

	"sync_enabled":            "sync.enabled",
	"sync_mode":               "sync.mode",
	"sync_interval":           "sync.interval",
	"sync_on_start":           "sync.on_start",
	"sync_report_error_limit": "sync.report_error_limit",

	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",
	"token_store":       "database.token_store",
	"badger_path":       "database.badger_path",

	"http_port":      "server.port",
	"http_host":      "server.host",
	"server_timeout": "server.timeout",

	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_requests",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	"stream_heartbeat":   "stream.heartbeat_interval",
	"stream_buffer_size": "stream.buffer_size",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps environment variable names to koanf paths.
// Unmapped variables return "" and are skipped.
//
//   - GDMS_BASE -> gdms.base_url
//   - GDMS_SYNC_INTERVAL_MS -> sync.interval_ms
//   - HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
