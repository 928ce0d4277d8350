// APWatch - Wireless Access Point Fleet Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/apwatch

package config

import "time"

// Config holds all application configuration.
type Config struct {
	GDMS     GDMSConfig     `koanf:"gdms"`
	Sync     SyncConfig     `koanf:"sync"`
	Database DatabaseConfig `koanf:"database"`
	Server   ServerConfig   `koanf:"server"`
	Security SecurityConfig `koanf:"security"`
	Stream   StreamConfig   `koanf:"stream"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// GDMSConfig configures access to the remote management platform.
type GDMSConfig struct {
	BaseURL      string        `koanf:"base_url"`
	OAuthURL     string        `koanf:"oauth_url"`
	ClientID     string        `koanf:"client_id"`
	AppID        string        `koanf:"app_id"`
	ClientSecret string        `koanf:"client_secret"`
	Secret       string        `koanf:"secret"`
	PageSize     int           `koanf:"page_size"`
	Show         string        `koanf:"show"` // "all", "1" (online only) or "0" (offline only)
	Timeout      time.Duration `koanf:"timeout"`
	RateLimit    float64       `koanf:"rate_limit"` // requests per second, 0 disables
	RateBurst    int           `koanf:"rate_burst"`
	TokenSkew    time.Duration `koanf:"token_skew"`
}

// ApplicationID returns the id used for both the token exchange and request
// signing. GDMS_CLIENT_ID wins over GDMS_APP_ID.
func (g *GDMSConfig) ApplicationID() string {
	if g.ClientID != "" {
		return g.ClientID
	}
	return g.AppID
}

// SharedSecret returns GDMS_CLIENT_SECRET, falling back to GDMS_SECRET.
func (g *GDMSConfig) SharedSecret() string {
	if g.ClientSecret != "" {
		return g.ClientSecret
	}
	return g.Secret
}

// Configured reports whether credentials for the remote platform are present.
func (g *GDMSConfig) Configured() bool {
	return g.OAuthURL != "" && g.ApplicationID() != "" && g.SharedSecret() != ""
}

// SyncConfig controls the periodic sync scheduler.
type SyncConfig struct {
	Enabled    bool          `koanf:"enabled"`
	Mode       string        `koanf:"mode"`
	Interval   time.Duration `koanf:"interval"`
	IntervalMS int64         `koanf:"interval_ms"`
	OnStart    bool          `koanf:"on_start"`
	// ReportErrorLimit caps the error list returned over HTTP.
	ReportErrorLimit int `koanf:"report_error_limit"`
}

// DatabaseConfig holds DuckDB and token store settings.
type DatabaseConfig struct {
	Path       string `koanf:"path"`
	MaxMemory  string `koanf:"max_memory"`
	Threads    int    `koanf:"threads"`
	TokenStore string `koanf:"token_store"` // "database" or "badger"
	BadgerPath string `koanf:"badger_path"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port    int           `koanf:"port"`
	Host    string        `koanf:"host"`
	Timeout time.Duration `koanf:"timeout"`
}

// SecurityConfig holds CORS and inbound rate limiting settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// StreamConfig holds event stream settings.
type StreamConfig struct {
	HeartbeatInterval time.Duration `koanf:"heartbeat_interval"`
	BufferSize        int           `koanf:"buffer_size"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}
