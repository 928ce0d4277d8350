// APWatch - Wireless Access Point Fleet Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/apwatch

package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateGDMS(); err != nil {
		return err
	}
	if err := c.validateSync(); err != nil {
		return err
	}
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateGDMS() error {
	u, err := url.Parse(c.GDMS.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("GDMS_BASE must be an absolute URL, got %q", c.GDMS.BaseURL)
	}
	if c.GDMS.OAuthURL != "" {
		if u, err := url.Parse(c.GDMS.OAuthURL); err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("GDMS_OAUTH_URL must be an absolute URL, got %q", c.GDMS.OAuthURL)
		}
	}
	if c.GDMS.PageSize < 1 || c.GDMS.PageSize > 1000 {
		return fmt.Errorf("GDMS_PAGE_SIZE must be between 1 and 1000, got %d", c.GDMS.PageSize)
	}
	switch c.GDMS.Show {
	case "all", "1", "0":
	default:
		return fmt.Errorf("GDMS_SHOW must be one of all, 1, 0, got %q", c.GDMS.Show)
	}
	if c.GDMS.Timeout <= 0 {
		return errors.New("GDMS_TIMEOUT must be positive")
	}
	if c.GDMS.RateLimit < 0 {
		return errors.New("GDMS_RATE_LIMIT must not be negative")
	}
	if c.GDMS.TokenSkew < 0 {
		return errors.New("GDMS_TOKEN_SKEW must not be negative")
	}
	return nil
}

func (c *Config) validateSync() error {
	switch c.Sync.Mode {
	case "full", "status":
	default:
		return fmt.Errorf("SYNC_MODE must be full or status, got %q", c.Sync.Mode)
	}
	if c.Sync.Enabled && c.Sync.Interval < 10*time.Second {
		return fmt.Errorf("SYNC_INTERVAL must be at least 10s, got %s", c.Sync.Interval)
	}
	if c.Sync.ReportErrorLimit < 1 {
		return errors.New("SYNC_REPORT_ERROR_LIMIT must be at least 1")
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return errors.New("DUCKDB_PATH is required")
	}
	switch c.Database.TokenStore {
	case "database":
	case "badger":
		if c.Database.BadgerPath == "" {
			return errors.New("BADGER_PATH is required when TOKEN_STORE=badger")
		}
	default:
		return fmt.Errorf("TOKEN_STORE must be database or badger, got %q", c.Database.TokenStore)
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Stream.HeartbeatInterval <= 0 {
		return errors.New("STREAM_HEARTBEAT must be positive")
	}
	if c.Stream.BufferSize < 1 {
		return errors.New("STREAM_BUFFER_SIZE must be at least 1")
	}
	if !c.Security.RateLimitDisabled && (c.Security.RateLimitReqs < 1 || c.Security.RateLimitWindow <= 0) {
		return errors.New("RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "json", "console":
		return nil
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
}
