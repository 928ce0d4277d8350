// APWatch - Wireless Access Point Fleet Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/apwatch

package gdms

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/apwatch/internal/logging"
	"github.com/tomtom215/apwatch/internal/metrics"
	"github.com/tomtom215/apwatch/internal/models"
)

const (
	// DefaultTokenSkew is how long before expiry a token stops being used.
	DefaultTokenSkew = 60 * time.Second

	// defaultTokenTTL applies when the token response omits expires_in.
	defaultTokenTTL = 3600 * time.Second
)

// HTTPDoer is the subset of *http.Client used here.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// TokenStore persists the singleton token slot.
type TokenStore interface {
	LoadToken(ctx context.Context) (*models.Token, error)
	SaveToken(ctx context.Context, tok models.Token) error
}

// TokenSource supplies access tokens to the signed client.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// TokenCacheConfig configures the credential exchange.
type TokenCacheConfig struct {
	OAuthURL     string
	ClientID     string
	ClientSecret string
	Skew         time.Duration
}

// TokenInfo describes the current token without exposing it.
type TokenInfo struct {
	HasToken     bool       `json:"hasToken"`
	ExpiresAt    *time.Time `json:"expiresAt,omitempty"`
	ExpiresInSec *int64     `json:"expiresInSec,omitempty"`
	Fresh        bool       `json:"fresh"`
	Source       string     `json:"source"` // "memory", "store" or "none"
}

// TokenCache keeps one access token valid for all callers. Refreshes inside
// the process are serialized; across processes the persisted slot is shared
// without a lock, so two back-to-back refreshes are possible and harmless.
type TokenCache struct {
	cfg   TokenCacheConfig
	store TokenStore
	http  HTTPDoer
	now   func() time.Time

	mu      sync.RWMutex
	current *models.Token

	refreshMu sync.Mutex
}

// NewTokenCache creates a cache. store may be nil for a memory-only cache.
func NewTokenCache(cfg TokenCacheConfig, store TokenStore, httpClient HTTPDoer) *TokenCache {
	if cfg.Skew <= 0 {
		cfg.Skew = DefaultTokenSkew
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &TokenCache{
		cfg:   cfg,
		store: store,
		http:  httpClient,
		now:   time.Now,
	}
}

func (c *TokenCache) memoryToken() *models.Token {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

func (c *TokenCache) setMemoryToken(tok *models.Token) {
	c.mu.Lock()
	c.current = tok
	c.mu.Unlock()
}

// AccessToken returns a token that stays valid for at least the skew window.
func (c *TokenCache) AccessToken(ctx context.Context) (string, error) {
	if tok := c.memoryToken(); tok.FreshAt(c.now(), c.cfg.Skew) {
		metrics.GDMSTokenLookups.WithLabelValues("memory").Inc()
		return tok.AccessToken, nil
	}

	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	// Another caller may have refreshed while we waited.
	if tok := c.memoryToken(); tok.FreshAt(c.now(), c.cfg.Skew) {
		metrics.GDMSTokenLookups.WithLabelValues("memory").Inc()
		return tok.AccessToken, nil
	}

	if c.store != nil {
		stored, err := c.store.LoadToken(ctx)
		if err != nil {
			logging.Ctx(ctx).Warn().Err(err).Msg("Failed to load persisted token, refreshing")
		} else if stored.FreshAt(c.now(), c.cfg.Skew) {
			c.setMemoryToken(stored)
			metrics.GDMSTokenLookups.WithLabelValues("store").Inc()
			return stored.AccessToken, nil
		}
	}

	metrics.GDMSTokenLookups.WithLabelValues("refresh").Inc()
	tok, err := c.refreshLocked(ctx, false)
	if err != nil {
		return "", err
	}
	return tok.AccessToken, nil
}

// ForceRefresh exchanges credentials for a new token regardless of the
// cached state.
func (c *TokenCache) ForceRefresh(ctx context.Context) (models.Token, error) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()
	return c.refreshLocked(ctx, true)
}

// refreshLocked must be called with refreshMu held.
func (c *TokenCache) refreshLocked(ctx context.Context, forced bool) (models.Token, error) {
	tok, err := c.exchange(ctx)
	metrics.RecordTokenRefresh(forced, err)
	if err != nil {
		return models.Token{}, err
	}

	if c.store != nil {
		if err := c.store.SaveToken(ctx, tok); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Msg("Failed to persist refreshed token")
		}
	}
	c.setMemoryToken(&tok)

	logging.Ctx(ctx).Info().
		Bool("forced", forced).
		Time("expires_at", tok.ExpiresAt).
		Msg("GDMS access token refreshed")
	return tok, nil
}

type tokenResponse struct {
	AccessToken string          `json:"access_token"`
	Token       string          `json:"token"`
	ExpiresIn   json.RawMessage `json:"expires_in"`
}

// exchange performs the client_credentials grant.
func (c *TokenCache) exchange(ctx context.Context) (models.Token, error) {
	if c.cfg.OAuthURL == "" || c.cfg.ClientID == "" || c.cfg.ClientSecret == "" {
		return models.Token{}, &AuthError{Err: ErrMissingCredentials}
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.cfg.ClientID)
	form.Set("client_secret", c.cfg.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.OAuthURL, strings.NewReader(form.Encode()))
	if err != nil {
		return models.Token{}, &AuthError{Err: fmt.Errorf("build token request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	issuedAt := c.now()
	resp, err := c.http.Do(req)
	if err != nil {
		return models.Token{}, &AuthError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return models.Token{}, &AuthError{Status: resp.StatusCode, Err: fmt.Errorf("read token response: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return models.Token{}, &AuthError{Status: resp.StatusCode, Body: truncate(string(body), maxErrorBody)}
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return models.Token{}, &AuthError{Err: fmt.Errorf("decode token response: %w", err)}
	}
	access := tr.AccessToken
	if access == "" {
		access = tr.Token
	}
	if access == "" {
		return models.Token{}, &AuthError{Err: fmt.Errorf("token response missing access_token")}
	}

	ttl := defaultTokenTTL
	if secs := parseExpiresIn(tr.ExpiresIn); secs > 0 {
		ttl = time.Duration(secs) * time.Second
	}
	return models.Token{AccessToken: access, ExpiresAt: issuedAt.Add(ttl).UTC()}, nil
}

// parseExpiresIn accepts a number or a numeric string.
func parseExpiresIn(raw json.RawMessage) int64 {
	if len(raw) == 0 {
		return 0
	}
	var v any
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return 0
	}
	return int64(toInt(v))
}

// Info reports on the cached token without triggering a refresh.
func (c *TokenCache) Info(ctx context.Context) TokenInfo {
	tok := c.memoryToken()
	source := "memory"
	if tok == nil && c.store != nil {
		stored, err := c.store.LoadToken(ctx)
		if err != nil {
			logging.Ctx(ctx).Warn().Err(err).Msg("Failed to load persisted token")
		}
		tok, source = stored, "store"
	}
	if tok == nil {
		return TokenInfo{Source: "none"}
	}

	now := c.now()
	exp := tok.ExpiresAt
	secs := int64(exp.Sub(now) / time.Second)
	if secs < 0 {
		secs = 0
	}
	return TokenInfo{
		HasToken:     true,
		ExpiresAt:    &exp,
		ExpiresInSec: &secs,
		Fresh:        tok.FreshAt(now, c.cfg.Skew),
		Source:       source,
	}
}
