// APWatch - Wireless Access Point Fleet Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/apwatch

package gdms

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/apwatch/internal/logging"
	"github.com/tomtom215/apwatch/internal/metrics"
	"github.com/tomtom215/apwatch/internal/models"
)

const (
	networkListPath = "/oapi/v1.0.0/network/list"
	deviceListPath  = "/oapi/v1.0.0/ap/list"

	// DefaultPageSize is used when ClientConfig.PageSize is not positive.
	DefaultPageSize = 200

	// maxPages bounds a single listing in case the remote pagination
	// metadata never terminates.
	maxPages = 10000

	// maxReadBody limits how much of any response body is read.
	maxReadBody = 64 * 1024 * 1024
)

// ClientConfig configures the signed listing client.
type ClientConfig struct {
	BaseURL   string
	AppID     string
	Secret    string
	PageSize  int
	Show      string
	Timeout   time.Duration
	RateLimit float64 // requests per second, 0 disables
	RateBurst int
}

// Client lists networks and devices from the remote platform. Every request
// is signed with the current access token and the shared secret.
type Client struct {
	cfg     ClientConfig
	tokens  TokenSource
	http    HTTPDoer
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[*envelope]
	now     func() time.Time
}

// NewClient creates a client. httpClient may be nil.
func NewClient(cfg ClientConfig, tokens TokenSource, httpClient HTTPDoer) *Client {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.Show == "" {
		cfg.Show = "all"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	c := &Client{
		cfg:     cfg,
		tokens:  tokens,
		http:    httpClient,
		breaker: newBreaker(),
		now:     time.Now,
	}
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return c
}

// envelope is the common response wrapper of the listing endpoints.
type envelope struct {
	RetCode any `json:"retCode"`
	Msg     any `json:"msg"`
	Data    struct {
		Result    []map[string]any `json:"result"`
		TotalPage any              `json:"totalPage"`
		Total     any              `json:"total"`
	} `json:"data"`
}

// remoteError returns the stringified retCode when it signals a failure.
func (e *envelope) remoteError() (string, bool) {
	if e.RetCode == nil {
		return "", false
	}
	code := strings.TrimSpace(stringify(e.RetCode))
	if code == "" || code == "0" {
		return "", false
	}
	return code, true
}

// ListNetworks returns every network visible to the configured application.
func (c *Client) ListNetworks(ctx context.Context) ([]models.Network, error) {
	var networks []models.Network
	err := c.paginate(ctx, networkListPath, func(pageNum int) map[string]any {
		return map[string]any{
			"search":   "",
			"order":    "id",
			"pageNum":  pageNum,
			"pageSize": c.cfg.PageSize,
		}
	}, func(items []map[string]any) {
		for _, raw := range items {
			if n, ok := normalizeNetwork(raw); ok {
				networks = append(networks, n)
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return networks, nil
}

// ListDevices returns the normalized devices of one network. Records without
// a resolvable identifier are dropped.
func (c *Client) ListDevices(ctx context.Context, networkID, networkName string) ([]models.RemoteDevice, error) {
	network := models.Network{ID: networkID, Name: networkName}
	var devices []models.RemoteDevice
	err := c.paginate(ctx, deviceListPath, func(pageNum int) map[string]any {
		return map[string]any{
			"networkId": networkID,
			"search":    "",
			"order":     "id",
			"pageNum":   pageNum,
			"pageSize":  c.cfg.PageSize,
			"filter":    map[string]any{"showType": c.cfg.Show},
		}
	}, func(items []map[string]any) {
		for _, raw := range items {
			if dev, ok := Normalize(network, raw); ok {
				devices = append(devices, dev)
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return devices, nil
}

// paginate fetches pages starting at 1 until hasMore says stop. Any failed
// page fails the whole listing.
func (c *Client) paginate(ctx context.Context, path string, body func(pageNum int) map[string]any, collect func([]map[string]any)) error {
	for pageNum := 1; ; pageNum++ {
		if pageNum > maxPages {
			return &APIError{Endpoint: path, Err: fmt.Errorf("pagination did not terminate after %d pages", maxPages)}
		}

		env, err := c.postSigned(ctx, path, body(pageNum))
		if err != nil {
			return err
		}
		metrics.GDMSPagesFetched.WithLabelValues(path).Inc()
		collect(env.Data.Result)

		info := pageInfo{
			TotalPage: toInt(env.Data.TotalPage),
			Total:     toInt(env.Data.Total),
			Received:  len(env.Data.Result),
		}
		if !hasMore(pageNum, c.cfg.PageSize, info) {
			return nil
		}
	}
}

// postSigned sends one signed POST and decodes the envelope.
func (c *Client) postSigned(ctx context.Context, path string, payload map[string]any) (*envelope, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &APIError{Endpoint: path, Err: err}
		}
	}

	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &APIError{Endpoint: path, Err: fmt.Errorf("encode request: %w", err)}
	}
	ts := strconv.FormatInt(c.now().UnixMilli(), 10)
	sig := Sign(body, token, c.cfg.AppID, c.cfg.Secret, ts)
	reqURL := signedURL(c.cfg.BaseURL, path, token, c.cfg.AppID, ts, sig)

	return c.guarded(path, func() (*envelope, error) {
		return c.do(ctx, path, reqURL, body)
	})
}

func (c *Client) do(ctx context.Context, path, reqURL string, body []byte) (*envelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return nil, &APIError{Endpoint: path, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordGDMSRequest(path, "transport_error", time.Since(start))
		return nil, &APIError{Endpoint: path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxReadBody))
	if err != nil {
		metrics.RecordGDMSRequest(path, "transport_error", time.Since(start))
		return nil, &APIError{Endpoint: path, Status: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.RecordGDMSRequest(path, "http_error", time.Since(start))
		return nil, &APIError{Endpoint: path, Status: resp.StatusCode, Body: truncate(string(raw), maxErrorBody)}
	}

	var env envelope
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&env); err != nil {
		metrics.RecordGDMSRequest(path, "http_error", time.Since(start))
		return nil, &APIError{Endpoint: path, Status: resp.StatusCode, Body: truncate(string(raw), maxErrorBody), Err: fmt.Errorf("decode response: %w", err)}
	}

	if code, failed := env.remoteError(); failed {
		metrics.RecordGDMSRequest(path, "remote_error", time.Since(start))
		logging.Ctx(ctx).Warn().Str("endpoint", path).Str("ret_code", code).Msg("GDMS reported an error")
		return nil, &APIError{Endpoint: path, Status: resp.StatusCode, Code: code, Message: stringify(env.Msg)}
	}

	metrics.RecordGDMSRequest(path, "success", time.Since(start))
	return &env, nil
}
