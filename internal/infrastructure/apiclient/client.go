// Package apiclient is the dashboard's gateway to the e-invoicing backend
// REST API. It attaches session credentials, decodes the backend envelope,
// maps failures to domain errors and guards the backend with a circuit breaker.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/facturaec/dashboard/internal/domain/shared"
	"github.com/facturaec/dashboard/internal/infrastructure/logger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// Header names sent to the backend
const (
	HeaderTenant    = "X-Tenant-ID"
	HeaderRequestID = "X-Request-ID"
)

// Bodies read into memory are bounded. File downloads get a larger limit
// since a year of sales exported to Excel outgrows the JSON one.
const (
	defaultMaxResponseSize = 16 << 20
	defaultMaxDownloadSize = 256 << 20
)

// ErrResponseTooLarge is wrapped when a backend body exceeds the client limit
var ErrResponseTooLarge = errors.New("apiclient: response body too large")

// Config holds the backend connection settings
type Config struct {
	BaseURL         string
	APIPrefix       string
	Timeout         time.Duration
	DownloadTimeout time.Duration
	UserAgent       string
	MaxResponseSize int64
	MaxDownloadSize int64
	Breaker         BreakerConfig
}

// Client calls the backend API. It implements shared.Gateway.
type Client struct {
	baseURL        *url.URL
	prefix         string
	userAgent      string
	httpClient     *http.Client
	downloadClient *http.Client
	maxResponse    int64
	maxDownload    int64
	breaker        *Breaker
	metrics        *Metrics
	logger         *zap.Logger
}

var _ shared.Gateway = (*Client)(nil)

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the HTTP client used for JSON and file calls
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
		c.downloadClient = hc
	}
}

// WithMetrics records per-call metrics
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithLogger sets the fallback logger used when the request context carries none
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// New creates a client for cfg
func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("apiclient: base URL is required")
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("apiclient: invalid base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("apiclient: base URL must be http or https, got %q", cfg.BaseURL)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.DownloadTimeout <= 0 {
		cfg.DownloadTimeout = 60 * time.Second
	}
	if cfg.MaxResponseSize <= 0 {
		cfg.MaxResponseSize = defaultMaxResponseSize
	}
	if cfg.MaxDownloadSize <= 0 {
		cfg.MaxDownloadSize = defaultMaxDownloadSize
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "facturacion-dashboard"
	}

	transport := otelhttp.NewTransport(
		&http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 20,
			IdleConnTimeout:     90 * time.Second,
		},
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return "backend " + r.Method + " " + RouteTemplate(r.URL.Path)
		}),
	)

	c := &Client{
		baseURL:        base,
		prefix:         "/" + strings.Trim(cfg.APIPrefix, "/"),
		userAgent:      cfg.UserAgent,
		httpClient:     &http.Client{Transport: transport, Timeout: cfg.Timeout},
		downloadClient: &http.Client{Transport: transport, Timeout: cfg.DownloadTimeout},
		maxResponse:    cfg.MaxResponseSize,
		maxDownload:    cfg.MaxDownloadSize,
		breaker:        NewBreaker(cfg.Breaker),
		logger:         zap.NewNop(),
	}
	if c.prefix == "/" {
		c.prefix = ""
	}
	for _, opt := range opts {
		opt(c)
	}

	c.breaker.OnStateChange(func(from, to BreakerState) {
		c.logger.Warn("Backend circuit breaker state changed",
			zap.String("from", from.String()),
			zap.String("to", to.String()),
		)
		c.metrics.BreakerChanged(to)
	})

	return c, nil
}

// BreakerState reports the circuit breaker state for readiness checks
func (c *Client) BreakerState() BreakerState {
	return c.breaker.State()
}

// Get fetches path and decodes the envelope data into out
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) (*shared.Meta, error) {
	resp, err := c.do(ctx, c.httpClient, c.maxResponse, http.MethodGet, path, query, nil, "")
	if err != nil {
		return nil, err
	}
	return decodeResponse(resp.status, resp.body, out)
}

// Post sends body as JSON and decodes the envelope data into out
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.send(ctx, http.MethodPost, path, body, out)
}

// Put sends body as JSON and decodes the envelope data into out
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.send(ctx, http.MethodPut, path, body, out)
}

// Delete removes the resource at path
func (c *Client) Delete(ctx context.Context, path string) error {
	resp, err := c.do(ctx, c.httpClient, c.maxResponse, http.MethodDelete, path, nil, nil, "")
	if err != nil {
		return err
	}
	_, err = decodeResponse(resp.status, resp.body, nil)
	return err
}

func (c *Client) send(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	contentType := ""
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("apiclient: encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
		contentType = "application/json"
	}
	resp, err := c.do(ctx, c.httpClient, c.maxResponse, method, path, nil, reader, contentType)
	if err != nil {
		return err
	}
	_, err = decodeResponse(resp.status, resp.body, out)
	return err
}

type rawResponse struct {
	status int
	header http.Header
	body   []byte
}

// do executes one call through the breaker. Transport errors and 5xx
// responses count as backend failures; client cancellation does not.
// A body longer than limit fails the call instead of being cut short.
func (c *Client) do(ctx context.Context, hc *http.Client, limit int64, method, path string, query url.Values, body io.Reader, contentType string) (*rawResponse, error) {
	route := RouteTemplate(path)
	log := logger.FromContextOr(ctx, c.logger)

	if err := c.breaker.Allow(); err != nil {
		c.metrics.Observe(ctx, method, route, 0, 0)
		return nil, shared.WrapDomainError(shared.CodeUpstreamUnavailable, shared.ErrUpstreamUnavailable.Message, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), body)
	if err != nil {
		return nil, fmt.Errorf("apiclient: build request: %w", err)
	}
	c.setHeaders(ctx, req, contentType)

	start := time.Now()
	resp, err := hc.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		if ctx.Err() == nil {
			c.breaker.Record(true)
		}
		c.metrics.Observe(ctx, method, route, 0, elapsed)
		log.Warn("Backend call failed",
			zap.String("method", method),
			zap.String("route", route),
			zap.Duration("latency", elapsed),
			zap.Error(err),
		)
		return nil, shared.WrapDomainError(shared.CodeUpstreamUnavailable, shared.ErrUpstreamUnavailable.Message, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		c.breaker.Record(ctx.Err() == nil)
		c.metrics.Observe(ctx, method, route, resp.StatusCode, elapsed)
		return nil, shared.WrapDomainError(shared.CodeUpstreamUnavailable, shared.ErrUpstreamUnavailable.Message, err)
	}
	if int64(len(data)) > limit {
		c.breaker.Record(false)
		c.metrics.Observe(ctx, method, route, resp.StatusCode, elapsed)
		log.Warn("Backend response too large",
			zap.String("method", method),
			zap.String("route", route),
			zap.Int64("limit", limit),
		)
		return nil, shared.WrapDomainError(shared.CodeUpstreamUnavailable, shared.ErrUpstreamUnavailable.Message,
			fmt.Errorf("%w: more than %d bytes", ErrResponseTooLarge, limit))
	}

	c.breaker.Record(resp.StatusCode >= 500)
	c.metrics.Observe(ctx, method, route, resp.StatusCode, elapsed)

	fields := []zap.Field{
		zap.String("method", method),
		zap.String("route", route),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", elapsed),
	}
	if resp.StatusCode >= 500 {
		log.Warn("Backend returned server error", fields...)
	} else {
		log.Debug("Backend call", fields...)
	}

	return &rawResponse{status: resp.StatusCode, header: resp.Header, body: data}, nil
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = u.Path + c.prefix + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *Client) setHeaders(ctx context.Context, req *http.Request, contentType string) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if creds, ok := CredentialsFrom(ctx); ok {
		if creds.Token != "" {
			req.Header.Set("Authorization", "Bearer "+creds.Token)
		}
		if creds.Tenant != "" {
			req.Header.Set(HeaderTenant, creds.Tenant)
		}
	}
	if id := logger.GetRequestID(ctx); id != "" {
		req.Header.Set(HeaderRequestID, id)
	}
}
