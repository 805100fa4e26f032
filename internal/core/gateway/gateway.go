// Package gateway is the single outbound HTTP path to the geospatial web
// API. Every request passes the rate limiter exactly once before it is
// sent; transient failures are retried with exponential backoff.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/geolens/geolens/internal/config"
	"github.com/geolens/geolens/internal/core/engine"
	apperrors "github.com/geolens/geolens/internal/errors"
	"github.com/geolens/geolens/internal/metrics"
	"github.com/geolens/geolens/internal/observability"
)

const snippetLimit = 200

// Gateway executes GET requests against the upstream API, injecting the
// key query parameter and normalizing failures into GatewayError.
type Gateway struct {
	BaseURL    string
	APIKey     string
	Client     *http.Client
	Limiter    *engine.QPSLimiter
	MaxRetries int
	BackoffMin time.Duration
	BackoffMax time.Duration
	Logger     *zap.Logger
}

// New builds a gateway from configuration. The rate limiter is
// constructed here, so an invalid QPS ceiling fails fast.
func New(api config.APIConfig, cfg config.GatewayConfig) (*Gateway, error) {
	limiter, err := engine.NewQPSLimiter(cfg.QPS)
	if err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Gateway{
		BaseURL:    strings.TrimSuffix(api.BaseURL, "/"),
		APIKey:     api.Key,
		Client:     &http.Client{Timeout: timeout},
		Limiter:    limiter,
		MaxRetries: cfg.MaxRetries,
		BackoffMin: cfg.BackoffMin,
		BackoffMax: cfg.BackoffMax,
	}, nil
}

// Do executes a GET against the given endpoint (for example
// "geocode/json") and decodes the JSON response body.
func (g *Gateway) Do(ctx context.Context, endpoint string, params url.Values) (map[string]any, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	target := g.BaseURL + "/" + strings.TrimPrefix(endpoint, "/")

	var decoded map[string]any
	op := func() error {
		body, _, err := g.fetch(ctx, endpoint, target, params)
		if err != nil {
			return err
		}
		decoded = nil
		if err := json.Unmarshal(body, &decoded); err != nil {
			return backoff.Permanent(&apperrors.GatewayError{
				Snippet: snippet(body),
				Err:     fmt.Errorf("decode response: %w", err),
			})
		}
		return nil
	}

	if err := backoff.Retry(op, g.newBackOff(ctx)); err != nil {
		return nil, err
	}
	return decoded, nil
}

// FetchBytes executes a rate-limited GET for a fully built URL and
// returns the raw body with its content type. Used for static map image
// downloads, which share the gateway's admission and retry policy.
func (g *Gateway) FetchBytes(ctx context.Context, rawURL string) ([]byte, string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	var (
		body        []byte
		contentType string
	)
	op := func() error {
		var err error
		body, contentType, err = g.fetch(ctx, "staticmap", rawURL, nil)
		return err
	}

	if err := backoff.Retry(op, g.newBackOff(ctx)); err != nil {
		return nil, "", err
	}
	return body, contentType, nil
}

// fetch performs one rate-limited attempt. Transient HTTP statuses come
// back as retryable errors; everything else is permanent.
func (g *Gateway) fetch(ctx context.Context, endpoint, target string, params url.Values) ([]byte, string, error) {
	waitStart := time.Now()
	if err := g.Limiter.Acquire(ctx); err != nil {
		return nil, "", backoff.Permanent(&apperrors.GatewayError{Err: fmt.Errorf("rate limiter: %w", err)})
	}
	metrics.RecordLimiterWait(time.Since(waitStart))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, "", backoff.Permanent(&apperrors.GatewayError{Err: err})
	}

	query := req.URL.Query()
	for key, values := range params {
		for _, value := range values {
			query.Add(key, value)
		}
	}
	if g.APIKey != "" {
		query.Set("key", g.APIKey)
	}
	req.URL.RawQuery = query.Encode()

	resp, err := g.Client.Do(req)
	if err != nil {
		// Network-level failures (timeouts, refused connections) are
		// worth retrying.
		metrics.RecordGatewayRequest(endpoint, 0)
		return nil, "", &apperrors.GatewayError{Transient: true, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		metrics.RecordGatewayRequest(endpoint, 0)
		return nil, "", &apperrors.GatewayError{Transient: true, Err: err}
	}

	metrics.RecordGatewayRequest(endpoint, resp.StatusCode)
	g.logger().Debug("gateway request",
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode))

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, resp.Header.Get("Content-Type"), nil
	case transientStatus(resp.StatusCode):
		return nil, "", &apperrors.GatewayError{Status: resp.StatusCode, Snippet: snippet(body), Transient: true}
	default:
		return nil, "", backoff.Permanent(&apperrors.GatewayError{Status: resp.StatusCode, Snippet: snippet(body)})
	}
}

func (g *Gateway) newBackOff(ctx context.Context) backoff.BackOff {
	eb := backoff.NewExponentialBackOff()
	if g.BackoffMin > 0 {
		eb.InitialInterval = g.BackoffMin
	}
	if g.BackoffMax > 0 {
		eb.MaxInterval = g.BackoffMax
	}
	eb.MaxElapsedTime = 0

	var b backoff.BackOff = eb
	if g.MaxRetries > 0 {
		b = backoff.WithMaxRetries(eb, uint64(g.MaxRetries))
	}
	b.Reset()
	return backoff.WithContext(b, ctx)
}

func (g *Gateway) logger() *zap.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return observability.Logger()
}

func transientStatus(code int) bool {
	switch code {
	case http.StatusRequestTimeout,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) <= snippetLimit {
		return s
	}
	// Back up to a rune boundary so the cut never splits a multi-byte
	// character.
	cut := snippetLimit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
