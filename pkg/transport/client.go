package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/Tunhoclaptrinh/Sen-App/pkg/resource"
)

const (
	instrumentationName = "github.com/Tunhoclaptrinh/Sen-App/pkg/transport"

	// RequestIDHeader carries a per-request identifier for log correlation.
	RequestIDHeader = "X-Request-ID"

	maxBodyBytes = 8 << 20
)

// Client implements resource.Transport over HTTP with JSON bodies.
//
// The base URL is the only mutable state; it can be changed at runtime with
// SetBaseURL, e.g. when the user switches backend in settings.
type Client struct {
	config         *Config
	client         *http.Client
	tokens         TokenStore
	logger         hclog.Logger
	onUnauthorized func(ctx context.Context)

	tracer          trace.Tracer
	meterProvider   metric.MeterProvider
	requestCounter  metric.Int64Counter
	requestDuration metric.Float64Histogram

	mu      sync.RWMutex
	baseURL string
}

// Compile-time check
var _ resource.Transport = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger hclog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTokenStore sets where the Bearer token is read from. It takes
// precedence over Config.AuthToken.
func WithTokenStore(store TokenStore) Option {
	return func(c *Client) {
		c.tokens = store
	}
}

// WithHTTPClient replaces the HTTP client built from Config.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

// WithUnauthorizedHook registers fn to run after a 401 response has cleared
// the stored token.
func WithUnauthorizedHook(fn func(ctx context.Context)) Option {
	return func(c *Client) {
		c.onUnauthorized = fn
	}
}

// WithTracerProvider sets the OpenTelemetry tracer provider. Defaults to the
// global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) {
		c.tracer = tp.Tracer(instrumentationName)
	}
}

// WithMeterProvider sets the OpenTelemetry meter provider. Defaults to the
// global provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(c *Client) {
		c.meterProvider = mp
	}
}

// New creates an HTTP transport.
func New(cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid transport config: %w", err)
	}

	c := &Client{
		config:  cfg,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.client == nil {
		c.client = cfg.NewHTTPClient()
	}
	if c.tokens == nil {
		c.tokens = StaticToken(cfg.AuthToken)
	}
	if c.logger == nil {
		c.logger = hclog.NewNullLogger()
	}
	c.logger = c.logger.Named("transport")
	if c.tracer == nil {
		c.tracer = otel.GetTracerProvider().Tracer(instrumentationName)
	}

	if c.meterProvider == nil {
		c.meterProvider = otel.GetMeterProvider()
	}
	if err := c.initMetrics(c.meterProvider); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Client) initMetrics(mp metric.MeterProvider) error {
	meter := mp.Meter(instrumentationName)

	counter, err := meter.Int64Counter(
		"sen.client.requests",
		metric.WithDescription("Number of HTTP requests sent to the backend"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create request counter: %w", err)
	}

	duration, err := meter.Float64Histogram(
		"sen.client.request.duration",
		metric.WithDescription("Duration of HTTP requests sent to the backend"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return fmt.Errorf("failed to create request duration histogram: %w", err)
	}

	c.requestCounter = counter
	c.requestDuration = duration
	return nil
}

// BaseURL returns the current base URL.
func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL
}

// SetBaseURL points the client at another backend.
func (c *Client) SetBaseURL(baseURL string) error {
	baseURL, err := parseBaseURL(baseURL)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.baseURL = baseURL
	c.logger.Info("base URL changed", "base_url", c.baseURL)
	return nil
}

// Get performs a GET request with params encoded as the query string.
func (c *Client) Get(ctx context.Context, path string, params resource.NormalizedQuery, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, params, nil, out)
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.doRequest(ctx, http.MethodPost, path, nil, body, out)
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.doRequest(ctx, http.MethodPut, path, nil, body, out)
}

// Patch performs a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.doRequest(ctx, http.MethodPatch, path, nil, body, out)
}

// Delete performs a DELETE request and discards the response body.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.doRequest(ctx, http.MethodDelete, path, nil, nil, nil)
}

// doRequest executes an HTTP request, retrying network failures and 5xx
// responses when MaxRetries is set.
func (c *Client) doRequest(ctx context.Context, method, path string, params resource.NormalizedQuery, body, out any) error {
	endpoint, err := c.buildURL(path, params)
	if err != nil {
		return &resource.TransportError{Method: method, Path: path, Message: "invalid request URL", Err: err}
	}

	var bodyBytes []byte
	if body != nil {
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			return &resource.TransportError{Method: method, Path: path, Message: "failed to marshal request body", Err: err}
		}
	}

	ctx, span := c.tracer.Start(ctx, method+" "+path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
		))
	defer span.End()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.config.RetryDelay
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(c.config.MaxRetries)), ctx)

	attempt := 0
	err = backoff.RetryNotify(func() error {
		attempt++
		return c.attempt(ctx, method, path, endpoint, bodyBytes, out)
	}, policy, func(err error, wait time.Duration) {
		c.logger.Warn("retrying request",
			"method", method,
			"url", endpoint,
			"attempt", attempt,
			"wait", wait,
			"error", err)
	})
	if err != nil {
		// The retry loop reports a cancelled context on its own.
		var transportErr *resource.TransportError
		if !errors.As(err, &transportErr) {
			err = &resource.TransportError{Method: method, Path: path, Err: err}
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// attempt sends one request. Errors that must not be retried are wrapped with
// backoff.Permanent.
func (c *Client) attempt(ctx context.Context, method, path, endpoint string, bodyBytes []byte, out any) error {
	var bodyReader io.Reader
	if bodyBytes != nil {
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return backoff.Permanent(&resource.TransportError{Method: method, Path: path, Message: "failed to create request", Err: err})
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return backoff.Permanent(&resource.TransportError{Method: method, Path: path, Message: "failed to load auth token", Err: err})
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if bodyBytes != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("sending request",
		"method", method,
		"url", endpoint,
		"request_id", requestID)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.record(ctx, method, 0, start)
		c.logger.Error("request failed",
			"method", method,
			"url", endpoint,
			"request_id", requestID,
			"error", err)
		transportErr := &resource.TransportError{Method: method, Path: path, Err: err}
		if ctx.Err() != nil {
			return backoff.Permanent(transportErr)
		}
		return transportErr
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	c.record(ctx, method, resp.StatusCode, start)
	if err != nil {
		return &resource.TransportError{Method: method, Path: path, StatusCode: resp.StatusCode, Message: "failed to read response", Err: err}
	}

	c.logger.Debug("received response",
		"method", method,
		"url", endpoint,
		"request_id", requestID,
		"status", resp.StatusCode,
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		transportErr := &resource.TransportError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(respBody),
		}
		c.logger.Error("backend returned error status",
			"method", method,
			"url", endpoint,
			"request_id", requestID,
			"status", resp.StatusCode,
			"message", transportErr.Message)

		if resp.StatusCode == http.StatusUnauthorized {
			c.handleUnauthorized(ctx)
		}
		if resp.StatusCode >= 500 {
			return transportErr
		}
		return backoff.Permanent(transportErr)
	}

	if out != nil && len(bytes.TrimSpace(respBody)) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return backoff.Permanent(&resource.TransportError{
				Method:     method,
				Path:       path,
				StatusCode: resp.StatusCode,
				Message:    "failed to decode response",
				Err:        err,
			})
		}
	}

	return nil
}

func (c *Client) handleUnauthorized(ctx context.Context) {
	c.logger.Warn("credentials rejected, clearing stored token")
	if err := c.tokens.Clear(ctx); err != nil {
		c.logger.Error("failed to clear token", "error", err)
	}
	if c.onUnauthorized != nil {
		c.onUnauthorized(ctx)
	}
}

func (c *Client) record(ctx context.Context, method string, status int, start time.Time) {
	attrs := metric.WithAttributes(
		attribute.String("http.request.method", method),
		attribute.Int("http.response.status_code", status),
	)
	c.requestCounter.Add(ctx, 1, attrs)
	c.requestDuration.Record(ctx, float64(time.Since(start).Milliseconds()), attrs)
}

// errorMessage pulls a human-readable message out of an error body, preferring
// the envelope's "message" field over "error".
func errorMessage(body []byte) string {
	if gjson.ValidBytes(body) {
		for _, field := range []string{"message", "error"} {
			if msg := gjson.GetBytes(body, field); msg.Type == gjson.String && msg.String() != "" {
				return msg.String()
			}
		}
		return ""
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 512 {
		msg = msg[:512] + "...(truncated)"
	}
	return msg
}

// buildURL joins the base URL and path and encodes params as the query
// string.
func (c *Client) buildURL(path string, params resource.NormalizedQuery) (string, error) {
	u, err := url.Parse(c.BaseURL() + "/" + strings.TrimPrefix(path, "/"))
	if err != nil {
		return "", err
	}

	if len(params) > 0 {
		q := u.Query()
		for k, v := range params {
			if s, ok := formatParam(v); ok {
				q.Set(k, s)
			}
		}
		u.RawQuery = q.Encode()
	}

	return u.String(), nil
}

// formatParam renders a scalar query value. Pointers are dereferenced,
// floats are written without an exponent and slices are comma-joined,
// matching the backend's "_in" convention. It reports false for nil values.
func formatParam(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	switch val := v.(type) {
	case string:
		return val, true
	case fmt.Stringer:
		return val.String(), true
	case []string:
		return strings.Join(val, ","), true
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return "", false
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		// JSON-decoded numbers are float64; avoid exponent form.
		return strconv.FormatFloat(rv.Float(), 'f', -1, rv.Type().Bits()), true
	case reflect.Slice, reflect.Array:
		parts := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			if s, ok := formatParam(rv.Index(i).Interface()); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ","), true
	default:
		return fmt.Sprint(rv.Interface()), true
	}
}

// IsUnauthorized reports whether err is a 401 from the backend.
func IsUnauthorized(err error) bool {
	var transportErr *resource.TransportError
	return errors.As(err, &transportErr) && transportErr.Unauthorized()
}
