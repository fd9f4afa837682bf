// Package backend is the HTTP client for the registry REST API. One Client
// serves both the account endpoints used by wallet linkage and the land
// endpoints used by the verifier workflow.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"landchain/internal/platform/metrics"
	"landchain/pkg/platform/sentinel"
	"landchain/pkg/requestcontext"
)

const (
	tracerName = "landchain/internal/backend"

	// maxErrorBody bounds how much of an error response is read for its detail.
	maxErrorBody = 64 << 10
)

// Client calls the registry API. Every request carries the caller's bearer
// token from the context and a request id.
type Client struct {
	baseURL     string
	explorerURL string
	httpClient  *http.Client
	logger      *slog.Logger
	metrics     *metrics.Metrics
	tracer      trace.Tracer
}

type Option func(*Client)

// WithHTTPClient replaces the default client (which carries the configured timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithExplorerURL sets the block explorer used when the backend returns a
// transaction hash without a link.
func WithExplorerURL(url string) Option {
	return func(c *Client) {
		c.explorerURL = strings.TrimRight(url, "/")
	}
}

// New creates a client for baseURL, e.g. http://localhost:8000/api/v1.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     slog.Default(),
		tracer:     otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ExplorerTxURL links a transaction hash to the configured explorer, or
// returns "" when either is missing.
func (c *Client) ExplorerTxURL(txHash string) string {
	if c.explorerURL == "" || txHash == "" {
		return ""
	}
	return c.explorerURL + "/tx/" + txHash
}

// do performs one request. op names the call for spans, metrics and logs;
// body (if non-nil) is sent as JSON and a 2xx response is decoded into out
// (if non-nil). Failures are *APIError for HTTP-level errors and wrapped
// sentinel.ErrUnavailable for transport errors.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	ctx, span := c.tracer.Start(ctx, "backend."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("landchain.backend.operation", op),
		),
	)
	defer span.End()

	start := time.Now()
	status := "error"
	defer func() {
		c.metrics.ObserveRemoteCall(op, status, time.Since(start))
	}()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := requestcontext.AccessToken(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	requestID := requestcontext.RequestID(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	req.Header.Set("X-Request-ID", requestID)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport error")
		c.logger.WarnContext(ctx, "backend call failed",
			"operation", op,
			"request_id", requestID,
			"error", err,
		)
		return fmt.Errorf("%s: %w: %w", op, sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	status = strconv.Itoa(resp.StatusCode)
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := decodeAPIError(op, resp)
		span.SetStatus(codes.Error, apiErr.Detail)
		c.logger.WarnContext(ctx, "backend returned error",
			"operation", op,
			"request_id", requestID,
			"status", resp.StatusCode,
			"detail", apiErr.Detail,
		)
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		span.RecordError(err)
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	return nil
}
