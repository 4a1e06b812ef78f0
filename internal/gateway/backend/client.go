// Package backend is the HTTP client for the Analysis Backend.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aussiebroadwan/jdmatchr/internal/gateway/metrics"
	"github.com/aussiebroadwan/jdmatchr/pkg/slogx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Backend paths, relative to the configured base URL.
const (
	PathLogin           = "/api/v1/auth/login"
	PathRegister        = "/api/v1/auth/register"
	PathEnsureOAuth     = "/api/v1/users/ensure-oauth"
	PathInsightsProcess = "/api/v1/insights/process"
	PathInsightsHistory = "/api/v1/insights/history"
	PathInsightsLatest  = "/api/v1/insights/latest"
)

// PathInsight is the path of a single insight.
func PathInsight(id string) string {
	return "/api/v1/insights/" + id
}

// MaxResponseBody caps how much of an upstream body is buffered.
const MaxResponseBody = 10 << 20

// ErrResponseTooLarge is returned when an upstream body exceeds MaxResponseBody.
var ErrResponseTooLarge = errors.New("backend: response body too large")

// Client calls the Analysis Backend. It keeps no per-user state; credentials
// travel with each call.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Metrics    *metrics.Metrics

	tracer trace.Tracer
}

// NewClient creates a client for baseURL. timeout bounds every outbound
// call; zero disables the client-side limit.
func NewClient(baseURL string, timeout time.Duration, m *metrics.Metrics) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		Metrics: m,
		tracer:  otel.Tracer("github.com/aussiebroadwan/jdmatchr/internal/gateway/backend"),
	}
}

// Response is a fully read upstream response.
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Request describes one outbound call. Endpoint is a short label used for
// metrics and spans.
type Request struct {
	Endpoint    string
	Method      string
	Path        string
	Body        io.Reader
	ContentType string
	BearerToken string
}

// url builds a complete URL by appending the path to the base URL.
func (c *Client) url(path string) string {
	return c.BaseURL + path
}

// Do performs req and reads the whole body. An error is returned only when
// no response was received; non-2xx statuses are returned as a Response.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	ctx, span := c.startSpan(ctx, "backend."+req.Endpoint)
	defer span.End()

	span.SetAttributes(
		attribute.String("http.request.method", req.Method),
		attribute.String("url.path", req.Path),
	)

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.url(req.Path), req.Body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "build request")
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if req.ContentType != "" {
		httpReq.Header.Set("Content-Type", req.ContentType)
	}
	if req.BearerToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.BearerToken)
	}
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient().Do(httpReq)
	if err != nil {
		c.Metrics.BackendRequest(req.Endpoint, 0, time.Since(start))
		span.RecordError(err)
		span.SetStatus(codes.Error, "send request")
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBody+1))
	c.Metrics.BackendRequest(req.Endpoint, resp.StatusCode, time.Since(start))
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read response")
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(body) > MaxResponseBody {
		span.SetStatus(codes.Error, "response too large")
		return nil, fmt.Errorf("%s returned more than %d bytes: %w", req.Path, MaxResponseBody, ErrResponseTooLarge)
	}
	if resp.StatusCode >= 500 {
		span.SetStatus(codes.Error, resp.Status)
	}

	slogx.FromContext(ctx).Debug("backend call",
		"endpoint", req.Endpoint,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return &Response{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

// postJSON marshals v and posts it without credentials.
func (c *Client) postJSON(ctx context.Context, endpoint, path string, v any) (*Response, error) {
	buf, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	return c.Do(ctx, Request{
		Endpoint:    endpoint,
		Method:      http.MethodPost,
		Path:        path,
		Body:        bytes.NewReader(buf),
		ContentType: "application/json",
	})
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient == nil {
		return http.DefaultClient
	}
	return c.HTTPClient
}

func (c *Client) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if c.tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return c.tracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindClient))
}
