package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/aussiebroadwan/jdmatchr/internal/gateway/backend"
	"github.com/aussiebroadwan/jdmatchr/internal/gateway/domain"
	"github.com/aussiebroadwan/jdmatchr/pkg/slogx"
)

// Shape is the kind of JSON document a proxied call must return on success.
type Shape int

const (
	// ShapeObject is any JSON object.
	ShapeObject Shape = iota
	// ShapeArray is a JSON array. An empty body reads as [].
	ShapeArray
	// ShapeLatest is the latest-insight lookup: an object, or
	// {"latestInsightId": null} when the backend has nothing (204 or 404).
	ShapeLatest
)

var noLatestInsight = json.RawMessage(`{"latestInsightId":null}`)

// ForwardAPI performs a raw backend call.
type ForwardAPI interface {
	Do(ctx context.Context, req backend.Request) (*backend.Response, error)
}

// Call is one proxied backend call.
type Call struct {
	// Endpoint labels metrics and spans.
	Endpoint string
	// Failure prefixes error messages, e.g. "Failed to fetch insights history".
	Failure string

	Method      string
	Path        string
	Body        io.Reader
	ContentType string

	Shape Shape
}

// Result is a validated 2xx backend response.
type Result struct {
	StatusCode int
	Shape      Shape
	Body       json.RawMessage
}

// AuthenticatedProxy forwards calls to the backend with the caller's raw
// session token as a bearer credential. It is the only path by which feature
// routes reach the backend.
type AuthenticatedProxy struct {
	Reader *SessionReader
	API    ForwardAPI
}

// Forward sends call on behalf of r's session.
//
// A request without a session cookie fails as unauthorized and no call is
// made. The token is forwarded as is; the backend verifies it. Upstream
// failures come back as *domain.ProxiedError with the upstream status.
func (p *AuthenticatedProxy) Forward(ctx context.Context, r *http.Request, call Call) (*Result, error) {
	log := slogx.FromContext(ctx).With("endpoint", call.Endpoint)

	token := p.Reader.Token(r)
	if token == "" {
		log.Warn("no session token cookie")
		return nil, domain.Unauthorized("Unauthorized: Session token missing.")
	}

	resp, err := p.API.Do(ctx, backend.Request{
		Endpoint:    call.Endpoint,
		Method:      call.Method,
		Path:        call.Path,
		Body:        call.Body,
		ContentType: call.ContentType,
		BearerToken: token,
	})
	var tooBig *http.MaxBytesError
	switch {
	case errors.As(err, &tooBig):
		log.Warn("upload over limit", "limit", tooBig.Limit)
		return nil, &domain.ProxiedError{
			StatusCode: http.StatusRequestEntityTooLarge,
			Message:    call.Failure + ". Upload too large.",
		}
	case errors.Is(err, backend.ErrResponseTooLarge):
		log.Error("backend response over limit", "err", err)
		return nil, &domain.ProxiedError{
			StatusCode: http.StatusBadGateway,
			Message:    call.Failure + ". Backend response too large.",
		}
	case err != nil:
		log.Error("backend unreachable", "err", err)
		return nil, &domain.ProxiedError{
			StatusCode: http.StatusBadGateway,
			Message:    call.Failure + ". Analysis service unreachable.",
		}
	}

	if call.Shape == ShapeLatest && (resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusNotFound) {
		return &Result{StatusCode: http.StatusOK, Shape: call.Shape, Body: noLatestInsight}, nil
	}

	if !resp.OK() {
		pe := upstreamError(call.Failure, resp)
		log.Warn("backend call failed", "status", resp.StatusCode, "message", pe.Message)
		return nil, pe
	}

	body, ok := conform(call.Shape, resp.Body)
	if !ok {
		log.Error("malformed success response",
			"status", resp.StatusCode,
			"body", backend.Truncate(string(resp.Body), backend.DiagnosticLimit),
		)
		return nil, domain.Protocol("Received malformed success data from backend.", string(resp.Body))
	}

	return &Result{StatusCode: resp.StatusCode, Shape: call.Shape, Body: body}, nil
}

// upstreamError maps a non-2xx response. The upstream status is kept.
func upstreamError(failure string, resp *backend.Response) *domain.ProxiedError {
	text := string(resp.Body)
	pe := &domain.ProxiedError{
		StatusCode: resp.StatusCode,
		Message:    fmt.Sprintf("%s. Status: %d", failure, resp.StatusCode),
		RawDetails: text,
	}

	if len(bytes.TrimSpace(resp.Body)) == 0 {
		return pe
	}
	if msg, ok := backend.JSONMessage(resp.Body); ok {
		if msg != "" {
			pe.Message = msg
		}
		return pe
	}
	pe.Message = fmt.Sprintf("%s. Non-JSON response from backend (first %d chars): %s",
		failure, backend.DiagnosticLimit, backend.Truncate(text, backend.DiagnosticLimit))
	return pe
}

// conform checks body against shape and returns the JSON to send on.
func conform(shape Shape, body []byte) (json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(body)

	switch shape {
	case ShapeArray:
		if len(trimmed) == 0 {
			return json.RawMessage("[]"), true
		}
		var v []json.RawMessage
		if err := json.Unmarshal(trimmed, &v); err != nil || v == nil {
			return nil, false
		}
	default:
		var v map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &v); err != nil || v == nil {
			return nil, false
		}
	}
	return json.RawMessage(trimmed), true
}
