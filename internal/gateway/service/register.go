package service

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/jdmatchr/internal/gateway/backend"
	"github.com/aussiebroadwan/jdmatchr/internal/gateway/domain"
	"github.com/aussiebroadwan/jdmatchr/internal/gateway/metrics"
	"github.com/aussiebroadwan/jdmatchr/pkg/slogx"
)

// RegisterAPI is the backend registration call.
type RegisterAPI interface {
	Register(ctx context.Context, name, email, password string) (*backend.Response, error)
}

// Registration is the mirrored backend answer plus, when auto-login worked,
// the new session.
type Registration struct {
	StatusCode int
	Body       json.RawMessage
	Session    *Session
}

// Registrar proxies sign-up and then signs the new user in.
type Registrar struct {
	API     RegisterAPI
	Issuer  *SessionIssuer
	Metrics *metrics.Metrics
}

// Register creates the account and, when the backend accepts it, logs the
// user in with the same credentials. A failed auto-login leaves Session nil
// but does not fail the registration.
func (s *Registrar) Register(ctx context.Context, name, email, password string) (*Registration, error) {
	log := slogx.FromContext(ctx)

	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" || password == "" {
		return nil, domain.Validation("Missing required fields: name, email, and password are required.")
	}

	resp, err := s.API.Register(ctx, name, email, password)
	if err != nil {
		log.Error("register call failed", "email", email, "err", err)
		return nil, &domain.ProxiedError{
			StatusCode: http.StatusBadGateway,
			Message:    "An unexpected error occurred during registration. Please try again later.",
		}
	}

	out := &Registration{StatusCode: resp.StatusCode, Body: mirrorBody(resp.Body)}
	if !resp.OK() {
		log.Warn("registration rejected", "email", email, "status", resp.StatusCode)
		s.Metrics.SessionIssued(metrics.MethodRegister, false)
		return out, nil
	}

	log.Info("registration accepted", "email", email)

	sess, err := s.Issuer.IssueFromCredentials(ctx, email, password)
	if err != nil {
		log.Warn("auto-login after registration failed", "email", email, "err", err)
		s.Metrics.SessionIssued(metrics.MethodRegister, false)
		return out, nil
	}

	s.Metrics.SessionIssued(metrics.MethodRegister, true)
	out.Session = sess
	return out, nil
}

// mirrorBody passes JSON through and wraps anything else as a JSON string.
func mirrorBody(body []byte) json.RawMessage {
	trimmed := strings.TrimSpace(string(body))
	if trimmed != "" && json.Valid([]byte(trimmed)) {
		return json.RawMessage(trimmed)
	}
	b, _ := json.Marshal(trimmed)
	return b
}
