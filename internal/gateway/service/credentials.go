package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/jdmatchr/internal/gateway/backend"
	"github.com/aussiebroadwan/jdmatchr/internal/gateway/domain"
	"github.com/aussiebroadwan/jdmatchr/pkg/slogx"
)

// LoginAPI is the backend credential check.
type LoginAPI interface {
	Login(ctx context.Context, email, password string) (*backend.Response, error)
}

// CredentialAuthenticator checks an email/password pair with the backend.
type CredentialAuthenticator struct {
	API LoginAPI
}

// Authorize returns the backend identity for email/password.
//
// Blank fields fail with a validation error before any call is made. A
// rejected login fails with an authentication error whose message is the
// backend's, verbatim.
func (a *CredentialAuthenticator) Authorize(ctx context.Context, email, password string) (domain.Identity, error) {
	log := slogx.FromContext(ctx)

	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return domain.Identity{}, domain.Validation("Please enter both email and password.")
	}

	resp, err := a.API.Login(ctx, email, password)
	if err != nil {
		log.Error("login call failed", "email", email, "err", err)
		return domain.Identity{}, &domain.Error{
			Kind:    domain.ErrAuthentication,
			Message: "Login communication error. Please try again.",
			Status:  http.StatusBadGateway,
			Err:     err,
		}
	}

	if !resp.OK() {
		msg := loginFailureMessage(resp)
		log.Warn("login rejected", "email", email, "status", resp.StatusCode, "reason", msg)
		return domain.Identity{}, domain.Authentication(msg)
	}

	var id domain.Identity
	if err := json.Unmarshal(resp.Body, &id); err != nil || id.ID == "" {
		log.Error("login response has no user id", "email", email, "body", backend.Truncate(string(resp.Body), backend.DiagnosticLimit))
		return domain.Identity{}, domain.Protocol("Invalid user data from auth server.", string(resp.Body))
	}

	log.Info("login accepted", "email", email, "user_id", id.ID)
	return id, nil
}

// loginFailureMessage picks the JSON message, then the raw text, then a
// status line.
func loginFailureMessage(resp *backend.Response) string {
	if msg, ok := backend.JSONMessage(resp.Body); ok && msg != "" {
		return msg
	} else if ok {
		return fmt.Sprintf("Login failed: status %d", resp.StatusCode)
	}
	if text := backend.TrimBody(resp.Body); text != "" {
		return text
	}
	return fmt.Sprintf("Login failed: status %d", resp.StatusCode)
}
