package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aussiebroadwan/jdmatchr/internal/gateway/backend"
	"github.com/aussiebroadwan/jdmatchr/internal/gateway/domain"
	"github.com/aussiebroadwan/jdmatchr/pkg/slogx"
)

const syncFailedMessage = "Could not sync OAuth user with backend."

// EnsureOAuthAPI is the backend get-or-create call for OAuth users.
type EnsureOAuthAPI interface {
	EnsureOAuth(ctx context.Context, p domain.OAuthProfile) (*backend.Response, error)
}

// OAuthIdentityReconciler maps a provider identity to the backend's user id.
type OAuthIdentityReconciler struct {
	API EnsureOAuthAPI
}

// Ensure returns the internal user id for p, creating the user on first
// sign-in. The backend keys on (ProviderID, ProviderAccountID), so repeated
// calls return the same id. Every failure is a sync error and must abort the
// sign-in.
func (o *OAuthIdentityReconciler) Ensure(ctx context.Context, p domain.OAuthProfile) (string, error) {
	log := slogx.FromContext(ctx).With("provider", p.ProviderID)

	if p.ProviderID == "" || p.ProviderAccountID == "" {
		return "", domain.Sync(syncFailedMessage, fmt.Errorf("profile has no provider account"))
	}

	resp, err := o.API.EnsureOAuth(ctx, p)
	if err != nil {
		log.Error("ensure-oauth call failed", "err", err)
		return "", domain.Sync(syncFailedMessage, err)
	}

	if !resp.OK() {
		text := backend.TrimBody(resp.Body)
		log.Error("ensure-oauth rejected", "status", resp.StatusCode, "body", backend.Truncate(text, backend.DiagnosticLimit))
		e := domain.Sync(syncFailedMessage, fmt.Errorf("failed to sync OAuth user: status %d: %s", resp.StatusCode, text))
		e.Raw = text
		return "", e
	}

	var out struct {
		UserID string `json:"userId"`
	}
	if err := json.Unmarshal(resp.Body, &out); err != nil || out.UserID == "" {
		log.Error("ensure-oauth response has no userId")
		e := domain.Sync(syncFailedMessage, fmt.Errorf("ensure-oauth did not return a userId"))
		e.Raw = string(resp.Body)
		return "", e
	}

	log.Info("oauth user synced", "user_id", out.UserID)
	return out.UserID, nil
}
