package service

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/jdmatchr/internal/gateway/domain"
	"github.com/aussiebroadwan/jdmatchr/internal/gateway/metrics"
	"github.com/aussiebroadwan/jdmatchr/pkg/jwtx"
	"github.com/aussiebroadwan/jdmatchr/pkg/slogx"
)

// Session is a freshly minted session.
type Session struct {
	Token  string
	Claims jwtx.Claims
}

// User is the session's user as shown to the browser.
func (s *Session) User() domain.SessionUser {
	return domain.SessionUser{
		ID:    s.Claims.Subject,
		Name:  s.Claims.Name,
		Email: s.Claims.Email,
		Image: s.Claims.Picture,
	}
}

// SessionIssuer turns a resolved identity into a signed session token. A
// token is only minted once identity resolution has fully succeeded.
type SessionIssuer struct {
	Config      *AuthConfig
	Credentials *CredentialAuthenticator
	OAuth       *OAuthIdentityReconciler
	Metrics     *metrics.Metrics
}

// IssueFromCredentials authenticates email/password and mints a session for
// the backend user.
func (s *SessionIssuer) IssueFromCredentials(ctx context.Context, email, password string) (*Session, error) {
	sess, err := s.issueFromCredentials(ctx, email, password)
	s.Metrics.SessionIssued(metrics.MethodCredentials, err == nil)
	return sess, err
}

func (s *SessionIssuer) issueFromCredentials(ctx context.Context, email, password string) (*Session, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	id, err := s.Credentials.Authorize(ctx, email, password)
	if err != nil {
		return nil, err
	}

	return s.mint(ctx, jwtx.NewSessionClaims(id.ID, id.Email, id.Name, id.ImageURL))
}

// IssueFromOAuth reconciles the provider profile with the backend and mints
// a session whose subject is the internal user id. Display fields come from
// the provider.
func (s *SessionIssuer) IssueFromOAuth(ctx context.Context, p domain.OAuthProfile) (*Session, error) {
	sess, err := s.issueFromOAuth(ctx, p)
	s.Metrics.SessionIssued(metrics.MethodOAuth, err == nil)
	return sess, err
}

func (s *SessionIssuer) issueFromOAuth(ctx context.Context, p domain.OAuthProfile) (*Session, error) {
	// Checked before ensure-oauth so a backend user is never created for a
	// session that cannot be signed.
	if err := s.ready(); err != nil {
		return nil, err
	}

	userID, err := s.OAuth.Ensure(ctx, p)
	if err != nil {
		return nil, err
	}

	return s.mint(ctx, jwtx.NewSessionClaims(userID, p.Email, p.Name, p.ImageURL))
}

func (s *SessionIssuer) ready() error {
	if s.Config == nil || s.Config.Secret == "" {
		return domain.Configuration("Session signing secret is not configured.")
	}
	return nil
}

func (s *SessionIssuer) mint(ctx context.Context, c jwtx.Claims) (*Session, error) {
	token, err := jwtx.Encode(c, s.Config.Secret, s.Config.SessionMaxAge())
	if err != nil {
		if errors.Is(err, jwtx.ErrNoSecret) {
			return nil, domain.Configuration("Session signing secret is not configured.")
		}
		return nil, &domain.Error{Kind: domain.ErrConfiguration, Message: "Could not sign session.", Err: err}
	}

	// Read back what was signed so the caller sees the defaulted timestamps.
	claims := jwtx.Decode(token, s.Config.Secret)
	if claims == nil {
		return nil, domain.Configuration("Could not sign session.")
	}

	slogx.FromContext(ctx).Info("session issued",
		"user_id", claims.Subject,
		slogx.Token("token", token),
	)
	return &Session{Token: token, Claims: *claims}, nil
}
