package oauth

import (
	"context"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/jdmatchr/internal/gateway/domain"
	"github.com/aussiebroadwan/jdmatchr/pkg/slogx"
	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// GoogleIssuer is Google's OpenID Connect issuer.
const GoogleIssuer = "https://accounts.google.com"

// OIDCProvider is an OpenID Connect provider. The profile comes from the
// verified ID token, never from an unauthenticated userinfo call.
type OIDCProvider struct {
	name        string
	oauthConfig *oauth2.Config
	verifier    *oidc.IDTokenVerifier
}

// OIDCConfig configures NewOIDCProvider.
type OIDCConfig struct {
	Name         string
	Issuer       string
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// NewGoogle discovers Google's endpoints and returns the "google" provider.
func NewGoogle(ctx context.Context, clientID, clientSecret, redirectURL string) (*OIDCProvider, error) {
	return NewOIDCProvider(ctx, OIDCConfig{
		Name:         "google",
		Issuer:       GoogleIssuer,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
	})
}

// NewOIDCProvider runs discovery against cfg.Issuer.
func NewOIDCProvider(ctx context.Context, cfg OIDCConfig) (*OIDCProvider, error) {
	if cfg.Name == "" || cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.RedirectURL == "" {
		return nil, errors.New("oidc provider config missing required fields")
	}

	p, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to init %s oidc provider: %w", cfg.Name, err)
	}

	return &OIDCProvider{
		name: cfg.Name,
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     p.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
		verifier: p.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
	}, nil
}

func (p *OIDCProvider) Name() string { return p.name }

func (p *OIDCProvider) AuthCodeURL(state, codeChallenge string) string {
	return p.oauthConfig.AuthCodeURL(
		state,
		oauth2.AccessTypeOnline,
		oauth2.SetAuthURLParam("code_challenge", codeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)
}

func (p *OIDCProvider) Exchange(ctx context.Context, code, codeVerifier string) (domain.OAuthProfile, error) {
	token, err := p.oauthConfig.Exchange(ctx, code,
		oauth2.SetAuthURLParam("code_verifier", codeVerifier),
	)
	if err != nil {
		return domain.OAuthProfile{}, fmt.Errorf("%s token exchange failed: %w", p.name, err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return domain.OAuthProfile{}, fmt.Errorf("%s did not return id_token", p.name)
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return domain.OAuthProfile{}, fmt.Errorf("%s id_token verification failed: %w", p.name, err)
	}

	var claims struct {
		Subject string `json:"sub"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return domain.OAuthProfile{}, fmt.Errorf("%s id_token claims parse failed: %w", p.name, err)
	}
	if claims.Subject == "" {
		return domain.OAuthProfile{}, fmt.Errorf("%s id_token has no subject", p.name)
	}

	slogx.FromContext(ctx).Info("oidc identity verified",
		"provider", p.name,
		"issuer", idToken.Issuer,
		"email", claims.Email,
	)

	return domain.OAuthProfile{
		ProviderID:        p.name,
		ProviderAccountID: claims.Subject,
		Email:             claims.Email,
		Name:              claims.Name,
		ImageURL:          claims.Picture,
	}, nil
}
