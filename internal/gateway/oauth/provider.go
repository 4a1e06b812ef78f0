// Package oauth runs the browser-side OAuth authorization-code flow against
// external identity providers. Providers report identity facts only; user
// reconciliation and session minting happen in the service layer.
package oauth

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/aussiebroadwan/jdmatchr/internal/gateway/domain"
)

// ErrUnknownProvider is returned for a provider name that is not configured.
var ErrUnknownProvider = errors.New("unknown oauth provider")

// Provider is one configured identity provider.
type Provider interface {
	// Name is the provider id, e.g. "google". It is also the providerId sent
	// to the backend.
	Name() string

	// AuthCodeURL is the provider's consent URL for state and a S256 PKCE
	// challenge.
	AuthCodeURL(state, codeChallenge string) string

	// Exchange trades the authorization code for a verified profile.
	Exchange(ctx context.Context, code, codeVerifier string) (domain.OAuthProfile, error)
}

// Registry holds the configured providers by name.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry registers the given providers. Later entries win on a name
// clash.
func NewRegistry(list ...Provider) *Registry {
	m := make(map[string]Provider, len(list))
	for _, p := range list {
		m[p.Name()] = p
	}
	return &Registry{providers: m}
}

// Get returns the provider called name.
func (r *Registry) Get(name string) (Provider, error) {
	if r != nil {
		if p, ok := r.providers[name]; ok {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
}

// Names lists the configured providers in order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	out := make([]string, 0, len(r.providers))
	for name := range r.providers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
