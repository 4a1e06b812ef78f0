package oauth

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aussiebroadwan/jdmatchr/pkg/cryptox"
)

const (
	// FlowCookieName holds the sealed in-flight authorization state.
	FlowCookieName = "jdmatchr.oauth-flow"
	// FlowTTL bounds how long a user may spend at the provider.
	FlowTTL = 5 * time.Minute

	flowCookiePath = "/api/auth"
)

var (
	ErrFlowMissing  = errors.New("oauth: no sign-in in progress")
	ErrFlowMismatch = errors.New("oauth: state mismatch")
	ErrFlowExpired  = errors.New("oauth: sign-in expired")
)

// now is swapped in tests.
var now = time.Now

// Flow is what the browser carries between sign-in and callback.
type Flow struct {
	Provider    string `json:"p"`
	State       string `json:"s"`
	Verifier    string `json:"v"`
	CallbackURL string `json:"c"`
	ExpiresAt   int64  `json:"e"`
}

// FlowStore keeps the flow in an encrypted, HttpOnly cookie so that no
// server-side state is needed between the two legs.
type FlowStore struct {
	sealer *cryptox.Sealer
	secure bool
}

// NewFlowStore derives the cookie key from the session secret.
func NewFlowStore(secret string, secure bool) (*FlowStore, error) {
	s, err := cryptox.NewSealer(secret, "jdmatchr oauth flow v1")
	if err != nil {
		return nil, err
	}
	return &FlowStore{sealer: s, secure: secure}, nil
}

// Begin starts a flow with p, sets the flow cookie and returns the provider
// URL to redirect to.
func (s *FlowStore) Begin(w http.ResponseWriter, p Provider, callbackURL string) (string, error) {
	state, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return "", err
	}
	pkce, err := cryptox.NewPKCE()
	if err != nil {
		return "", err
	}

	f := Flow{
		Provider:    p.Name(),
		State:       state,
		Verifier:    pkce.Verifier,
		CallbackURL: callbackURL,
		ExpiresAt:   now().Add(FlowTTL).Unix(),
	}
	raw, err := json.Marshal(f)
	if err != nil {
		return "", err
	}
	sealed, err := s.sealer.Seal(raw)
	if err != nil {
		return "", fmt.Errorf("seal oauth flow: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     FlowCookieName,
		Value:    sealed,
		Path:     flowCookiePath,
		MaxAge:   int(FlowTTL.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})

	return p.AuthCodeURL(state, pkce.Challenge), nil
}

// Complete checks the callback against the flow cookie and clears it. The
// cookie is cleared on failure as well; a flow is single use.
func (s *FlowStore) Complete(w http.ResponseWriter, r *http.Request, provider, state string) (*Flow, error) {
	c, err := r.Cookie(FlowCookieName)
	if err != nil || c.Value == "" {
		return nil, ErrFlowMissing
	}
	s.clear(w)

	raw, err := s.sealer.Open(c.Value)
	if err != nil {
		return nil, ErrFlowMissing
	}

	var f Flow
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, ErrFlowMissing
	}

	if f.Provider != provider || !cryptox.TokensEqual(f.State, state) {
		return nil, ErrFlowMismatch
	}
	if now().Unix() > f.ExpiresAt {
		return nil, ErrFlowExpired
	}
	return &f, nil
}

func (s *FlowStore) clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     FlowCookieName,
		Value:    "",
		Path:     flowCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SafeCallback returns raw as a path on publicURL's origin, or fallback when
// raw is empty or points elsewhere.
func SafeCallback(publicURL, raw, fallback string) string {
	if raw == "" || strings.Contains(raw, `\`) {
		return fallback
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fallback
	}

	if u.IsAbs() || u.Host != "" {
		base, err := url.Parse(publicURL)
		if err != nil || base.Host == "" || !strings.EqualFold(u.Host, base.Host) || u.Scheme != base.Scheme {
			return fallback
		}
		if u.Path == "" {
			u.Path = "/"
		}
	}

	if !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(u.Path, "//") {
		return fallback
	}

	out := u.EscapedPath()
	if u.RawQuery != "" {
		out += "?" + u.RawQuery
	}
	return out
}
