package http

import (
	"net/http"

	"github.com/aussiebroadwan/jdmatchr/internal/gateway/oauth"
	"github.com/aussiebroadwan/jdmatchr/internal/gateway/service"
	"github.com/aussiebroadwan/jdmatchr/pkg/slogx"
)

// Error codes put on /login?error= after a failed provider sign-in.
const (
	errOAuthSignin   = "OAuthSignin"
	errOAuthCallback = "OAuthCallback"
	errAccessDenied  = "AccessDenied"
	errCallback      = "Callback"
)

// OAuthHandler runs the provider redirect dance. Every failure ends on the
// login page with an error code; no JSON is returned.
type OAuthHandler struct {
	Providers *oauth.Registry
	Flows     *oauth.FlowStore
	Issuer    *service.SessionIssuer
	Auth      *service.AuthConfig
	PublicURL string
}

// HandleSignIn godoc
//
//	@Summary		Start Provider Sign-In
//	@Description	Starts an authorization-code flow with PKCE and redirects to the provider.
//	@Description	callbackUrl must be on this site; anything else falls back to /analyze.
//	@Tags			OAuth
//	@Param			provider	path	string	true	"Provider name"	Enums(google)
//	@Param			callbackUrl	query	string	false	"Where to land after sign-in"
//	@Success		302			"Redirect to the provider"
//	@Failure		302			"Redirect to /login?error=OAuthSignin"
//	@Router			/api/auth/signin/{provider} [get].
func (h *OAuthHandler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	log := slogx.FromContext(r.Context())

	p, err := h.Providers.Get(r.PathValue("provider"))
	if err != nil {
		log.Warn("sign-in with unknown provider", "provider", r.PathValue("provider"))
		redirectLoginError(w, r, errOAuthSignin)
		return
	}

	callback := oauth.SafeCallback(h.PublicURL, r.URL.Query().Get("callbackUrl"), defaultCallback)
	authURL, err := h.Flows.Begin(w, p, callback)
	if err != nil {
		log.Error("could not start oauth flow", "provider", p.Name(), "err", err)
		redirectLoginError(w, r, errOAuthSignin)
		return
	}

	http.Redirect(w, r, authURL, http.StatusFound)
}

// HandleCallback godoc
//
//	@Summary		Provider Callback
//	@Description	Completes the provider flow, reconciles the account with the Analysis Backend, sets the session cookie and redirects to the callback URL saved at sign-in.
//	@Tags			OAuth
//	@Param			provider	path	string	true	"Provider name"	Enums(google)
//	@Param			code		query	string	false	"Authorization code"
//	@Param			state		query	string	false	"Flow state"
//	@Param			error		query	string	false	"Provider error"
//	@Success		302			"Redirect to the callback URL"
//	@Failure		302			"Redirect to /login?error=..."
//	@Router			/api/auth/callback/{provider} [get].
func (h *OAuthHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	q := r.URL.Query()

	p, err := h.Providers.Get(r.PathValue("provider"))
	if err != nil {
		redirectLoginError(w, r, errOAuthCallback)
		return
	}

	flow, err := h.Flows.Complete(w, r, p.Name(), q.Get("state"))
	if err != nil {
		log.Warn("oauth callback rejected", "provider", p.Name(), "err", err)
		redirectLoginError(w, r, errOAuthCallback)
		return
	}

	if e := q.Get("error"); e != "" {
		log.Info("provider denied sign-in", "provider", p.Name(), "error", e)
		redirectLoginError(w, r, errAccessDenied)
		return
	}
	if q.Get("code") == "" {
		redirectLoginError(w, r, errOAuthCallback)
		return
	}

	profile, err := p.Exchange(ctx, q.Get("code"), flow.Verifier)
	if err != nil {
		log.Warn("oauth exchange failed", "provider", p.Name(), "err", err)
		redirectLoginError(w, r, errOAuthCallback)
		return
	}

	sess, err := h.Issuer.IssueFromOAuth(ctx, profile)
	if err != nil {
		log.Error("oauth sign-in failed", "provider", p.Name(), "email", profile.Email, "err", err)
		redirectLoginError(w, r, errCallback)
		return
	}

	http.SetCookie(w, h.Auth.SessionCookie(sess.Token))

	target := flow.CallbackURL
	if target == "" {
		target = defaultCallback
	}
	http.Redirect(w, r, target, http.StatusFound)
}

