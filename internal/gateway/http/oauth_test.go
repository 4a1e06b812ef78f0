package http_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/aussiebroadwan/jdmatchr/internal/gateway/oauth"
	"github.com/aussiebroadwan/jdmatchr/internal/gateway/service"
	"github.com/aussiebroadwan/jdmatchr/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

// signIn starts a flow and returns the state and flow cookie.
func signIn(t *testing.T, g *gateway, callbackURL string) (string, *http.Cookie) {
	t.Helper()

	target := "/api/auth/signin/fake"
	if callbackURL != "" {
		target += "?" + url.Values{"callbackUrl": {callbackURL}}.Encode()
	}
	rec := g.do(httptest.NewRequest(http.MethodGet, target, nil))
	require.Equal(t, http.StatusFound, rec.Code)

	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	require.Equal(t, "idp.test", loc.Host)
	require.NotEmpty(t, loc.Query().Get("code_challenge"))

	flow := findCookie(rec, oauth.FlowCookieName)
	require.NotNil(t, flow)
	require.True(t, flow.HttpOnly)

	return loc.Query().Get("state"), flow
}

func callback(g *gateway, flow *http.Cookie, q url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/auth/callback/fake?"+q.Encode(), nil)
	if flow != nil {
		req.AddCookie(flow)
	}
	return g.do(req)
}

func TestOAuthSignIn(t *testing.T) {
	t.Parallel()

	t.Run("full flow", func(t *testing.T) {
		t.Parallel()
		g := newGateway(t)
		g.handle("POST /api/v1/users/ensure-oauth", http.StatusOK, `{"userId":"internal-9"}`)

		state, flow := signIn(t, g, "/history")
		rec := callback(g, flow, url.Values{"state": {state}, "code": {"good-code"}})

		require.Equal(t, http.StatusFound, rec.Code)
		require.Equal(t, "/history", rec.Header().Get("Location"))

		c := findCookie(rec, service.CookieName)
		require.NotNil(t, c)
		claims := jwtx.Decode(c.Value, testSecret)
		require.NotNil(t, claims)
		require.Equal(t, "internal-9", claims.Subject)
		require.Equal(t, "oauth@example.com", claims.Email)
		require.Equal(t, "https://img.test/a.png", claims.Picture)
	})

	t.Run("default callback", func(t *testing.T) {
		t.Parallel()
		g := newGateway(t)
		g.handle("POST /api/v1/users/ensure-oauth", http.StatusOK, `{"userId":"internal-9"}`)

		state, flow := signIn(t, g, "https://evil.test/")
		rec := callback(g, flow, url.Values{"state": {state}, "code": {"good-code"}})
		require.Equal(t, "/analyze", rec.Header().Get("Location"))
	})

	t.Run("unknown provider", func(t *testing.T) {
		t.Parallel()
		g := newGateway(t)

		rec := g.do(httptest.NewRequest(http.MethodGet, "/api/auth/signin/nope", nil))
		require.Equal(t, http.StatusFound, rec.Code)
		require.Equal(t, "/login?error=OAuthSignin", rec.Header().Get("Location"))
	})

	t.Run("state mismatch", func(t *testing.T) {
		t.Parallel()
		g := newGateway(t)

		_, flow := signIn(t, g, "")
		rec := callback(g, flow, url.Values{"state": {"forged"}, "code": {"good-code"}})
		require.Equal(t, "/login?error=OAuthCallback", rec.Header().Get("Location"))
		require.Nil(t, findCookie(rec, service.CookieName))
		require.Zero(t, g.calls.Load())
	})

	t.Run("missing flow cookie", func(t *testing.T) {
		t.Parallel()
		g := newGateway(t)

		rec := callback(g, nil, url.Values{"state": {"s"}, "code": {"good-code"}})
		require.Equal(t, "/login?error=OAuthCallback", rec.Header().Get("Location"))
	})

	t.Run("provider denied", func(t *testing.T) {
		t.Parallel()
		g := newGateway(t)

		state, flow := signIn(t, g, "")
		rec := callback(g, flow, url.Values{"state": {state}, "error": {"access_denied"}})
		require.Equal(t, "/login?error=AccessDenied", rec.Header().Get("Location"))
	})

	t.Run("bad code", func(t *testing.T) {
		t.Parallel()
		g := newGateway(t)

		state, flow := signIn(t, g, "")
		rec := callback(g, flow, url.Values{"state": {state}, "code": {"bad-code"}})
		require.Equal(t, "/login?error=OAuthCallback", rec.Header().Get("Location"))
		require.Zero(t, g.calls.Load())
	})

	t.Run("sync failure issues no session", func(t *testing.T) {
		t.Parallel()
		g := newGateway(t)
		g.handle("POST /api/v1/users/ensure-oauth", http.StatusInternalServerError, `{"message":"db down"}`)

		state, flow := signIn(t, g, "")
		rec := callback(g, flow, url.Values{"state": {state}, "code": {"good-code"}})
		require.Equal(t, "/login?error=Callback", rec.Header().Get("Location"))
		require.Nil(t, findCookie(rec, service.CookieName))
	})
}
