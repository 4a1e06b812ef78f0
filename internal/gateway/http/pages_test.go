package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	gwhttp "github.com/aussiebroadwan/jdmatchr/internal/gateway/http"
	"github.com/stretchr/testify/require"
)

func TestGuardedPages(t *testing.T) {
	t.Parallel()

	t.Run("redirects to login with callback", func(t *testing.T) {
		t.Parallel()
		g := newGateway(t)

		rec := g.do(httptest.NewRequest(http.MethodGet, "/insights/abc?tab=skills", nil))
		require.Equal(t, http.StatusFound, rec.Code)

		loc, err := url.Parse(rec.Header().Get("Location"))
		require.NoError(t, err)
		require.Equal(t, "/login", loc.Path)
		require.Equal(t, testPublicURL+"/insights/abc?tab=skills", loc.Query().Get("callbackUrl"))
	})

	t.Run("admits a session", func(t *testing.T) {
		t.Parallel()
		g := newGateway(t)

		rec := g.do(withSession(httptest.NewRequest(http.MethodGet, "/history", nil), g.token(t, "u-3")))
		require.Equal(t, http.StatusOK, rec.Code)

		var body gwhttp.PageResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, "history", body.Page)
		require.Equal(t, "u-3", body.User.ID)
	})
}

func TestHealth(t *testing.T) {
	t.Parallel()

	t.Run("livez", func(t *testing.T) {
		t.Parallel()
		g := newGateway(t)

		rec := g.do(httptest.NewRequest(http.MethodGet, "/livez", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var body gwhttp.HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, "ok", body.Status)
		require.Equal(t, "test", body.Version)
	})

	t.Run("readyz ok", func(t *testing.T) {
		t.Parallel()
		g := newGateway(t)

		rec := g.do(httptest.NewRequest(http.MethodGet, "/readyz", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("readyz degraded when backend is down", func(t *testing.T) {
		t.Parallel()
		g := newGateway(t)
		g.backend.Close()

		rec := g.do(httptest.NewRequest(http.MethodGet, "/readyz", nil))
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)

		var body gwhttp.HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, "degraded", body.Status)
		require.Equal(t, "ok", body.Checks.Signer)
		require.Contains(t, body.Checks.Backend, "error")
	})

	t.Run("metrics", func(t *testing.T) {
		t.Parallel()
		g := newGateway(t)
		g.handle("POST /api/v1/auth/login", http.StatusOK, loginOK)
		g.do(jsonRequest(http.MethodPost, "/api/auth/login", `{"email":"jane@example.com","password":"pw"}`))

		rec := g.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `jdmatchr_sessions_issued_total{method="credentials",outcome="issued"} 1`)
		require.Contains(t, rec.Body.String(), `jdmatchr_backend_requests_total{endpoint="login",status="200"} 1`)
	})
}
