package slogx_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/jdmatchr/pkg/idx"
	"github.com/aussiebroadwan/jdmatchr/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestHTTPMiddleware(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	var fromCtx *slog.Logger
	h := slogx.HTTPMiddleware(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromCtx = slogx.FromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	t.Run("mints request id", func(t *testing.T) {
		buf.Reset()
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/insights/history", nil))

		require.Equal(t, http.StatusTeapot, rec.Code)
		_, err := idx.Parse(rec.Header().Get("X-Request-ID"))
		require.NoError(t, err)
		require.NotNil(t, fromCtx)
		require.Contains(t, buf.String(), `"status":418`)
		require.Contains(t, buf.String(), `"path":"/api/insights/history"`)
	})

	t.Run("keeps well-formed upstream id", func(t *testing.T) {
		upstream := idx.New().String()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", upstream)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, upstream, rec.Header().Get("X-Request-ID"))
	})

	t.Run("replaces junk upstream id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "<script>")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.NotEqual(t, "<script>", rec.Header().Get("X-Request-ID"))
	})
}

func TestFromContextDefaults(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.Equal(t, slog.Default(), slogx.FromContext(req.Context()))
}
