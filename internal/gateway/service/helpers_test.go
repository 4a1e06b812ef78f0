package service_test

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aussiebroadwan/jdmatchr/internal/gateway/backend"
	"github.com/aussiebroadwan/jdmatchr/internal/gateway/service"
)

const testSecret = "service-test-secret"

// fakeBackend is an httptest Analysis Backend that counts calls per path.
type fakeBackend struct {
	*httptest.Server
	mux   *http.ServeMux
	calls atomic.Int64
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()

	fb := &fakeBackend{mux: http.NewServeMux()}
	fb.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fb.calls.Add(1)
		fb.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(fb.Close)
	return fb
}

func (fb *fakeBackend) handle(pattern string, status int, contentType, body string) {
	fb.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
}

func (fb *fakeBackend) client() *backend.Client {
	return backend.NewClient(fb.URL, 5*time.Second, nil)
}

func newAuthConfig() *service.AuthConfig {
	return &service.AuthConfig{Secret: testSecret, MaxAge: time.Hour}
}

func newIssuer(cfg *service.AuthConfig, c *backend.Client) *service.SessionIssuer {
	return &service.SessionIssuer{
		Config:      cfg,
		Credentials: &service.CredentialAuthenticator{API: c},
		OAuth:       &service.OAuthIdentityReconciler{API: c},
	}
}

func withSession(r *http.Request, cfg *service.AuthConfig, token string) *http.Request {
	r.AddCookie(&http.Cookie{Name: cfg.SessionCookieName(), Value: token})
	return r
}
