package http_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aussiebroadwan/jdmatchr/internal/gateway/backend"
	"github.com/aussiebroadwan/jdmatchr/internal/gateway/domain"
	gwhttp "github.com/aussiebroadwan/jdmatchr/internal/gateway/http"
	"github.com/aussiebroadwan/jdmatchr/internal/gateway/metrics"
	"github.com/aussiebroadwan/jdmatchr/internal/gateway/oauth"
	"github.com/aussiebroadwan/jdmatchr/internal/gateway/service"
	"github.com/aussiebroadwan/jdmatchr/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const (
	testSecret    = "http-test-secret"
	testPublicURL = "http://gateway.test"
)

// gateway is a fully wired router in front of an httptest Analysis Backend.
type gateway struct {
	router  *gwhttp.Router
	backend *httptest.Server
	mux     *http.ServeMux
	calls   atomic.Int64
	auth    *service.AuthConfig
}

func newGateway(t *testing.T) *gateway {
	t.Helper()

	g := &gateway{
		mux:  http.NewServeMux(),
		auth: &service.AuthConfig{Secret: testSecret, MaxAge: time.Hour},
	}
	g.backend = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		g.calls.Add(1)
		g.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(g.backend.Close)

	m := metrics.New()
	client := backend.NewClient(g.backend.URL, 5*time.Second, m)
	reader := &service.SessionReader{Config: g.auth}
	issuer := &service.SessionIssuer{
		Config:      g.auth,
		Credentials: &service.CredentialAuthenticator{API: client},
		OAuth:       &service.OAuthIdentityReconciler{API: client},
		Metrics:     m,
	}

	flows, err := oauth.NewFlowStore(testSecret, false)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := gwhttp.NewRouter(testPublicURL, "test", false, logger)
	r.Auth = g.auth
	r.Reader = reader
	r.Issuer = issuer
	r.Registrar = &service.Registrar{API: client, Issuer: issuer, Metrics: m}
	r.Proxy = &service.AuthenticatedProxy{Reader: reader, API: client}
	r.Backend = client
	r.Providers = oauth.NewRegistry(&fakeProvider{})
	r.Flows = flows
	r.Metrics = m
	r.ApplyRoutes()

	g.router = r
	return g
}

// handle registers a canned backend answer.
func (g *gateway) handle(pattern string, status int, body string) {
	g.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})
}

func (g *gateway) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	g.router.ServeHTTP(rec, req)
	return rec
}

// token mints a session token the gateway accepts.
func (g *gateway) token(t *testing.T, sub string) string {
	t.Helper()
	tok, err := jwtx.Encode(jwtx.NewSessionClaims(sub, sub+"@example.com", "Test User", ""), testSecret, time.Hour)
	require.NoError(t, err)
	return tok
}

func withSession(req *http.Request, token string) *http.Request {
	req.AddCookie(&http.Cookie{Name: service.CookieName, Value: token})
	return req
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func formRequest(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// fakeProvider is an identity provider that accepts the code "good-code".
type fakeProvider struct{}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) AuthCodeURL(state, challenge string) string {
	return "https://idp.test/authorize?" + url.Values{
		"state":          {state},
		"code_challenge": {challenge},
	}.Encode()
}

func (p *fakeProvider) Exchange(_ context.Context, code, verifier string) (domain.OAuthProfile, error) {
	if code != "good-code" || verifier == "" {
		return domain.OAuthProfile{}, oauth.ErrUnknownProvider
	}
	return domain.OAuthProfile{
		ProviderID:        "fake",
		ProviderAccountID: "acct-1",
		Email:             "oauth@example.com",
		Name:              "OAuth User",
		ImageURL:          "https://img.test/a.png",
	}, nil
}
