package gateway_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/jdmatchr/internal/gateway/app"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * End-to-end tests run the gateway in process against a WireMock container
 * standing in for the Analysis Backend. Stubs are registered per test
 * through the WireMock admin API.
 */

const (
	wiremockImage = "wiremock/wiremock:3.9.1"
	sessionSecret = "e2e-session-secret"
)

// setupBackend starts WireMock and returns its base URL.
func setupBackend(t *testing.T) (string, func()) {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        wiremockImage,
		ExposedPorts: []string{"8080/tcp"},
		WaitingFor: wait.ForHTTP("/__admin/mappings").
			WithPort("8080/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	baseURL := fmt.Sprintf("http://%s:%s", host, mappedPort.Port())

	cleanup := func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return baseURL, cleanup
}

// setupGateway wires the full application against backendURL.
func setupGateway(t *testing.T, backendURL string) *httptest.Server {
	t.Helper()

	application, err := app.New(app.Config{
		Secret:              sessionSecret,
		BackendURL:          backendURL,
		PublicURL:           "http://localhost",
		SessionMaxAge:       time.Hour,
		BackendTimeout:      10 * time.Second,
		Env:                 "test",
		LogLevel:            "warn",
		LogFormat:           "json",
		ShutdownGracePeriod: time.Second,
	})
	require.NoError(t, err)

	srv := httptest.NewServer(application.Handler())
	t.Cleanup(srv.Close)
	return srv
}

// stub is a WireMock mapping.
type stub struct {
	Request  map[string]any `json:"request"`
	Response map[string]any `json:"response"`
}

func addStub(t *testing.T, backendURL string, s stub) {
	t.Helper()

	body, err := json.Marshal(s)
	require.NoError(t, err)

	resp, err := http.Post(backendURL+"/__admin/mappings", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func jsonResponse(status int, body string) map[string]any {
	return map[string]any{
		"status":  status,
		"headers": map[string]string{"Content-Type": "application/json"},
		"body":    body,
	}
}

// browser is an HTTP client that keeps cookies and does not follow redirects.
func browser(t *testing.T) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func postJSON(t *testing.T, c *http.Client, url, body string) *http.Response {
	t.Helper()

	resp, err := c.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func get(t *testing.T, c *http.Client, url string) *http.Response {
	t.Helper()

	resp, err := c.Get(url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}
