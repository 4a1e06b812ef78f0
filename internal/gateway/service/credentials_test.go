package service_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/aussiebroadwan/jdmatchr/internal/gateway/domain"
	"github.com/aussiebroadwan/jdmatchr/internal/gateway/service"
	"github.com/stretchr/testify/require"
)

func TestAuthorizeValidation(t *testing.T) {
	t.Parallel()

	fb := newFakeBackend(t)
	auth := &service.CredentialAuthenticator{API: fb.client()}

	for _, tc := range []struct{ name, email, password string }{
		{"blank email", "", "anything"},
		{"blank password", "a@b.com", ""},
		{"whitespace email", "   ", "anything"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := auth.Authorize(context.Background(), tc.email, tc.password)
			require.ErrorIs(t, err, domain.ErrValidation)
		})
	}

	require.Zero(t, fb.calls.Load(), "validation must happen before any backend call")
}

func TestAuthorize(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		fb := newFakeBackend(t)
		fb.handle("POST /api/v1/auth/login", http.StatusOK, "application/json",
			`{"id":"u1","name":"User","email":"user@x.com","imageUrl":"https://img/u1.png"}`)

		id, err := (&service.CredentialAuthenticator{API: fb.client()}).
			Authorize(context.Background(), "user@x.com", "correct")
		require.NoError(t, err)
		require.Equal(t, domain.Identity{ID: "u1", Name: "User", Email: "user@x.com", ImageURL: "https://img/u1.png"}, id)
	})

	t.Run("backend message surfaced verbatim", func(t *testing.T) {
		fb := newFakeBackend(t)
		fb.handle("POST /api/v1/auth/login", http.StatusUnauthorized, "application/json",
			`{"status":401,"error":"Unauthorized","message":"Invalid email or password."}`)

		_, err := (&service.CredentialAuthenticator{API: fb.client()}).
			Authorize(context.Background(), "user@x.com", "wrong")
		require.ErrorIs(t, err, domain.ErrAuthentication)
		require.Equal(t, "Invalid email or password.", err.Error())
	})

	t.Run("text body used when not JSON", func(t *testing.T) {
		fb := newFakeBackend(t)
		fb.handle("POST /api/v1/auth/login", http.StatusForbidden, "text/plain", "Account locked")

		_, err := (&service.CredentialAuthenticator{API: fb.client()}).
			Authorize(context.Background(), "user@x.com", "pw")
		require.ErrorIs(t, err, domain.ErrAuthentication)
		require.Equal(t, "Account locked", err.Error())
	})

	t.Run("status fallback", func(t *testing.T) {
		fb := newFakeBackend(t)
		fb.handle("POST /api/v1/auth/login", http.StatusServiceUnavailable, "", "")

		_, err := (&service.CredentialAuthenticator{API: fb.client()}).
			Authorize(context.Background(), "user@x.com", "pw")
		require.ErrorIs(t, err, domain.ErrAuthentication)
		require.Equal(t, "Login failed: status 503", err.Error())
	})

	t.Run("missing id is a protocol error", func(t *testing.T) {
		fb := newFakeBackend(t)
		fb.handle("POST /api/v1/auth/login", http.StatusOK, "application/json", `{"name":"User"}`)

		_, err := (&service.CredentialAuthenticator{API: fb.client()}).
			Authorize(context.Background(), "user@x.com", "pw")
		require.ErrorIs(t, err, domain.ErrProtocol)
		require.Equal(t, http.StatusInternalServerError, domain.AsProxiedError(err).StatusCode)
	})

	t.Run("unreachable backend", func(t *testing.T) {
		fb := newFakeBackend(t)
		c := fb.client()
		fb.Close()

		_, err := (&service.CredentialAuthenticator{API: c}).
			Authorize(context.Background(), "user@x.com", "pw")
		require.ErrorIs(t, err, domain.ErrAuthentication)
		require.Equal(t, http.StatusBadGateway, domain.AsProxiedError(err).StatusCode)
	})
}
