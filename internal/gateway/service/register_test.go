package service_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/aussiebroadwan/jdmatchr/internal/gateway/domain"
	"github.com/aussiebroadwan/jdmatchr/internal/gateway/service"
	"github.com/stretchr/testify/require"
)

func newRegistrar(fb *fakeBackend) *service.Registrar {
	c := fb.client()
	return &service.Registrar{API: c, Issuer: newIssuer(newAuthConfig(), c)}
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()

	fb := newFakeBackend(t)
	_, err := newRegistrar(fb).Register(context.Background(), "", "a@b.com", "pw")
	require.ErrorIs(t, err, domain.ErrValidation)
	require.Zero(t, fb.calls.Load())
}

func TestRegisterAutoLogin(t *testing.T) {
	t.Parallel()

	fb := newFakeBackend(t)
	fb.handle("POST /api/v1/auth/register", http.StatusCreated, "application/json", `{"message":"User registered successfully"}`)
	fb.handle("POST /api/v1/auth/login", http.StatusOK, "application/json", `{"id":"u9","email":"a@b.com"}`)

	reg, err := newRegistrar(fb).Register(context.Background(), "A", "a@b.com", "pw")
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, reg.StatusCode)
	require.JSONEq(t, `{"message":"User registered successfully"}`, string(reg.Body))
	require.NotNil(t, reg.Session)
	require.Equal(t, "u9", reg.Session.Claims.Subject)
}

func TestRegisterRejectedIsMirrored(t *testing.T) {
	t.Parallel()

	fb := newFakeBackend(t)
	fb.handle("POST /api/v1/auth/register", http.StatusConflict, "text/plain", "Email already in use")

	reg, err := newRegistrar(fb).Register(context.Background(), "A", "a@b.com", "pw")
	require.NoError(t, err)
	require.Equal(t, http.StatusConflict, reg.StatusCode)
	require.JSONEq(t, `"Email already in use"`, string(reg.Body))
	require.Nil(t, reg.Session)
	require.EqualValues(t, 1, fb.calls.Load(), "no login attempt after a rejected registration")
}

func TestRegisterAutoLoginFailureKeepsRegistration(t *testing.T) {
	t.Parallel()

	fb := newFakeBackend(t)
	fb.handle("POST /api/v1/auth/register", http.StatusCreated, "application/json", `{"id":"u9"}`)
	fb.handle("POST /api/v1/auth/login", http.StatusInternalServerError, "", "")

	reg, err := newRegistrar(fb).Register(context.Background(), "A", "a@b.com", "pw")
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, reg.StatusCode)
	require.Nil(t, reg.Session)
}
