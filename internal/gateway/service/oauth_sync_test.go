package service_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/aussiebroadwan/jdmatchr/internal/gateway/domain"
	"github.com/aussiebroadwan/jdmatchr/internal/gateway/service"
	"github.com/stretchr/testify/require"
)

// ensureStore mimics the backend's find-or-create keyed on provider+account.
type ensureStore struct {
	mu    sync.Mutex
	users map[string]string
}

func (s *ensureStore) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var p domain.OAuthProfile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	key := p.ProviderID + "|" + p.ProviderAccountID
	id, ok := s.users[key]
	if !ok {
		id = fmt.Sprintf("user-%d", len(s.users)+1)
		s.users[key] = id
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"userId": id})
}

func TestEnsureIsIdempotent(t *testing.T) {
	t.Parallel()

	fb := newFakeBackend(t)
	fb.mux.Handle("POST /api/v1/users/ensure-oauth", &ensureStore{users: map[string]string{}})
	rec := &service.OAuthIdentityReconciler{API: fb.client()}

	profile := domain.OAuthProfile{ProviderID: "google", ProviderAccountID: "g-1", Email: "a@b.com"}

	first, err := rec.Ensure(context.Background(), profile)
	require.NoError(t, err)

	profile.Name = "Renamed"
	second, err := rec.Ensure(context.Background(), profile)
	require.NoError(t, err)
	require.Equal(t, first, second)

	other, err := rec.Ensure(context.Background(), domain.OAuthProfile{ProviderID: "google", ProviderAccountID: "g-2"})
	require.NoError(t, err)
	require.NotEqual(t, first, other)
}

func TestEnsureFailures(t *testing.T) {
	t.Parallel()

	profile := domain.OAuthProfile{ProviderID: "google", ProviderAccountID: "g-1"}

	t.Run("non-2xx", func(t *testing.T) {
		fb := newFakeBackend(t)
		fb.handle("POST /api/v1/users/ensure-oauth", http.StatusInternalServerError, "text/plain", "db down")

		_, err := (&service.OAuthIdentityReconciler{API: fb.client()}).Ensure(context.Background(), profile)
		require.ErrorIs(t, err, domain.ErrSync)

		var de *domain.Error
		require.ErrorAs(t, err, &de)
		require.Equal(t, "db down", de.Raw)
		require.Contains(t, de.Err.Error(), "status 500")
	})

	t.Run("missing userId", func(t *testing.T) {
		fb := newFakeBackend(t)
		fb.handle("POST /api/v1/users/ensure-oauth", http.StatusOK, "application/json", `{"id":"u1"}`)

		_, err := (&service.OAuthIdentityReconciler{API: fb.client()}).Ensure(context.Background(), profile)
		require.ErrorIs(t, err, domain.ErrSync)
	})

	t.Run("missing provider account", func(t *testing.T) {
		fb := newFakeBackend(t)

		_, err := (&service.OAuthIdentityReconciler{API: fb.client()}).
			Ensure(context.Background(), domain.OAuthProfile{ProviderID: "google"})
		require.ErrorIs(t, err, domain.ErrSync)
		require.Zero(t, fb.calls.Load())
	})
}
