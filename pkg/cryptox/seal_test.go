package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSealer(t *testing.T) {
	t.Parallel()

	s, err := NewSealer("session-secret", "oauth-flow")
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		sealed, err := s.Seal([]byte(`{"state":"abc"}`))
		require.NoError(t, err)
		require.NotContains(t, sealed, "abc")

		plain, err := s.Open(sealed)
		require.NoError(t, err)
		require.Equal(t, `{"state":"abc"}`, string(plain))
	})

	t.Run("fresh nonce per seal", func(t *testing.T) {
		a, err := s.Seal([]byte("same"))
		require.NoError(t, err)
		b, err := s.Seal([]byte("same"))
		require.NoError(t, err)
		require.NotEqual(t, a, b)
	})

	t.Run("tampered value", func(t *testing.T) {
		sealed, err := s.Seal([]byte("payload"))
		require.NoError(t, err)

		b := []byte(sealed)
		if b[len(b)-1] == 'A' {
			b[len(b)-1] = 'B'
		} else {
			b[len(b)-1] = 'A'
		}
		_, err = s.Open(string(b))
		require.ErrorIs(t, err, ErrUnseal)
	})

	t.Run("other purpose cannot open", func(t *testing.T) {
		other, err := NewSealer("session-secret", "something-else")
		require.NoError(t, err)

		sealed, err := s.Seal([]byte("payload"))
		require.NoError(t, err)
		_, err = other.Open(sealed)
		require.ErrorIs(t, err, ErrUnseal)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := s.Open("%%%")
		require.ErrorIs(t, err, ErrUnseal)
		_, err = s.Open("")
		require.ErrorIs(t, err, ErrUnseal)
	})

	t.Run("empty secret", func(t *testing.T) {
		_, err := NewSealer("", "oauth-flow")
		require.Error(t, err)
	})
}
