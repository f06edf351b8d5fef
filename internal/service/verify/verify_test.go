package verify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	newFast := func(mode string) *VerifyService {
		s := NewService(mode)
		s.delay = time.Millisecond
		return s
	}

	t.Run("permissive accepts any non-empty reference", func(t *testing.T) {
		s := newFast(ModePermissive)

		ok, err := s.Check(t.Context(), "TRX9F2K1")
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = s.Check(t.Context(), "   ")
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("strict accepts exactly four digits", func(t *testing.T) {
		s := newFast(ModeStrict)

		cases := map[string]bool{
			"1234":  true,
			"0000":  true,
			"123":   false,
			"12345": false,
			"12a4":  false,
			"":      false,
		}

		for reference, expected := range cases {
			ok, err := s.Check(t.Context(), reference)
			require.NoError(t, err)
			require.Equal(t, expected, ok, "reference %q", reference)
		}
	})

	t.Run("unknown mode falls back to permissive", func(t *testing.T) {
		s := newFast("whatever")

		ok, err := s.Check(t.Context(), "x")
		require.NoError(t, err)
		require.True(t, ok)
	})

	t.Run("cancelled context aborts the delay", func(t *testing.T) {
		s := NewService(ModePermissive) // full delay

		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		_, err := s.Check(ctx, "1234")
		require.ErrorIs(t, err, context.Canceled)
	})
}
