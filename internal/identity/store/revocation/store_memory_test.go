package revocation

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestMemoryTRL(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown jti is not revoked", func(t *testing.T) {
		trl := NewMemoryTRL()
		revoked, err := trl.IsRevoked(ctx, uuid.NewString())
		require.NoError(t, err)
		require.False(t, revoked)
	})

	t.Run("revoked jti is reported while the ttl holds", func(t *testing.T) {
		trl := NewMemoryTRL()
		jti := uuid.NewString()
		require.NoError(t, trl.RevokeToken(ctx, jti, time.Hour))

		revoked, err := trl.IsRevoked(ctx, jti)
		require.NoError(t, err)
		require.True(t, revoked)
	})

	t.Run("expired entries stop reporting as revoked", func(t *testing.T) {
		trl := NewMemoryTRL()
		jti := uuid.NewString()
		require.NoError(t, trl.RevokeToken(ctx, jti, time.Millisecond))
		time.Sleep(5 * time.Millisecond)

		revoked, err := trl.IsRevoked(ctx, jti)
		require.NoError(t, err)
		require.False(t, revoked)
	})
}
