//go:build integration

package revocation

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/chrisstorey/community-building-manager/pkg/testutil/containers"
)

func TestRedisTRL(t *testing.T) {
	ctx := context.Background()
	rc := containers.NewRedisContainer(t)
	trl := NewRedisTRL(rc.Client)

	t.Run("unknown jti is not revoked", func(t *testing.T) {
		revoked, err := trl.IsRevoked(ctx, uuid.NewString())
		require.NoError(t, err)
		require.False(t, revoked)
	})

	t.Run("revoked jti is reported until the ttl lapses", func(t *testing.T) {
		jti := uuid.NewString()
		require.NoError(t, trl.RevokeToken(ctx, jti, time.Second))

		revoked, err := trl.IsRevoked(ctx, jti)
		require.NoError(t, err)
		require.True(t, revoked)

		time.Sleep(1500 * time.Millisecond)

		revoked, err = trl.IsRevoked(ctx, jti)
		require.NoError(t, err)
		require.False(t, revoked)
	})
}
