package auth

import (
	"context"
	"testing"
	"time"

	"bookmory/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlacklistPostgresRepo_AddAndCheck(t *testing.T) {
	pool := testutil.OpenTestDB(t)
	repo := NewBlacklistPostgresRepo(pool, 3*time.Second)
	ctx := context.Background()
	userID := testutil.CreateTestUser(t, pool)

	jti := uuid.NewString()
	require.NoError(t, repo.Add(ctx, jti, userID, time.Now().Add(time.Hour)))
	// a second logout with the same token is a no-op
	require.NoError(t, repo.Add(ctx, jti, userID, time.Now().Add(time.Hour)))

	revoked, err := repo.IsBlacklisted(ctx, jti)
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = repo.IsBlacklisted(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestBlacklistPostgresRepo_DeleteExpired(t *testing.T) {
	pool := testutil.OpenTestDB(t)
	repo := NewBlacklistPostgresRepo(pool, 3*time.Second)
	ctx := context.Background()
	userID := testutil.CreateTestUser(t, pool)

	expired := uuid.NewString()
	live := uuid.NewString()
	require.NoError(t, repo.Add(ctx, expired, userID, time.Now().Add(-time.Hour)))
	require.NoError(t, repo.Add(ctx, live, userID, time.Now().Add(time.Hour)))

	revoked, err := repo.IsBlacklisted(ctx, expired)
	require.NoError(t, err)
	assert.False(t, revoked)

	n, err := repo.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, int64(1))

	revoked, err = repo.IsBlacklisted(ctx, live)
	require.NoError(t, err)
	assert.True(t, revoked)
}
