package user

import (
	"context"
	"strings"
	"testing"
	"time"

	"bookmory/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresRepo_CreateAndLookup(t *testing.T) {
	pool := testutil.OpenTestDB(t)
	repo := NewPostgresRepo(pool, 3*time.Second)
	ctx := context.Background()

	suffix := uuid.NewString()[:8]
	u := &User{
		Email:        "Reader-" + suffix + "@Example.com",
		Username:     "reader_" + suffix,
		PasswordHash: "hash",
		FirstName:    strPtr("Ada"),
	}
	require.NoError(t, repo.Create(ctx, u))
	t.Cleanup(func() { _, _ = pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, u.ID) })

	assert.NotEmpty(t, u.ID)
	assert.Equal(t, RoleUser, u.Role)
	assert.True(t, u.IsActive)

	byEmail, err := repo.GetByEmail(ctx, strings.ToLower(u.Email))
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	exists, err := repo.EmailExists(ctx, strings.ToUpper(u.Email))
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.UsernameExists(ctx, strings.ToUpper(u.Username))
	require.NoError(t, err)
	assert.True(t, exists)

	dup := &User{Email: strings.ToUpper(u.Email), Username: "other_" + suffix, PasswordHash: "hash"}
	assert.ErrorIs(t, repo.Create(ctx, dup), ErrEmailTaken)

	dup = &User{Email: "other-" + suffix + "@example.com", Username: u.Username, PasswordHash: "hash"}
	assert.ErrorIs(t, repo.Create(ctx, dup), ErrUsernameTaken)
}

func TestPostgresRepo_UpdateAndDelete(t *testing.T) {
	pool := testutil.OpenTestDB(t)
	repo := NewPostgresRepo(pool, 3*time.Second)
	ctx := context.Background()
	id := testutil.CreateTestUser(t, pool)

	inactive := false
	updated, err := repo.Update(ctx, id, Changes{LastName: strPtr("Lovelace"), IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, "Lovelace", *updated.LastName)
	assert.Nil(t, updated.FirstName)
	assert.False(t, updated.IsActive)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Lovelace", *got.LastName)

	require.NoError(t, repo.Delete(ctx, id))
	assert.ErrorIs(t, repo.Delete(ctx, id), ErrNotFound)

	_, err = repo.GetByID(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.Update(ctx, id, Changes{FirstName: strPtr("Ghost")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresRepo_List(t *testing.T) {
	pool := testutil.OpenTestDB(t)
	repo := NewPostgresRepo(pool, 3*time.Second)
	testutil.CreateTestUser(t, pool)
	testutil.CreateTestUser(t, pool)

	users, total, err := repo.List(context.Background(), 1, 0)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, total, 2)
	assert.Len(t, users, 1)
}
