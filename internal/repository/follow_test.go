package repository

import (
	"context"
	"testing"

	"network/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowRepository_Integration(t *testing.T) {
	db := newTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	carol := createUser(t, db, "carol")

	t.Run("Create and traverse both directions", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, alice.ID, bob.ID))
		require.NoError(t, repo.Create(ctx, carol.ID, bob.ID))

		followers, err := repo.Followers(ctx, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"alice", "carol"}, usernames(followers))

		following, err := repo.Following(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"bob"}, usernames(following))

		// Edges are directed.
		following, err = repo.Following(ctx, bob.ID)
		require.NoError(t, err)
		assert.Empty(t, following)

		counts, err := repo.Counts(ctx, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, models.FollowCounts{Followers: 2, Following: 0}, counts)
	})

	t.Run("Duplicate edge is conflict", func(t *testing.T) {
		err := repo.Create(ctx, alice.ID, bob.ID)
		assert.True(t, models.HasCode(err, models.CodeConflict))
	})

	t.Run("Exists", func(t *testing.T) {
		ok, err := repo.Exists(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.Exists(ctx, bob.ID, alice.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Delete removes both memberships", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, alice.ID, bob.ID))

		followers, err := repo.Followers(ctx, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"carol"}, usernames(followers))

		following, err := repo.Following(ctx, alice.ID)
		require.NoError(t, err)
		assert.Empty(t, following)
	})

	t.Run("Delete missing edge is not found", func(t *testing.T) {
		err := repo.Delete(ctx, alice.ID, bob.ID)
		assert.True(t, models.HasCode(err, models.CodeNotFound))
	})

	t.Run("Store accepts self edge", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, carol.ID, carol.ID))
		ok, err := repo.Exists(ctx, carol.ID, carol.ID)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}
