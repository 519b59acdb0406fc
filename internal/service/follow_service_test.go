package service

import (
	"context"
	"errors"
	"testing"

	"network/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowService_ValidateFollowRejectsSelf(t *testing.T) {
	svc := NewFollowService(&followRepoStub{}, noopUserRepo())

	err := svc.ValidateFollow(3, 3)
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != models.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := svc.ValidateFollow(3, 4); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestFollowService_FollowSelfNeverReachesRepository(t *testing.T) {
	repo := &followRepoStub{
		createFn: func(context.Context, uint, uint) error {
			t.Fatal("create must not be called for a self follow")
			return nil
		},
	}
	svc := NewFollowService(repo, noopUserRepo())

	err := svc.Follow(context.Background(), 5, 5)
	if !models.HasCode(err, models.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestFollowService_FollowUnknownUser(t *testing.T) {
	users := noopUserRepo()
	users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return nil, models.NewNotFoundError("User", id)
	}
	repo := &followRepoStub{
		createFn: func(context.Context, uint, uint) error {
			t.Fatal("create must not be called for a missing followee")
			return nil
		},
	}
	svc := NewFollowService(repo, users)

	err := svc.Follow(context.Background(), 1, 99)
	if !models.HasCode(err, models.CodeNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestFollowService_IsFollowingAnonymous(t *testing.T) {
	svc := NewFollowService(&followRepoStub{}, noopUserRepo())

	ok, err := svc.IsFollowing(context.Background(), 0, 4)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFollowService_FollowUnfollowMemberships(t *testing.T) {
	s := newTestServices(t)
	ctx := t.Context()
	alice := s.register(t, "alice")
	bob := s.register(t, "bob")

	require.NoError(t, s.follow.Follow(ctx, alice.ID, bob.ID))

	following, err := s.follow.Following(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []models.UserSummary{{ID: bob.ID, Username: "bob"}}, following)

	followers, err := s.follow.Followers(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, []models.UserSummary{{ID: alice.ID, Username: "alice"}}, followers)

	ok, err := s.follow.IsFollowing(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.follow.IsFollowing(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	err = s.follow.Follow(ctx, alice.ID, bob.ID)
	assert.True(t, models.HasCode(err, models.CodeConflict))

	require.NoError(t, s.follow.Unfollow(ctx, alice.ID, bob.ID))

	following, err = s.follow.Following(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, following)

	followers, err = s.follow.Followers(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, followers)

	err = s.follow.Unfollow(ctx, alice.ID, bob.ID)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}

func TestFollowService_Counts(t *testing.T) {
	s := newTestServices(t)
	ctx := t.Context()
	alice := s.register(t, "alice")
	bob := s.register(t, "bob")
	carol := s.register(t, "carol")

	require.NoError(t, s.follow.Follow(ctx, bob.ID, alice.ID))
	require.NoError(t, s.follow.Follow(ctx, carol.ID, alice.ID))
	require.NoError(t, s.follow.Follow(ctx, alice.ID, carol.ID))

	counts, err := s.follow.Counts(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FollowCounts{Followers: 2, Following: 1}, counts)
}
