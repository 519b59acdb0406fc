package service

import (
	"context"

	"network/internal/models"
	"network/internal/observability"
	"network/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// FollowService owns the follow graph rules.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

// NewFollowService returns a new FollowService.
func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *FollowService {
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
	}
}

// ValidateFollow rejects edges a user cannot create, currently only following oneself.
func (s *FollowService) ValidateFollow(followerID, followeeID uint) error {
	if followerID == followeeID {
		return models.NewValidationError("You cannot follow yourself")
	}
	return nil
}

// Follow adds the edge follower -> followee.
func (s *FollowService) Follow(ctx context.Context, followerID, followeeID uint) (err error) {
	ctx, span := observability.StartSpan(ctx, "FollowService", "Follow",
		attribute.Int64("follower.id", int64(followerID)),
		attribute.Int64("followee.id", int64(followeeID)))
	defer func() { observability.EndSpan(span, err) }()

	if err = s.ValidateFollow(followerID, followeeID); err != nil {
		return err
	}
	if _, err = s.userRepo.GetByID(ctx, followeeID); err != nil {
		return err
	}
	if err = s.followRepo.Create(ctx, followerID, followeeID); err != nil {
		return err
	}
	observability.FollowChanges.WithLabelValues("follow").Inc()
	return nil
}

// Unfollow removes the edge follower -> followee.
func (s *FollowService) Unfollow(ctx context.Context, followerID, followeeID uint) (err error) {
	ctx, span := observability.StartSpan(ctx, "FollowService", "Unfollow",
		attribute.Int64("follower.id", int64(followerID)),
		attribute.Int64("followee.id", int64(followeeID)))
	defer func() { observability.EndSpan(span, err) }()

	if err = s.followRepo.Delete(ctx, followerID, followeeID); err != nil {
		return err
	}
	observability.FollowChanges.WithLabelValues("unfollow").Inc()
	return nil
}

// Followers returns everyone following userID.
func (s *FollowService) Followers(ctx context.Context, userID uint) ([]models.UserSummary, error) {
	return s.followRepo.Followers(ctx, userID)
}

// Following returns everyone userID follows.
func (s *FollowService) Following(ctx context.Context, userID uint) ([]models.UserSummary, error) {
	return s.followRepo.Following(ctx, userID)
}

// IsFollowing reports whether the edge follower -> followee exists.
func (s *FollowService) IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error) {
	if followerID == 0 || followeeID == 0 {
		return false, nil
	}
	return s.followRepo.Exists(ctx, followerID, followeeID)
}

// Counts returns the follower and following totals for userID.
func (s *FollowService) Counts(ctx context.Context, userID uint) (models.FollowCounts, error) {
	return s.followRepo.Counts(ctx, userID)
}
