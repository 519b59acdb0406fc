package repository

import (
	"context"
	"fmt"

	"network/internal/database"
	"network/internal/models"
	"network/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowRepository defines persistence operations for the directed follow graph.
// It stores edges as given; rejecting self-follows is the caller's concern.
type FollowRepository interface {
	Create(ctx context.Context, followerID, followeeID uint) error
	Delete(ctx context.Context, followerID, followeeID uint) error
	Exists(ctx context.Context, followerID, followeeID uint) (bool, error)
	Followers(ctx context.Context, userID uint) ([]models.UserSummary, error)
	Following(ctx context.Context, userID uint) ([]models.UserSummary, error)
	Counts(ctx context.Context, userID uint) (models.FollowCounts, error)
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository returns a new FollowRepository implementation.
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Create(ctx context.Context, followerID, followeeID uint) error {
	defer observability.TrackQuery("create", "follow_edges")()

	edge := &models.Follow{FollowerID: followerID, FolloweeID: followeeID}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(edge).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return models.NewConflictError("Already following this user")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *followRepository) Delete(ctx context.Context, followerID, followeeID uint) error {
	defer observability.TrackQuery("delete", "follow_edges")()

	result := r.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&models.Follow{})
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Follow", fmt.Sprintf("%d->%d", followerID, followeeID))
	}
	return nil
}

func (r *followRepository) Exists(ctx context.Context, followerID, followeeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// Followers returns the users following userID, ordered by username.
func (r *followRepository) Followers(ctx context.Context, userID uint) ([]models.UserSummary, error) {
	return r.neighbours(ctx, "follow_edges.follower_id", "follow_edges.followee_id", userID)
}

// Following returns the users userID follows, ordered by username.
func (r *followRepository) Following(ctx context.Context, userID uint) ([]models.UserSummary, error) {
	return r.neighbours(ctx, "follow_edges.followee_id", "follow_edges.follower_id", userID)
}

func (r *followRepository) neighbours(ctx context.Context, joinCol, filterCol string, userID uint) ([]models.UserSummary, error) {
	defer observability.TrackQuery("list", "follow_edges")()

	out := []models.UserSummary{}
	err := r.db.WithContext(ctx).
		Table("users").
		Select("users.id, users.username").
		Joins("JOIN follow_edges ON "+joinCol+" = users.id").
		Where(filterCol+" = ?", userID).
		Order("users.username ASC").
		Scan(&out).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return out, nil
}

func (r *followRepository) Counts(ctx context.Context, userID uint) (models.FollowCounts, error) {
	var counts models.FollowCounts
	db := r.db.WithContext(ctx)
	if err := db.Model(&models.Follow{}).Where("followee_id = ?", userID).Count(&counts.Followers).Error; err != nil {
		return counts, models.NewInternalError(err)
	}
	if err := db.Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&counts.Following).Error; err != nil {
		return counts, models.NewInternalError(err)
	}
	return counts, nil
}
