package repository

import (
	"context"
	"errors"

	"network/internal/models"

	"gorm.io/gorm"
)

// ProfileRepository defines persistence operations for user profiles.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uint) (*models.Profile, error)
	UpdateImage(ctx context.Context, userID uint, image string) (*models.Profile, error)
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository returns a new ProfileRepository implementation.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Profile", userID)
		}
		return nil, models.NewInternalError(err)
	}
	return &profile, nil
}

// UpdateImage replaces the avatar reference, creating the profile if the user has none yet.
func (r *profileRepository) UpdateImage(ctx context.Context, userID uint, image string) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where(models.Profile{UserID: userID}).
			Attrs(models.Profile{Image: models.DefaultAvatar}).
			FirstOrCreate(&profile).Error
		if err != nil {
			return err
		}
		return tx.Model(&profile).Update("image", image).Error
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &profile, nil
}
