// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"

	"network/internal/database"
	"network/internal/models"
	"network/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	CreateWithProfile(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	defer observability.TrackQuery("get", "users")()

	var user models.User
	if err := r.db.WithContext(ctx).Preload("Profile").First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	defer observability.TrackQuery("get", "users")()

	var user models.User
	if err := r.db.WithContext(ctx).Preload("Profile").Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", username)
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return createUser(r.db.WithContext(ctx), user)
}

// CreateWithProfile inserts the user and its default profile atomically.
func (r *userRepository) CreateWithProfile(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := createUser(tx, user); err != nil {
			return err
		}
		profile := &models.Profile{UserID: user.ID, Image: models.DefaultAvatar}
		if err := tx.Create(profile).Error; err != nil {
			return models.NewInternalError(err)
		}
		user.Profile = profile
		return nil
	})
}

func createUser(db *gorm.DB, user *models.User) error {
	if err := db.Omit(clause.Associations).Create(user).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return models.NewConflictError("Username already taken.")
		}
		return models.NewInternalError(err)
	}
	return nil
}

// Delete removes the user together with their profile, posts, likes and follow edges.
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Select("id").First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", id)
			}
			return models.NewInternalError(err)
		}

		ownPosts := tx.Model(&models.Post{}).Select("id").Where("user_id = ?", id)
		steps := []*gorm.DB{
			tx.Where("user_id = ? OR post_id IN (?)", id, ownPosts).Delete(&models.PostLike{}),
			tx.Where("follower_id = ? OR followee_id = ?", id, id).Delete(&models.Follow{}),
			tx.Where("user_id = ?", id).Delete(&models.Post{}),
			tx.Where("user_id = ?", id).Delete(&models.Profile{}),
			tx.Delete(&models.User{}, id),
		}
		for _, step := range steps {
			if step.Error != nil {
				return models.NewInternalError(step.Error)
			}
		}
		return nil
	})
}
