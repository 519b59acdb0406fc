// Package service holds the application's use cases on top of the repositories.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"network/internal/middleware"
	"network/internal/models"
	"network/internal/repository"
	"network/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// AvatarStorage persists uploaded profile images.
type AvatarStorage interface {
	Save(ctx context.Context, filename string, content []byte) (string, error)
	Remove(rel string) error
}

// UserService covers registration, authentication, avatars and account removal.
type UserService struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	avatars     AvatarStorage
}

// RegisterInput is the sign-up form.
type RegisterInput struct {
	Username     string
	Email        string
	Password     string
	Confirmation string
}

// NewUserService returns a new UserService.
func NewUserService(userRepo repository.UserRepository, profileRepo repository.ProfileRepository, avatars AvatarStorage) *UserService {
	return &UserService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		avatars:     avatars,
	}
}

// Register creates the account and its default profile in one step.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	if err := validation.ValidateRegistration(in.Username, in.Email, in.Password, in.Confirmation); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: string(hashed),
	}
	if err := s.userRepo.CreateWithProfile(ctx, user); err != nil {
		return nil, err
	}

	middleware.Logger.InfoContext(ctx, "user registered", slog.Uint64("new_user_id", uint64(user.ID)))
	return user, nil
}

// Authenticate returns the user for valid credentials and nil otherwise.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return user, nil
}

// GetByUsername resolves a user by their unique handle.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.userRepo.GetByUsername(ctx, username)
}

// GetByID resolves a user by id.
func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// UpdateAvatar stores a new profile image and points the profile at it.
// The previous upload is removed once the profile no longer references it.
func (s *UserService) UpdateAvatar(ctx context.Context, userID uint, filename string, content []byte) (*models.Profile, error) {
	if s.avatars == nil {
		return nil, models.NewInternalError(errors.New("avatar storage not configured"))
	}

	previous := ""
	if current, err := s.profileRepo.GetByUserID(ctx, userID); err == nil {
		previous = current.Image
	} else if !models.HasCode(err, models.CodeNotFound) {
		return nil, err
	}

	rel, err := s.avatars.Save(ctx, filename, content)
	if err != nil {
		return nil, err
	}

	profile, err := s.profileRepo.UpdateImage(ctx, userID, rel)
	if err != nil {
		_ = s.avatars.Remove(rel)
		return nil, err
	}

	if previous != "" && previous != rel {
		if err := s.avatars.Remove(previous); err != nil {
			middleware.Logger.WarnContext(ctx, "failed to remove previous avatar",
				slog.String("path", previous), slog.String("error", err.Error()))
		}
	}
	return profile, nil
}

// DeleteAccount removes the user and everything they own.
func (s *UserService) DeleteAccount(ctx context.Context, userID uint) error {
	image := ""
	if profile, err := s.profileRepo.GetByUserID(ctx, userID); err == nil {
		image = profile.Image
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return err
	}

	if image != "" && s.avatars != nil {
		if err := s.avatars.Remove(image); err != nil {
			middleware.Logger.WarnContext(ctx, "failed to remove avatar of deleted user",
				slog.String("path", image), slog.String("error", err.Error()))
		}
	}
	middleware.Logger.InfoContext(ctx, "account deleted", slog.Uint64("deleted_user_id", uint64(userID)))
	return nil
}
