package service

import (
	"context"
	"errors"
	"testing"

	"network/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_RegisterRejectsInvalidInput(t *testing.T) {
	repo := noopUserRepo()
	repo.createWithProfileFn = func(context.Context, *models.User) error {
		t.Fatal("repository must not be called for invalid input")
		return nil
	}
	svc := NewUserService(repo, &profileRepoStub{}, nil)

	tests := []struct {
		name string
		in   RegisterInput
		msg  string
	}{
		{"missing fields", RegisterInput{Username: "alice", Password: "password123", Confirmation: "password123"}, "You must fill out all fields."},
		{"mismatch", RegisterInput{Username: "alice", Email: "a@example.com", Password: "password123", Confirmation: "password124"}, "Passwords must match."},
		{"mismatch checked before missing fields", RegisterInput{Username: "alice", Confirmation: "x"}, "Passwords must match."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.in)
			var appErr *models.AppError
			if !errors.As(err, &appErr) || appErr.Code != models.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
			assert.Equal(t, tt.msg, appErr.Message)
		})
	}
}

func TestUserService_RegisterHashesPassword(t *testing.T) {
	var stored *models.User
	repo := noopUserRepo()
	repo.createWithProfileFn = func(_ context.Context, u *models.User) error {
		u.ID = 7
		stored = u
		return nil
	}
	svc := NewUserService(repo, &profileRepoStub{}, nil)

	u, err := svc.Register(context.Background(), RegisterInput{
		Username:     " alice ",
		Email:        "alice@example.com",
		Password:     "password123",
		Confirmation: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, uint(7), u.ID)
	assert.Equal(t, "alice", stored.Username)
	assert.NotEqual(t, "password123", stored.Password)
}

func TestUserService_RegisterDuplicateUsername(t *testing.T) {
	s := newTestServices(t)
	s.register(t, "alice")

	_, err := s.users.Register(t.Context(), RegisterInput{
		Username:     "alice",
		Email:        "other@example.com",
		Password:     "password123",
		Confirmation: "password123",
	})
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeConflict, appErr.Code)
	assert.Equal(t, "Username already taken.", appErr.Message)
}

func TestUserService_Authenticate(t *testing.T) {
	s := newTestServices(t)
	alice := s.register(t, "alice")

	u, err := s.users.Authenticate(t.Context(), "alice", "password123")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, alice.ID, u.ID)

	u, err = s.users.Authenticate(t.Context(), "alice", "wrong-password")
	require.NoError(t, err)
	assert.Nil(t, u)

	u, err = s.users.Authenticate(t.Context(), "nobody", "password123")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestUserService_RegisterCreatesDefaultProfile(t *testing.T) {
	s := newTestServices(t)
	s.register(t, "alice")

	u, err := s.users.GetByUsername(t.Context(), "alice")
	require.NoError(t, err)
	require.NotNil(t, u.Profile)
	assert.Equal(t, models.DefaultAvatar, u.Profile.Image)
}

func TestUserService_UpdateAvatarReplacesPrevious(t *testing.T) {
	avatars := &avatarStub{}
	image := "avatars/old.png"
	profiles := &profileRepoStub{
		getByUserIDFn: func(context.Context, uint) (*models.Profile, error) {
			return &models.Profile{UserID: 1, Image: image}, nil
		},
		updateImageFn: func(_ context.Context, userID uint, img string) (*models.Profile, error) {
			image = img
			return &models.Profile{UserID: userID, Image: img}, nil
		},
	}
	svc := NewUserService(noopUserRepo(), profiles, avatars)

	p, err := svc.UpdateAvatar(context.Background(), 1, "new.png", []byte("img"))
	require.NoError(t, err)
	assert.Equal(t, "avatars/new.png", p.Image)
	assert.Equal(t, []string{"avatars/old.png"}, avatars.removed)
}

func TestUserService_UpdateAvatarRollsBackFile(t *testing.T) {
	avatars := &avatarStub{}
	profiles := &profileRepoStub{
		getByUserIDFn: func(context.Context, uint) (*models.Profile, error) {
			return &models.Profile{Image: models.DefaultAvatar}, nil
		},
		updateImageFn: func(context.Context, uint, string) (*models.Profile, error) {
			return nil, models.NewInternalError(errors.New("db down"))
		},
	}
	svc := NewUserService(noopUserRepo(), profiles, avatars)

	_, err := svc.UpdateAvatar(context.Background(), 1, "new.png", []byte("img"))
	require.Error(t, err)
	assert.Equal(t, []string{"avatars/new.png"}, avatars.removed)
}

func TestUserService_DeleteAccount(t *testing.T) {
	s := newTestServices(t)
	alice := s.register(t, "alice")
	bob := s.register(t, "bob")

	post, err := s.posts.CreatePost(t.Context(), alice.ID, "bye")
	require.NoError(t, err)
	require.NoError(t, s.follow.Follow(t.Context(), bob.ID, alice.ID))
	_, err = s.posts.ToggleLike(t.Context(), post.ID, bob.ID)
	require.NoError(t, err)

	require.NoError(t, s.users.DeleteAccount(t.Context(), alice.ID))

	_, err = s.users.GetByUsername(t.Context(), "alice")
	assert.True(t, models.HasCode(err, models.CodeNotFound))

	counts, err := s.follow.Counts(t.Context(), bob.ID)
	require.NoError(t, err)
	assert.Zero(t, counts.Following)

	page, err := s.feeds.Global(t.Context(), 0, 1)
	require.NoError(t, err)
	assert.Empty(t, page.Posts)

	err = s.users.DeleteAccount(t.Context(), alice.ID)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}
