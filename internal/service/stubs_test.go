package service

import (
	"context"
	"testing"

	"network/internal/config"
	"network/internal/database"
	"network/internal/models"
	"network/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type followRepoStub struct {
	createFn    func(context.Context, uint, uint) error
	deleteFn    func(context.Context, uint, uint) error
	existsFn    func(context.Context, uint, uint) (bool, error)
	followersFn func(context.Context, uint) ([]models.UserSummary, error)
	followingFn func(context.Context, uint) ([]models.UserSummary, error)
	countsFn    func(context.Context, uint) (models.FollowCounts, error)
}

func (s *followRepoStub) Create(ctx context.Context, followerID, followeeID uint) error {
	return s.createFn(ctx, followerID, followeeID)
}
func (s *followRepoStub) Delete(ctx context.Context, followerID, followeeID uint) error {
	return s.deleteFn(ctx, followerID, followeeID)
}
func (s *followRepoStub) Exists(ctx context.Context, followerID, followeeID uint) (bool, error) {
	return s.existsFn(ctx, followerID, followeeID)
}
func (s *followRepoStub) Followers(ctx context.Context, userID uint) ([]models.UserSummary, error) {
	return s.followersFn(ctx, userID)
}
func (s *followRepoStub) Following(ctx context.Context, userID uint) ([]models.UserSummary, error) {
	return s.followingFn(ctx, userID)
}
func (s *followRepoStub) Counts(ctx context.Context, userID uint) (models.FollowCounts, error) {
	return s.countsFn(ctx, userID)
}

type userRepoStub struct {
	getByIDFn           func(context.Context, uint) (*models.User, error)
	getByUsernameFn     func(context.Context, string) (*models.User, error)
	createFn            func(context.Context, *models.User) error
	createWithProfileFn func(context.Context, *models.User) error
	deleteFn            func(context.Context, uint) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) CreateWithProfile(ctx context.Context, user *models.User) error {
	return s.createWithProfileFn(ctx, user)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn: func(context.Context, uint) (*models.User, error) {
			return &models.User{}, nil
		},
		getByUsernameFn: func(context.Context, string) (*models.User, error) {
			return &models.User{}, nil
		},
		createFn:            func(context.Context, *models.User) error { return nil },
		createWithProfileFn: func(context.Context, *models.User) error { return nil },
		deleteFn:            func(context.Context, uint) error { return nil },
	}
}

type profileRepoStub struct {
	getByUserIDFn func(context.Context, uint) (*models.Profile, error)
	updateImageFn func(context.Context, uint, string) (*models.Profile, error)
}

func (s *profileRepoStub) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	return s.getByUserIDFn(ctx, userID)
}
func (s *profileRepoStub) UpdateImage(ctx context.Context, userID uint, image string) (*models.Profile, error) {
	return s.updateImageFn(ctx, userID, image)
}

type postRepoStub struct {
	createFn        func(context.Context, *models.Post) error
	getByIDFn       func(context.Context, uint, uint) (*models.Post, error)
	updateContentFn func(context.Context, uint, string) error
	deleteFn        func(context.Context, uint) error
	listFn          func(context.Context, repository.FeedFilter, int, int, uint) ([]*models.Post, error)
	countFn         func(context.Context, repository.FeedFilter) (int64, error)
	toggleLikeFn    func(context.Context, uint, uint) (bool, int64, error)
	likeCountFn     func(context.Context, uint) (int64, error)
	likersFn        func(context.Context, uint) ([]models.UserSummary, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id, currentUserID)
}
func (s *postRepoStub) UpdateContent(ctx context.Context, id uint, content string) error {
	return s.updateContentFn(ctx, id, content)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context, filter repository.FeedFilter, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.listFn(ctx, filter, limit, offset, currentUserID)
}
func (s *postRepoStub) Count(ctx context.Context, filter repository.FeedFilter) (int64, error) {
	return s.countFn(ctx, filter)
}
func (s *postRepoStub) ToggleLike(ctx context.Context, postID, userID uint) (bool, int64, error) {
	return s.toggleLikeFn(ctx, postID, userID)
}
func (s *postRepoStub) LikeCount(ctx context.Context, postID uint) (int64, error) {
	return s.likeCountFn(ctx, postID)
}
func (s *postRepoStub) Likers(ctx context.Context, postID uint) ([]models.UserSummary, error) {
	return s.likersFn(ctx, postID)
}

type avatarStub struct {
	saved   []string
	removed []string
	saveErr error
}

func (a *avatarStub) Save(_ context.Context, filename string, _ []byte) (string, error) {
	if a.saveErr != nil {
		return "", a.saveErr
	}
	rel := "avatars/" + filename
	a.saved = append(a.saved, rel)
	return rel, nil
}

func (a *avatarStub) Remove(rel string) error {
	a.removed = append(a.removed, rel)
	return nil
}

// services wires every service over one in-memory SQLite database.
type services struct {
	db     *gorm.DB
	users  *UserService
	follow *FollowService
	posts  *PostService
	feeds  *FeedService
}

func newTestServices(t *testing.T) *services {
	t.Helper()
	db, err := database.Connect(&config.Config{
		Env:        "test",
		DBDriver:   "sqlite",
		SQLitePath: ":memory:",
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	postRepo := repository.NewPostRepository(db)

	follows := NewFollowService(followRepo, userRepo)

	return &services{
		db:     db,
		users:  NewUserService(userRepo, repository.NewProfileRepository(db), &avatarStub{}),
		follow: follows,
		posts:  NewPostService(postRepo),
		feeds:  NewFeedService(postRepo, userRepo, follows),
	}
}

func (s *services) register(t *testing.T, username string) *models.User {
	t.Helper()
	u, err := s.users.Register(t.Context(), RegisterInput{
		Username:     username,
		Email:        username + "@example.com",
		Password:     "password123",
		Confirmation: "password123",
	})
	require.NoError(t, err)
	return u
}
