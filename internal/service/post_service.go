package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"network/internal/models"
	"network/internal/observability"
	"network/internal/repository"
)

// PostService enforces the post store rules.
type PostService struct {
	postRepo repository.PostRepository
}

// EditPostInput replaces the content of an existing post.
type EditPostInput struct {
	UserID  uint
	PostID  uint
	Content string
}

// LikeResult is the state after a like toggle.
type LikeResult struct {
	Liked bool  `json:"liked"`
	Likes int64 `json:"likes"`
}

// NewPostService returns a new PostService.
func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

func validateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return models.NewValidationError("Post content cannot be empty")
	}
	if utf8.RuneCountInString(content) > models.MaxPostContentLength {
		return models.NewValidationError(fmt.Sprintf("Post content cannot exceed %d characters", models.MaxPostContentLength))
	}
	return nil
}

// CreatePost stores a new post by authorID. The creation time is assigned on write.
func (s *PostService) CreatePost(ctx context.Context, authorID uint, content string) (*models.Post, error) {
	if err := validateContent(content); err != nil {
		return nil, err
	}

	post := &models.Post{
		Content: content,
		UserID:  &authorID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	observability.PostsCreated.Inc()
	return post, nil
}

// GetPost returns a post with its like count and the viewer's liked flag.
func (s *PostService) GetPost(ctx context.Context, postID, viewerID uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, postID, viewerID)
}

// EditPost replaces the content of a post its author owns.
func (s *PostService) EditPost(ctx context.Context, in EditPostInput) (*models.Post, error) {
	if err := validateContent(in.Content); err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return nil, err
	}
	if !post.AuthoredBy(in.UserID) {
		return nil, models.NewForbiddenError("You can only edit your own posts")
	}

	if err := s.postRepo.UpdateContent(ctx, in.PostID, in.Content); err != nil {
		return nil, err
	}
	post.Content = in.Content
	return post, nil
}

// ToggleLike likes the post for userID, or unlikes it if already liked.
func (s *PostService) ToggleLike(ctx context.Context, postID, userID uint) (*LikeResult, error) {
	liked, count, err := s.postRepo.ToggleLike(ctx, postID, userID)
	if err != nil {
		return nil, err
	}

	state := "unliked"
	if liked {
		state = "liked"
	}
	observability.LikeToggles.WithLabelValues(state).Inc()
	return &LikeResult{Liked: liked, Likes: count}, nil
}

// LikeCount returns how many users like the post.
func (s *PostService) LikeCount(ctx context.Context, postID uint) (int64, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, 0); err != nil {
		return 0, err
	}
	return s.postRepo.LikeCount(ctx, postID)
}

// Likers lists the users who like the post.
func (s *PostService) Likers(ctx context.Context, postID uint) ([]models.UserSummary, error) {
	return s.postRepo.Likers(ctx, postID)
}

// DeletePost removes a post its author owns.
func (s *PostService) DeletePost(ctx context.Context, actorID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID, 0)
	if err != nil {
		return err
	}
	if !post.AuthoredBy(actorID) {
		return models.NewForbiddenError("You can only delete your own posts")
	}
	return s.postRepo.Delete(ctx, postID)
}
