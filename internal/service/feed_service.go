package service

import (
	"context"

	"network/internal/models"
	"network/internal/observability"
	"network/internal/pagination"
	"network/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// Feed kinds, also used as metric labels.
const (
	FeedGlobal    = "global"
	FeedProfile   = "profile"
	FeedFollowing = "following"
)

// FeedPage is one page of a feed, newest first.
type FeedPage struct {
	Posts []*models.Post `json:"posts"`
	pagination.Page
}

// ProfileView is everything shown on a user's profile page.
type ProfileView struct {
	User        models.UserSummary  `json:"user"`
	Image       string              `json:"image"`
	Counts      models.FollowCounts `json:"counts"`
	IsFollowing bool                `json:"is_following"`
	IsSelf      bool                `json:"is_self"`
	Feed        *FeedPage           `json:"feed"`
}

// FeedService composes the global, profile and following feeds.
type FeedService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
	follows  *FollowService
	pageSize int
}

// NewFeedService returns a FeedService paging by pagination.DefaultPageSize.
func NewFeedService(postRepo repository.PostRepository, userRepo repository.UserRepository, follows *FollowService) *FeedService {
	return &FeedService{
		postRepo: postRepo,
		userRepo: userRepo,
		follows:  follows,
		pageSize: pagination.DefaultPageSize,
	}
}

// Global returns every post.
func (s *FeedService) Global(ctx context.Context, viewerID uint, page int) (*FeedPage, error) {
	return s.compose(ctx, FeedGlobal, repository.FeedFilter{}, viewerID, page)
}

// Profile returns the posts written by username.
func (s *FeedService) Profile(ctx context.Context, username string, viewerID uint, page int) (*FeedPage, error) {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.compose(ctx, FeedProfile, repository.FeedFilter{AuthorID: author.ID}, viewerID, page)
}

// Following returns posts by the users viewerID follows. Following nobody, or an
// anonymous viewer, yields an empty page.
func (s *FeedService) Following(ctx context.Context, viewerID uint, page int) (*FeedPage, error) {
	if viewerID == 0 {
		observability.FeedPagesServed.WithLabelValues(FeedFollowing).Inc()
		return &FeedPage{Posts: []*models.Post{}, Page: pagination.Window(0, page, s.pageSize)}, nil
	}
	return s.compose(ctx, FeedFollowing, repository.FeedFilter{FollowedBy: viewerID}, viewerID, page)
}

// ProfileView assembles username's profile as seen by viewerID (0 for anonymous).
func (s *FeedService) ProfileView(ctx context.Context, username string, viewerID uint, page int) (*ProfileView, error) {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	feed, err := s.compose(ctx, FeedProfile, repository.FeedFilter{AuthorID: author.ID}, viewerID, page)
	if err != nil {
		return nil, err
	}
	counts, err := s.follows.Counts(ctx, author.ID)
	if err != nil {
		return nil, err
	}

	view := &ProfileView{
		User:   models.UserSummary{ID: author.ID, Username: author.Username},
		Image:  models.DefaultAvatar,
		Counts: counts,
		IsSelf: viewerID != 0 && viewerID == author.ID,
		Feed:   feed,
	}
	if author.Profile != nil && author.Profile.Image != "" {
		view.Image = author.Profile.Image
	}
	if !view.IsSelf {
		if view.IsFollowing, err = s.follows.IsFollowing(ctx, viewerID, author.ID); err != nil {
			return nil, err
		}
	}
	return view, nil
}

func (s *FeedService) compose(ctx context.Context, kind string, filter repository.FeedFilter, viewerID uint, requested int) (page *FeedPage, err error) {
	ctx, span := observability.StartSpan(ctx, "FeedService", kind,
		attribute.Int("feed.page", requested),
		attribute.Int64("viewer.id", int64(viewerID)))
	defer func() { observability.EndSpan(span, err) }()

	total, err := s.postRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	window := pagination.Window(total, requested, s.pageSize)
	posts := []*models.Post{}
	if total > 0 {
		posts, err = s.postRepo.List(ctx, filter, window.Size, window.Offset(), viewerID)
		if err != nil {
			return nil, err
		}
	}

	observability.FeedPagesServed.WithLabelValues(kind).Inc()
	return &FeedPage{Posts: posts, Page: window}, nil
}
