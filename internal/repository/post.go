package repository

import (
	"context"
	"errors"

	"network/internal/models"
	"network/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FeedFilter narrows a post listing. Zero values mean "no restriction".
type FeedFilter struct {
	// AuthorID keeps only posts written by this user.
	AuthorID uint
	// FollowedBy keeps only posts whose author is followed by this user.
	FollowedBy uint
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error)
	UpdateContent(ctx context.Context, id uint, content string) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter FeedFilter, limit, offset int, currentUserID uint) ([]*models.Post, error)
	Count(ctx context.Context, filter FeedFilter) (int64, error)
	ToggleLike(ctx context.Context, postID, userID uint) (bool, int64, error)
	LikeCount(ctx context.Context, postID uint) (int64, error)
	Likers(ctx context.Context, postID uint) ([]models.UserSummary, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("create", "posts")()

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	defer observability.TrackQuery("get", "posts")()

	var post models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Where("posts.id = ?", id).
		Take(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

// UpdateContent rewrites a post's text. Author and created_at are never touched.
func (r *postRepository) UpdateContent(ctx context.Context, id uint, content string) error {
	defer observability.TrackQuery("update", "posts")()

	result := r.db.WithContext(ctx).Model(&models.Post{ID: id}).Update("content", content)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	defer observability.TrackQuery("delete", "posts")()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.PostLike{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		result := tx.Delete(&models.Post{}, id)
		if result.Error != nil {
			return models.NewInternalError(result.Error)
		}
		if result.RowsAffected == 0 {
			return models.NewNotFoundError("Post", id)
		}
		return nil
	})
}

// List returns posts newest first; equal timestamps fall back to ascending id.
func (r *postRepository) List(ctx context.Context, filter FeedFilter, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	defer observability.TrackQuery("list", "posts")()

	posts := []*models.Post{}
	db := r.db.WithContext(ctx)
	err := r.applyFilter(r.applyPostDetails(db, currentUserID), db, filter).
		Order("posts.created_at DESC").
		Order("posts.id ASC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) Count(ctx context.Context, filter FeedFilter) (int64, error) {
	defer observability.TrackQuery("count", "posts")()

	var total int64
	db := r.db.WithContext(ctx)
	if err := r.applyFilter(db.Model(&models.Post{}), db, filter).Count(&total).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return total, nil
}

// ToggleLike flips userID's membership in the post's likers and returns the new state
// and like count. The post row is locked FOR UPDATE first, so toggles on the same post
// run one after another and each sees the likers the previous one committed.
func (r *postRepository) ToggleLike(ctx context.Context, postID, userID uint) (bool, int64, error) {
	defer observability.TrackQuery("toggle_like", "post_likers")()

	var liked bool
	var count int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where("id = ?", postID).
			Take(&post).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Post", postID)
		}
		if err != nil {
			return models.NewInternalError(err)
		}

		removed := tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.PostLike{})
		if removed.Error != nil {
			return models.NewInternalError(removed.Error)
		}
		if removed.RowsAffected == 0 {
			like := &models.PostLike{PostID: postID, UserID: userID}
			if err := tx.Omit(clause.Associations).
				Clauses(clause.OnConflict{DoNothing: true}).
				Create(like).Error; err != nil {
				return models.NewInternalError(err)
			}
			liked = true
		}

		if err := tx.Model(&models.PostLike{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return false, 0, err
	}
	return liked, count, nil
}

func (r *postRepository) LikeCount(ctx context.Context, postID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.PostLike{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *postRepository) Likers(ctx context.Context, postID uint) ([]models.UserSummary, error) {
	out := []models.UserSummary{}
	err := r.db.WithContext(ctx).
		Table("users").
		Select("users.id, users.username").
		Joins("JOIN post_likers ON post_likers.user_id = users.id").
		Where("post_likers.post_id = ?", postID).
		Order("users.username ASC").
		Scan(&out).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return out, nil
}

// applyPostDetails selects the computed author, likes_count and liked columns.
func (r *postRepository) applyPostDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "posts.*, users.username AS author, " +
		"(SELECT COUNT(*) FROM post_likers WHERE post_likers.post_id = posts.id) AS likes_count"

	db = db.Model(&models.Post{}).Joins("LEFT JOIN users ON users.id = posts.user_id")
	if currentUserID != 0 {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM post_likers WHERE post_likers.post_id = posts.id AND post_likers.user_id = ?) AS liked", currentUserID)
	}
	return db.Select(selectQuery + ", false AS liked")
}

// applyFilter narrows q by filter; sub builds the following-set subquery and must
// carry the request context.
func (r *postRepository) applyFilter(q, sub *gorm.DB, filter FeedFilter) *gorm.DB {
	if filter.AuthorID != 0 {
		q = q.Where("posts.user_id = ?", filter.AuthorID)
	}
	if filter.FollowedBy != 0 {
		q = q.Where("posts.user_id IN (?)",
			sub.Model(&models.Follow{}).Select("followee_id").Where("follower_id = ?", filter.FollowedBy))
	}
	return q
}
