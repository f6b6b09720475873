package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/flocksocial/flock/internal/models"
)

// FeedFilter selects which posts a feed listing returns
type FeedFilter string

// Feed filter values
const (
	FeedFilterAll      FeedFilter = "all"
	FeedFilterFollowed FeedFilter = "followed"
)

// PostRepository provides post-related database operations
type PostRepository struct {
	*Repository
}

// NewPostRepository creates a new post repository
func NewPostRepository(repo *Repository) *PostRepository {
	return &PostRepository{Repository: repo}
}

// Create creates a new post
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now().UTC()
	}
	if post.ImageFile == "" {
		post.ImageFile = models.DefaultImageFile
	}
	return r.db.WithContext(ctx).Omit("Author").Create(post).Error
}

// GetByID retrieves a post by ID with its author preloaded
func (r *PostRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Preload("Author").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// Update updates a post
func (r *PostRepository) Update(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Omit("Author").Save(post).Error
}

// List returns a page of posts, newest first. FeedFilterAll covers every
// post; FeedFilterFollowed restricts to posts authored by users the viewer
// follows, via a join against the follow graph. An out-of-range page returns
// an empty page, not an error.
func (r *PostRepository) List(ctx context.Context, filter FeedFilter, viewerID int64, page, perPage int) ([]*models.Post, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Post{})
	if filter == FeedFilterFollowed {
		query = query.
			Joins("INNER JOIN follows ON follows.followed_id = posts.author_id").
			Where("follows.follower_id = ?", viewerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []*models.Post
	err := query.
		Preload("Author").
		Order("posts.created_at DESC").
		Offset(pageOffset(page, perPage)).
		Limit(perPage).
		Find(&posts).Error
	return posts, total, err
}

// ListByAuthor returns every post by the author, newest first
func (r *PostRepository) ListByAuthor(ctx context.Context, authorID int64) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Find(&posts).Error
	return posts, err
}

// CommentRepository provides comment-related database operations
type CommentRepository struct {
	*Repository
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(repo *Repository) *CommentRepository {
	return &CommentRepository{Repository: repo}
}

// Create creates a new comment
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Omit("Author", "Post").Create(comment).Error
}

// GetByID retrieves a comment by ID with its author preloaded
func (r *CommentRepository) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Preload("Author").First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &comment, nil
}

// Update updates a comment
func (r *CommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Omit("Author", "Post").Save(comment).Error
}

// ListByPost returns a page of a post's comments in chronological (oldest
// first) order, with authors preloaded
func (r *CommentRepository) ListByPost(ctx context.Context, postID int64, page, perPage int) ([]*models.Comment, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("post_id = ?", postID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Offset(pageOffset(page, perPage)).
		Limit(perPage).
		Find(&comments).Error
	return comments, total, err
}

// CountByPost counts the comments on a post
func (r *CommentRepository) CountByPost(ctx context.Context, postID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}
