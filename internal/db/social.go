package db

import (
	"context"
	"time"

	"gorm.io/gorm/clause"

	"github.com/flocksocial/flock/internal/models"
)

// FollowRepository provides follow-graph database operations
type FollowRepository struct {
	*Repository
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(repo *Repository) *FollowRepository {
	return &FollowRepository{Repository: repo}
}

// Follow creates a follow edge from follower to followed. Following a user
// that is already followed is a no-op. The composite primary key plus
// ON CONFLICT DO NOTHING backstops the existence check against concurrent
// requests.
func (r *FollowRepository) Follow(ctx context.Context, followerID, followedID int64) error {
	if followerID == followedID {
		return models.ErrSelfFollow
	}

	following, err := r.IsFollowing(ctx, followerID, followedID)
	if err != nil {
		return err
	}
	if following {
		return nil
	}

	edge := models.Follow{
		FollowerID: followerID,
		FollowedID: followedID,
		CreatedAt:  time.Now().UTC(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&edge).Error
}

// Unfollow removes the follow edge if present. Removing an absent edge is a
// no-op, not an error.
func (r *FollowRepository) Unfollow(ctx context.Context, followerID, followedID int64) error {
	return r.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&models.Follow{}).Error
}

// IsFollowing reports whether a follow edge follower->followed exists.
// An unsaved user (zero ID) is never followed.
func (r *FollowRepository) IsFollowing(ctx context.Context, followerID, followedID int64) (bool, error) {
	if followedID == 0 {
		return false, nil
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error
	return count > 0, err
}

// IsFollowedBy reports whether a follow edge other->user exists
func (r *FollowRepository) IsFollowedBy(ctx context.Context, userID, otherID int64) (bool, error) {
	if otherID == 0 {
		return false, nil
	}
	return r.IsFollowing(ctx, otherID, userID)
}

// Followers returns a page of follow edges pointing at the user, newest
// first, with the follower accounts preloaded
func (r *FollowRepository) Followers(ctx context.Context, userID int64, page, perPage int) ([]*models.Follow, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("followed_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var follows []*models.Follow
	err := r.db.WithContext(ctx).
		Preload("Follower").
		Where("followed_id = ?", userID).
		Order("created_at DESC").
		Offset(pageOffset(page, perPage)).
		Limit(perPage).
		Find(&follows).Error
	return follows, total, err
}

// Following returns a page of follow edges originating at the user, newest
// first, with the followed accounts preloaded
func (r *FollowRepository) Following(ctx context.Context, userID int64, page, perPage int) ([]*models.Follow, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var follows []*models.Follow
	err := r.db.WithContext(ctx).
		Preload("Followed").
		Where("follower_id = ?", userID).
		Order("created_at DESC").
		Offset(pageOffset(page, perPage)).
		Limit(perPage).
		Find(&follows).Error
	return follows, total, err
}

// CountFollowers counts the users following the given user
func (r *FollowRepository) CountFollowers(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("followed_id = ?", userID).
		Count(&count).Error
	return count, err
}

// CountFollowing counts the users the given user follows
func (r *FollowRepository) CountFollowing(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Count(&count).Error
	return count, err
}

// LikeRepository provides like-edge database operations
type LikeRepository struct {
	*Repository
}

// NewLikeRepository creates a new like repository
func NewLikeRepository(repo *Repository) *LikeRepository {
	return &LikeRepository{Repository: repo}
}

// Like creates a like edge for (user, post). Liking an already liked post is
// a no-op, mirroring follow semantics.
func (r *LikeRepository) Like(ctx context.Context, userID, postID int64) error {
	liked, err := r.HasLiked(ctx, userID, postID)
	if err != nil {
		return err
	}
	if liked {
		return nil
	}

	like := models.PostLike{
		UserID:    userID,
		PostID:    postID,
		CreatedAt: time.Now().UTC(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&like).Error
}

// Unlike removes the like edge if present. Removing an absent edge is a
// no-op.
func (r *LikeRepository) Unlike(ctx context.Context, userID, postID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.PostLike{}).Error
}

// HasLiked reports whether the user has liked the post
func (r *LikeRepository) HasLiked(ctx context.Context, userID, postID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.PostLike{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	return count > 0, err
}

// CountForPost counts the likes on a post
func (r *LikeRepository) CountForPost(ctx context.Context, postID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.PostLike{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}
