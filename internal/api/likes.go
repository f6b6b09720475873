package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/flocksocial/flock/internal/db"
	"github.com/flocksocial/flock/internal/models"
)

// likePost handles POST /v1/posts/:id/like. Liking an already liked post is
// a no-op; the response is the same either way.
func (r *Router) likePost(c *gin.Context) {
	r.likeAction(c, true)
}

// unlikePost handles DELETE /v1/posts/:id/like
func (r *Router) unlikePost(c *gin.Context) {
	r.likeAction(c, false)
}

func (r *Router) likeAction(c *gin.Context, like bool) {
	viewer := currentUser(c)

	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		abortWithError(c, models.ErrNotFound)
		return
	}

	posts := db.NewPostRepository(r.repo())
	post, err := posts.GetByID(c.Request.Context(), postID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if post == nil {
		abortWithError(c, models.ErrNotFound)
		return
	}

	likes := db.NewLikeRepository(r.repo())
	if like {
		err = likes.Like(c.Request.Context(), viewer.ID, post.ID)
	} else {
		err = likes.Unlike(c.Request.Context(), viewer.ID, post.ID)
	}
	if err != nil {
		abortWithError(c, err)
		return
	}

	// The cached count is stale now
	r.cache.InvalidateLikeCount(post.ID)

	count, err := likes.CountForPost(c.Request.Context(), post.ID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	r.cache.SetLikeCount(post.ID, count)

	c.JSON(http.StatusOK, gin.H{
		"post_id": post.ID,
		"likes":   count,
		"liked":   like,
	})
}
