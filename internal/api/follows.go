package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/flocksocial/flock/internal/db"
	"github.com/flocksocial/flock/internal/models"
)

const followsPerPage = 10

// follow handles POST /v1/users/:username/follow
func (r *Router) follow(c *gin.Context) {
	viewer := currentUser(c)

	users := db.NewUserRepository(r.repo())
	target, err := users.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	if target == nil {
		abortWithError(c, models.ErrNotFound)
		return
	}

	follows := db.NewFollowRepository(r.repo())
	if err := follows.Follow(c.Request.Context(), viewer.ID, target.ID); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"following": target.Username})
}

// unfollow handles DELETE /v1/users/:username/follow. Unfollowing a user
// that was never followed succeeds without effect.
func (r *Router) unfollow(c *gin.Context) {
	viewer := currentUser(c)

	users := db.NewUserRepository(r.repo())
	target, err := users.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	if target == nil {
		abortWithError(c, models.ErrNotFound)
		return
	}

	follows := db.NewFollowRepository(r.repo())
	if err := follows.Unfollow(c.Request.Context(), viewer.ID, target.ID); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"following": nil})
}

// listFollowers handles GET /v1/users/:username/followers
func (r *Router) listFollowers(c *gin.Context) {
	users := db.NewUserRepository(r.repo())
	user, err := users.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	if user == nil {
		abortWithError(c, models.ErrNotFound)
		return
	}

	page := pageParam(c)
	follows := db.NewFollowRepository(r.repo())
	edges, total, err := follows.Followers(c.Request.Context(), user.ID, page, followsPerPage)
	if err != nil {
		abortWithError(c, err)
		return
	}

	result := make([]gin.H, 0, len(edges))
	for _, edge := range edges {
		if edge.Follower == nil {
			continue
		}
		result = append(result, gin.H{
			"user":      userView(edge.Follower),
			"timestamp": edge.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"follows":    result,
		"pagination": db.NewPagination(page, followsPerPage, total),
	})
}

// listFollowing handles GET /v1/users/:username/following
func (r *Router) listFollowing(c *gin.Context) {
	users := db.NewUserRepository(r.repo())
	user, err := users.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	if user == nil {
		abortWithError(c, models.ErrNotFound)
		return
	}

	page := pageParam(c)
	follows := db.NewFollowRepository(r.repo())
	edges, total, err := follows.Following(c.Request.Context(), user.ID, page, followsPerPage)
	if err != nil {
		abortWithError(c, err)
		return
	}

	result := make([]gin.H, 0, len(edges))
	for _, edge := range edges {
		if edge.Followed == nil {
			continue
		}
		result = append(result, gin.H{
			"user":      userView(edge.Followed),
			"timestamp": edge.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"follows":    result,
		"pagination": db.NewPagination(page, followsPerPage, total),
	})
}
