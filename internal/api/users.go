package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/flocksocial/flock/internal/db"
	"github.com/flocksocial/flock/internal/models"
	"github.com/flocksocial/flock/internal/storage"
)

// userView serializes a user for API responses. The password hash never
// leaves the model.
func userView(u *models.User) gin.H {
	view := gin.H{
		"id":          u.ID,
		"username":    u.Username,
		"name":        u.Name,
		"description": u.Description,
		"image_file":  u.ImageFile,
		"created_at":  u.CreatedAt.UTC().Format(time.RFC3339),
	}
	if u.Role != nil {
		view["role"] = u.Role.Name
	}
	return view
}

// getUserProfile handles GET /v1/users/:username. Includes the user's posts
// newest first and follower counts. Missing users are a 404.
func (r *Router) getUserProfile(c *gin.Context) {
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

	posts, err := db.NewPostRepository(r.repo()).ListByAuthor(c.Request.Context(), user.ID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	follows := db.NewFollowRepository(r.repo())
	followers, err := follows.CountFollowers(c.Request.Context(), user.ID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	following, err := follows.CountFollowing(c.Request.Context(), user.ID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	view := userView(user)
	view["followers"] = followers
	view["following"] = following

	postViews := make([]gin.H, 0, len(posts))
	for _, p := range posts {
		postViews = append(postViews, postView(p))
	}

	// Whether the viewer already follows this profile
	if viewer := currentUser(c); viewer != nil && viewer.ID != user.ID {
		isFollowing, err := follows.IsFollowing(c.Request.Context(), viewer.ID, user.ID)
		if err != nil {
			abortWithError(c, err)
			return
		}
		view["followed_by_viewer"] = isFollowing
	}

	c.JSON(http.StatusOK, gin.H{"user": view, "posts": postViews})
}

// updateOwnProfile handles PUT /v1/users/me. Accepts multipart form data
// with optional name, description and picture fields.
func (r *Router) updateOwnProfile(c *gin.Context) {
	user := currentUser(c)

	if name, ok := c.GetPostForm("name"); ok {
		user.Name = strings.TrimSpace(name)
	}
	if description, ok := c.GetPostForm("description"); ok {
		user.Description = description
	}

	if file, err := c.FormFile("picture"); err == nil {
		src, err := file.Open()
		if err != nil {
			abortWithError(c, err)
			return
		}
		defer src.Close()

		name, err := r.pictures.Save(src, file.Filename, storage.BucketProfile)
		if err != nil {
			abortWithError(c, err)
			return
		}
		user.ImageFile = name
	}

	users := db.NewUserRepository(r.repo())
	if err := users.Update(c.Request.Context(), user); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userView(user)})
}

// updateUserAdmin handles PUT /v1/users/:username for administrators, who
// may additionally reassign username, email and role.
func (r *Router) updateUserAdmin(c *gin.Context) {
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

	if username, ok := c.GetPostForm("username"); ok {
		user.Username = strings.TrimSpace(username)
	}
	if email, ok := c.GetPostForm("email"); ok {
		user.Email = strings.ToLower(strings.TrimSpace(email))
	}
	if name, ok := c.GetPostForm("name"); ok {
		user.Name = strings.TrimSpace(name)
	}
	if description, ok := c.GetPostForm("description"); ok {
		user.Description = description
	}
	if roleID, ok := c.GetPostForm("role_id"); ok {
		id, err := strconv.ParseInt(roleID, 10, 64)
		if err != nil {
			badRequest(c, "invalid role_id")
			return
		}
		role, err := db.NewRoleRepository(r.repo()).GetByID(c.Request.Context(), id)
		if err != nil {
			abortWithError(c, err)
			return
		}
		if role == nil {
			abortWithError(c, models.ErrNotFound)
			return
		}
		user.RoleID = role.ID
		user.Role = role
	}

	if file, err := c.FormFile("picture"); err == nil {
		src, err := file.Open()
		if err != nil {
			abortWithError(c, err)
			return
		}
		defer src.Close()

		name, err := r.pictures.Save(src, file.Filename, storage.BucketProfile)
		if err != nil {
			abortWithError(c, err)
			return
		}
		user.ImageFile = name
	}

	if err := users.Update(c.Request.Context(), user); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userView(user)})
}

// deleteUser handles DELETE /v1/users/:username. Follow and like edges go
// with the account.
func (r *Router) deleteUser(c *gin.Context) {
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

	if err := users.Delete(c.Request.Context(), user.ID); err != nil {
		abortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
