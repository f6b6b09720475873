package api

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/flocksocial/flock/internal/db"
	"github.com/flocksocial/flock/internal/models"
	"github.com/flocksocial/flock/internal/storage"
)

const postsPerPage = 5

// pageParam reads the page query parameter, defaulting to 1. A value of -1
// is passed through so comment listings can jump to the last page.
func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		return 1
	}
	return page
}

// postView serializes a post for API responses
func postView(p *models.Post) gin.H {
	view := gin.H{
		"id":         p.ID,
		"content":    p.Content,
		"image_file": p.ImageFile,
		"created_at": p.CreatedAt.UTC().Format(time.RFC3339),
	}
	if p.Author != nil {
		view["author"] = p.Author.Username
	}
	return view
}

// listPosts handles GET /v1/posts. The filter parameter selects the feed:
// "all" (default) lists every post, "followed" restricts to posts by users
// the caller follows and requires authentication. Newest first either way;
// an out-of-range page is an empty page, not an error.
func (r *Router) listPosts(c *gin.Context) {
	filter := db.FeedFilter(c.DefaultQuery("filter", string(db.FeedFilterAll)))
	if filter != db.FeedFilterAll && filter != db.FeedFilterFollowed {
		badRequest(c, "filter must be \"all\" or \"followed\"")
		return
	}

	var viewerID int64
	if filter == db.FeedFilterFollowed {
		viewer := currentUser(c)
		if viewer == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		viewerID = viewer.ID
	}

	page := pageParam(c)
	posts := db.NewPostRepository(r.repo())
	items, total, err := posts.List(c.Request.Context(), filter, viewerID, page, postsPerPage)
	if err != nil {
		abortWithError(c, err)
		return
	}

	views := make([]gin.H, 0, len(items))
	for _, p := range items {
		views = append(views, postView(p))
	}

	c.JSON(http.StatusOK, gin.H{
		"posts":      views,
		"pagination": db.NewPagination(page, postsPerPage, total),
	})
}

// createPost handles POST /v1/posts. Multipart form with a content field and
// an optional picture; oversized pictures are downsampled before storing.
func (r *Router) createPost(c *gin.Context) {
	author := currentUser(c)

	content := c.PostForm("content")
	if content == "" {
		badRequest(c, "content is required")
		return
	}

	post := &models.Post{
		Content:  content,
		AuthorID: sql.NullInt64{Int64: author.ID, Valid: true},
	}

	if file, err := c.FormFile("picture"); err == nil {
		src, err := file.Open()
		if err != nil {
			abortWithError(c, err)
			return
		}
		defer src.Close()

		name, err := r.pictures.Save(src, file.Filename, storage.BucketPost)
		if err != nil {
			abortWithError(c, err)
			return
		}
		post.ImageFile = name
	}

	repo := db.NewPostRepository(r.repo())
	if err := repo.Create(c.Request.Context(), post); err != nil {
		abortWithError(c, err)
		return
	}

	post.Author = author
	c.JSON(http.StatusCreated, gin.H{"post": postView(post)})
}

// getPost handles GET /v1/posts/:id. Includes the like count, cached when
// Redis is available.
func (r *Router) getPost(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		abortWithError(c, models.ErrNotFound)
		return
	}

	repo := db.NewPostRepository(r.repo())
	post, err := repo.GetByID(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if post == nil {
		abortWithError(c, models.ErrNotFound)
		return
	}

	likes, err := r.likeCount(c, post.ID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	view := postView(post)
	view["likes"] = likes

	if viewer := currentUser(c); viewer != nil {
		liked, err := db.NewLikeRepository(r.repo()).HasLiked(c.Request.Context(), viewer.ID, post.ID)
		if err != nil {
			abortWithError(c, err)
			return
		}
		view["liked_by_viewer"] = liked
	} else {
		// Anonymous callers cannot have liked anything
		view["liked_by_viewer"] = false
	}

	c.JSON(http.StatusOK, gin.H{"post": view})
}

// updatePost handles PUT /v1/posts/:id. Only the author or an administrator
// may edit.
func (r *Router) updatePost(c *gin.Context) {
	editor := currentUser(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		abortWithError(c, models.ErrNotFound)
		return
	}

	repo := db.NewPostRepository(r.repo())
	post, err := repo.GetByID(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if post == nil {
		abortWithError(c, models.ErrNotFound)
		return
	}

	if !post.AuthoredBy(editor.ID) && !editor.IsAdministrator() {
		abortWithError(c, models.ErrPermissionDenied)
		return
	}

	if content, ok := c.GetPostForm("content"); ok {
		if content == "" {
			badRequest(c, "content must not be empty")
			return
		}
		post.Content = content
	}

	if file, err := c.FormFile("picture"); err == nil {
		src, err := file.Open()
		if err != nil {
			abortWithError(c, err)
			return
		}
		defer src.Close()

		name, err := r.pictures.Save(src, file.Filename, storage.BucketPost)
		if err != nil {
			abortWithError(c, err)
			return
		}
		post.ImageFile = name
	}

	if err := repo.Update(c.Request.Context(), post); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": postView(post)})
}

// likeCount returns the post's like count, consulting the cache first
func (r *Router) likeCount(c *gin.Context, postID int64) (int64, error) {
	if count, ok := r.cache.GetLikeCount(postID); ok {
		return count, nil
	}
	count, err := db.NewLikeRepository(r.repo()).CountForPost(c.Request.Context(), postID)
	if err != nil {
		return 0, err
	}
	r.cache.SetLikeCount(postID, count)
	return count, nil
}
