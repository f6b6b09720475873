package api

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/flocksocial/flock/internal/db"
	"github.com/flocksocial/flock/internal/models"
)

const commentsPerPage = 10

// commentView serializes a comment for API responses
func commentView(cm *models.Comment) gin.H {
	view := gin.H{
		"id":         cm.ID,
		"body":       cm.Body,
		"post_id":    cm.PostID,
		"created_at": cm.CreatedAt.UTC().Format(time.RFC3339),
	}
	if cm.Author != nil {
		view["author"] = cm.Author.Username
	}
	return view
}

// listComments handles GET /v1/posts/:id/comments. Comments come in
// chronological order. page=-1 resolves to the last page so a fresh comment
// is visible without the caller knowing the count.
func (r *Router) listComments(c *gin.Context) {
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

	comments := db.NewCommentRepository(r.repo())

	page := pageParam(c)
	if page == -1 {
		total, err := comments.CountByPost(c.Request.Context(), post.ID)
		if err != nil {
			abortWithError(c, err)
			return
		}
		page = db.LastPage(total, commentsPerPage)
	}

	items, total, err := comments.ListByPost(c.Request.Context(), post.ID, page, commentsPerPage)
	if err != nil {
		abortWithError(c, err)
		return
	}

	views := make([]gin.H, 0, len(items))
	for _, cm := range items {
		views = append(views, commentView(cm))
	}

	c.JSON(http.StatusOK, gin.H{
		"comments":   views,
		"pagination": db.NewPagination(page, commentsPerPage, total),
	})
}

type commentRequest struct {
	Body string `json:"body" binding:"required"`
}

// createComment handles POST /v1/posts/:id/comments
func (r *Router) createComment(c *gin.Context) {
	author := currentUser(c)

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

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "body is required")
		return
	}

	comment := &models.Comment{
		Body:     req.Body,
		PostID:   post.ID,
		AuthorID: sql.NullInt64{Int64: author.ID, Valid: true},
	}

	comments := db.NewCommentRepository(r.repo())
	if err := comments.Create(c.Request.Context(), comment); err != nil {
		abortWithError(c, err)
		return
	}

	// Report the page the new comment landed on
	total, err := comments.CountByPost(c.Request.Context(), post.ID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	comment.Author = author
	c.JSON(http.StatusCreated, gin.H{
		"comment": commentView(comment),
		"page":    db.LastPage(total, commentsPerPage),
	})
}

// updateComment handles PUT /v1/comments/:id. Only the author or an
// administrator may edit.
func (r *Router) updateComment(c *gin.Context) {
	editor := currentUser(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		abortWithError(c, models.ErrNotFound)
		return
	}

	comments := db.NewCommentRepository(r.repo())
	comment, err := comments.GetByID(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if comment == nil {
		abortWithError(c, models.ErrNotFound)
		return
	}

	if !comment.AuthoredBy(editor.ID) && !editor.IsAdministrator() {
		abortWithError(c, models.ErrPermissionDenied)
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "body is required")
		return
	}
	comment.Body = req.Body

	if err := comments.Update(c.Request.Context(), comment); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"comment": commentView(comment)})
}
