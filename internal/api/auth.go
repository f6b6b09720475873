package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/flocksocial/flock/internal/db"
	"github.com/flocksocial/flock/internal/models"
)

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// register handles POST /v1/auth/register
func (r *Router) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "username, email and password are required")
		return
	}

	user := &models.User{
		Username: strings.TrimSpace(req.Username),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Name:     strings.TrimSpace(req.Name),
	}
	if err := user.SetPassword(req.Password); err != nil {
		abortWithError(c, err)
		return
	}

	users := db.NewUserRepository(r.repo())
	if err := users.Create(c.Request.Context(), user, r.cfg.Auth.AdminEmail); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": userView(user)})
}

// login handles POST /v1/auth/login. Wrong email and wrong password answer
// the same generic failure.
func (r *Router) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "email and password are required")
		return
	}

	users := db.NewUserRepository(r.repo())
	user, err := users.GetByEmail(c.Request.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		abortWithError(c, err)
		return
	}
	if user == nil || !user.CheckPassword(req.Password) {
		abortWithError(c, models.ErrInvalidCredentials)
		return
	}

	token, err := r.tokens.Issue(user.ID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"expiration": int(r.tokens.TTL().Seconds()),
		"user":       userView(user),
	})
}

// issueToken handles POST /v1/auth/tokens for API clients. Requires a
// password-authenticated login body; tokens cannot mint further tokens.
func (r *Router) issueToken(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "email and password are required")
		return
	}

	users := db.NewUserRepository(r.repo())
	user, err := users.GetByEmail(c.Request.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		abortWithError(c, err)
		return
	}
	if user == nil || !user.CheckPassword(req.Password) {
		abortWithError(c, models.ErrInvalidCredentials)
		return
	}

	token, err := r.tokens.Issue(user.ID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"expiration": int(r.tokens.TTL().Seconds()),
	})
}
