package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/flocksocial/flock/internal/auth"
	"github.com/flocksocial/flock/internal/models"
	"github.com/flocksocial/flock/internal/storage"
	"github.com/flocksocial/flock/pkg/logging"
)

// abortWithError maps a domain error onto an HTTP response. Authentication
// failures always carry the same generic message regardless of cause.
func abortWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, models.ErrPermissionDenied):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "permission denied"})
	case errors.Is(err, models.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case errors.Is(err, models.ErrDuplicate):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "username or email already taken"})
	case errors.Is(err, models.ErrSelfFollow):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "cannot follow yourself"})
	case errors.Is(err, models.ErrPasswordEmpty):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "password must not be empty"})
	case errors.Is(err, storage.ErrUnsupportedImageType):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "unsupported image type"})
	default:
		logging.GetLogger().Error("Internal error handling request",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// badRequest reports a malformed request body or parameter
func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": message})
}
