package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/flocksocial/flock/internal/auth"
	"github.com/flocksocial/flock/internal/cache"
	"github.com/flocksocial/flock/internal/db"
	"github.com/flocksocial/flock/internal/models"
	"github.com/flocksocial/flock/internal/storage"
	"github.com/flocksocial/flock/pkg/config"
	"github.com/flocksocial/flock/pkg/logging"
)

// Router sets up API routes
type Router struct {
	db       *db.DB
	cache    *cache.Cache
	tokens   *auth.TokenService
	pictures *storage.PictureStore
	cfg      *config.Config
	logger   *zap.Logger
}

// NewRouter creates a new API router
func NewRouter(database *db.DB, redisCache *cache.Cache, tokens *auth.TokenService, pictures *storage.PictureStore, cfg *config.Config) *Router {
	return &Router{
		db:       database,
		cache:    redisCache,
		tokens:   tokens,
		pictures: pictures,
		cfg:      cfg,
		logger:   logging.GetLogger().With(zap.String("component", "api-router")),
	}
}

// SetupRoutes sets up all API routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	repo := db.NewRepository(r.db.DB)
	users := db.NewUserRepository(repo)

	// Health check endpoints
	engine.GET("/health", r.healthHandler)
	engine.GET("/.well-known/healthcheck.json", r.healthHandler)

	// Stored pictures
	engine.Static("/uploads/profile_pics", r.pictures.Path(storage.BucketProfile, ""))
	engine.Static("/uploads/post_pics", r.pictures.Path(storage.BucketPost, ""))

	v1 := engine.Group("/v1")
	v1.Use(Trace(), Authenticate(r.tokens, users))

	// Authentication
	v1.POST("/auth/register", r.register)
	v1.POST("/auth/login", r.login)
	v1.POST("/auth/tokens", r.issueToken)

	// Users and the follow graph
	v1.GET("/users/:username", r.getUserProfile)
	v1.GET("/users/:username/followers", r.listFollowers)
	v1.GET("/users/:username/following", r.listFollowing)
	v1.PUT("/users/me", RequireAuthenticated(), r.updateOwnProfile)
	v1.PUT("/users/:username", RequireAdministrator(), r.updateUserAdmin)
	v1.DELETE("/users/:username", RequireAdministrator(), r.deleteUser)
	v1.POST("/users/:username/follow", RequirePermission(models.PermissionFollow), r.follow)
	v1.DELETE("/users/:username/follow", RequirePermission(models.PermissionFollow), r.unfollow)

	// Posts, comments and likes
	v1.GET("/posts", r.listPosts)
	v1.POST("/posts", RequirePermission(models.PermissionWrite), r.createPost)
	v1.GET("/posts/:id", r.getPost)
	v1.PUT("/posts/:id", RequireAuthenticated(), r.updatePost)
	v1.GET("/posts/:id/comments", r.listComments)
	v1.POST("/posts/:id/comments", RequirePermission(models.PermissionComment), r.createComment)
	v1.PUT("/comments/:id", RequireAuthenticated(), r.updateComment)
	v1.POST("/posts/:id/like", RequireAuthenticated(), r.likePost)
	v1.DELETE("/posts/:id/like", RequireAuthenticated(), r.unlikePost)

	// Roles (admin only)
	v1.GET("/roles", RequireAdministrator(), r.listRoles)
	v1.POST("/roles/seed", RequireAdministrator(), r.seedRoles)
}

// healthHandler handles health check requests
func (r *Router) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "OK",
		"service": "flock-api",
	})
}

func (r *Router) repo() *db.Repository {
	return db.NewRepository(r.db.DB)
}
