package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flocksocial/flock/internal/db"
)

// listRoles handles GET /v1/roles
func (r *Router) listRoles(c *gin.Context) {
	roles, err := db.NewRoleRepository(r.repo()).List(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}

	views := make([]gin.H, 0, len(roles))
	for _, role := range roles {
		views = append(views, gin.H{
			"id":          role.ID,
			"name":        role.Name,
			"default":     role.Default,
			"permissions": role.Permissions,
		})
	}

	c.JSON(http.StatusOK, gin.H{"roles": views})
}

// seedRoles handles POST /v1/roles/seed. Safe to call repeatedly; the
// well-known roles end up in the same state every time.
func (r *Router) seedRoles(c *gin.Context) {
	if err := db.NewRoleRepository(r.repo()).Seed(c.Request.Context()); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "seeded"})
}
