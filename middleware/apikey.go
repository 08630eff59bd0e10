package middleware

import (
	"context"
	"strings"

	"barakah/models"
	"barakah/utils"

	"github.com/gin-gonic/gin"
)

const apiKeyHeader = "X-API-Key"

// KeyAuthenticator resolves an API key to its grant.
type KeyAuthenticator interface {
	Authenticate(ctx context.Context, apiKey string) (*models.AccessGrant, error)
}

// OptionalAPIKeyMiddleware lets anonymous requests through. A request that
// does carry X-API-Key must present a valid key; its grant is stored under
// utils.AccessGrantKey.
func OptionalAPIKeyMiddleware(auth KeyAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimSpace(c.GetHeader(apiKeyHeader))
		if key == "" {
			c.Next()
			return
		}
		grant, err := auth.Authenticate(c.Request.Context(), key)
		if err != nil {
			utils.HandleServiceError(c, err)
			c.Abort()
			return
		}
		c.Set(utils.AccessGrantKey, grant)
		c.Next()
	}
}

// GrantFromContext returns the grant set by OptionalAPIKeyMiddleware, if any.
func GrantFromContext(c *gin.Context) *models.AccessGrant {
	if v, ok := c.Get(utils.AccessGrantKey); ok {
		if grant, ok := v.(*models.AccessGrant); ok {
			return grant
		}
	}
	return nil
}
