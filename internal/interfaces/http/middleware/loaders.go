package middleware

import (
	"github.com/gin-gonic/gin"
	"ideagraph.backend/internal/loaders"
)

// LoadersMiddleware attaches a fresh loader bundle for the request's viewer.
// It must run after the auth middleware of the route.
func LoadersMiddleware(factory *loaders.Factory) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		bundle := factory.New(ctx, Viewer(c))
		c.Request = c.Request.WithContext(loaders.WithLoaders(ctx, bundle))
		c.Next()
	}
}
