package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
)

// userKey is the gin context key holding the authenticated *models.User.
const userKey = "filesmanager.user"

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// requireAuth rejects requests without a valid X-Token.
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := s.auth.Authenticate(c.Request.Context(), c.GetHeader(common.TokenHeaderName))
		if err != nil {
			if errors.Is(err, common.ErrorUnauthorized) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
				return
			}
			s.abortWithError(c, err)
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}

// optionalAuth attaches the user when the token resolves and lets anonymous
// requests through otherwise.
func (s *Server) optionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := s.auth.AuthenticateOptional(c.Request.Context(), c.GetHeader(common.TokenHeaderName))
		if err != nil {
			s.abortWithError(c, err)
			return
		}
		if user != nil {
			c.Set(userKey, user)
		}
		c.Next()
	}
}

// currentUser returns the user attached by the auth middleware, or nil.
func currentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}
