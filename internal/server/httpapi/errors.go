package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/filesmanager/internal/common"
)

// statusOf maps an error kind to an HTTP status and client message.
// Anything unrecognized is a 500 with a generic message.
func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrorBadRequest):
		return http.StatusBadRequest, common.MessageOf(err, "Bad Request")
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, common.MessageOf(err, "Not found")
	default:
		return http.StatusInternalServerError, "Internal Server Error"
	}
}

func (s *Server) abortWithError(c *gin.Context, err error) {
	code, msg := statusOf(err)
	if code == http.StatusInternalServerError {
		s.logger.Error(c.Request.Context(), "request failed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"error", err,
		)
	}
	c.AbortWithStatusJSON(code, gin.H{"error": msg})
}
