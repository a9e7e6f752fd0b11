package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/filesmanager/internal/common"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) getStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.users.Status(c.Request.Context()))
}

func (s *Server) getStats(c *gin.Context) {
	stats, err := s.users.Stats(c.Request.Context())
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) postUser(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortWithError(c, common.BadRequest("Missing email"))
		return
	}

	user, err := s.users.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	s.logger.Info(c.Request.Context(), "Registered", "user_id", user.ID)
	c.JSON(http.StatusCreated, user)
}

// getConnect signs in with HTTP Basic credentials and returns a session token.
func (s *Server) getConnect(c *gin.Context) {
	email, password, ok := c.Request.BasicAuth()
	if !ok {
		s.abortWithError(c, common.ErrorUnauthorized)
		return
	}

	token, err := s.users.Login(c.Request.Context(), email, password)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (s *Server) getDisconnect(c *gin.Context) {
	token := c.GetHeader(common.TokenHeaderName)
	if token == "" {
		s.abortWithError(c, common.ErrorUnauthorized)
		return
	}
	if err := s.users.Logout(c.Request.Context(), token); err != nil {
		s.abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) getMe(c *gin.Context) {
	c.JSON(http.StatusOK, s.users.Me(c.Request.Context(), currentUser(c)))
}
