package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/server/services"
)

type createFileRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
	// ParentID is either the number 0 or a folder id string.
	ParentID any    `json:"parentId"`
	IsPublic bool   `json:"isPublic"`
	Data     string `json:"data"`
}

func parentIDString(v any) string {
	switch p := v.(type) {
	case nil:
		return ""
	case string:
		return p
	case float64:
		return strconv.FormatFloat(p, 'f', -1, 64)
	default:
		return "invalid"
	}
}

func (s *Server) postFile(c *gin.Context) {
	var req createFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortWithError(c, common.BadRequest("Missing name"))
		return
	}

	view, err := s.files.Create(c.Request.Context(), currentUser(c), services.CreateFileParams{
		Name:     req.Name,
		Type:     req.Type,
		ParentID: parentIDString(req.ParentID),
		IsPublic: req.IsPublic,
		Data:     req.Data,
	})
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

func (s *Server) getShow(c *gin.Context) {
	view, err := s.files.GetShow(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) getIndex(c *gin.Context) {
	page := 0
	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			s.abortWithError(c, common.BadRequest("Invalid page number"))
			return
		}
		page = n
	}

	views, err := s.files.GetIndex(c.Request.Context(), currentUser(c), c.Query("parentId"), page)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func (s *Server) putPublish(c *gin.Context) {
	s.setVisibility(c, true)
}

func (s *Server) putUnpublish(c *gin.Context) {
	s.setVisibility(c, false)
}

func (s *Server) setVisibility(c *gin.Context, isPublic bool) {
	view, err := s.files.SetVisibility(c.Request.Context(), currentUser(c), c.Param("id"), isPublic)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) getFileData(c *gin.Context) {
	content, err := s.files.GetContent(c.Request.Context(), currentUser(c), c.Param("id"), c.Query("size"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.Data(http.StatusOK, content.ContentType, content.Data)
}
