// Package httpapi exposes the files manager over HTTP using gin.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/filesmanager/internal/logging"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/dmitrijs2005/filesmanager/internal/server/services"
)

// ShutdownTimeout bounds how long in-flight requests may take to drain.
const ShutdownTimeout = 10 * time.Second

// FileAPI is the file operations used by the handlers.
type FileAPI interface {
	Create(ctx context.Context, user *models.User, p services.CreateFileParams) (*models.FileView, error)
	GetShow(ctx context.Context, user *models.User, id string) (*models.FileView, error)
	GetIndex(ctx context.Context, user *models.User, parentID string, page int) ([]models.FileView, error)
	SetVisibility(ctx context.Context, user *models.User, id string, isPublic bool) (*models.FileView, error)
	GetContent(ctx context.Context, requester *models.User, id, size string) (*services.Content, error)
}

// UserAPI is the account operations used by the handlers.
type UserAPI interface {
	Register(ctx context.Context, email, password string) (*models.UserView, error)
	Login(ctx context.Context, email, password string) (string, error)
	Logout(ctx context.Context, token string) error
	Me(ctx context.Context, user *models.User) models.UserView
	Stats(ctx context.Context) (*services.Stats, error)
	Status(ctx context.Context) services.Status
}

// Authenticator resolves session tokens.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
	AuthenticateOptional(ctx context.Context, token string) (*models.User, error)
}

type Server struct {
	address string
	files   FileAPI
	users   UserAPI
	auth    Authenticator
	logger  logging.Logger
}

func NewServer(address string, l logging.Logger, files FileAPI, users UserAPI, auth Authenticator) *Server {
	return &Server{
		address: address,
		files:   files,
		users:   users,
		auth:    auth,
		logger:  l.With("module", "http_server"),
	}
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery(), s.accessLog())

	router.GET("/status", s.getStatus)
	router.GET("/stats", s.getStats)

	router.POST("/users", s.postUser)
	router.GET("/connect", s.getConnect)
	router.GET("/disconnect", s.getDisconnect)

	authed := router.Group("/")
	authed.Use(s.requireAuth())
	authed.GET("/users/me", s.getMe)
	authed.POST("/files", s.postFile)
	authed.GET("/files/:id", s.getShow)
	authed.GET("/files", s.getIndex)
	authed.PUT("/files/:id/publish", s.putPublish)
	authed.PUT("/files/:id/unpublish", s.putUnpublish)

	router.GET("/files/:id/data", s.optionalAuth(), s.getFileData)

	return router
}

// Run serves HTTP until ctx is done, then drains in-flight requests for up
// to ShutdownTimeout.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownErr := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ShutdownTimeout)
		defer cancel()
		shutdownErr <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return <-shutdownErr
}
