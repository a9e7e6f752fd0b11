package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/dbx"
	"github.com/dmitrijs2005/filesmanager/internal/server/auth"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/repomanager"
)

// SessionStore issues and revokes session tokens.
type SessionStore interface {
	Create(ctx context.Context, userID string) (string, error)
	Resolve(ctx context.Context, token string) (string, bool, error)
	Destroy(ctx context.Context, token string) error
}

// LivenessChecker reports whether a backing service answers.
type LivenessChecker interface {
	IsAlive(ctx context.Context) bool
}

// Stats holds object counts.
type Stats struct {
	Users int64 `json:"users"`
	Files int64 `json:"files"`
}

// Status holds backend liveness.
type Status struct {
	Redis bool `json:"redis"`
	DB    bool `json:"db"`
}

// UserService provides account operations:
//   - Register: create users
//   - Login / Logout: open and close sessions
//   - Me, Stats, Status: read-only views
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	sessions    SessionStore
	cache       LivenessChecker
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, sessions SessionStore, cache LivenessChecker) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		sessions:    sessions,
		cache:       cache,
	}
}

// Register creates a user. The duplicate check and the insert share one
// transaction.
func (s *UserService) Register(ctx context.Context, email, password string) (*models.UserView, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, common.BadRequest("Missing email")
	}
	if password == "" {
		return nil, common.BadRequest("Missing password")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	var user *models.User
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		_, err := repo.GetByEmail(ctx, email)
		if err == nil {
			return common.BadRequest("Already exist")
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return err
		}

		user, err = repo.Create(ctx, &models.User{Email: email, PasswordHash: hash})
		return err
	})
	if err != nil {
		return nil, err
	}

	view := user.ToView()
	return &view, nil
}

// Login checks credentials and opens a session.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", err
	}
	if !auth.VerifyPassword(user.PasswordHash, password) {
		return "", common.ErrorUnauthorized
	}

	return s.sessions.Create(ctx, user.ID)
}

// Logout closes the session identified by token.
func (s *UserService) Logout(ctx context.Context, token string) error {
	_, ok, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrorUnauthorized
	}
	return s.sessions.Destroy(ctx, token)
}

func (s *UserService) Me(_ context.Context, user *models.User) models.UserView {
	return user.ToView()
}

func (s *UserService) Stats(ctx context.Context) (*Stats, error) {
	users, err := s.repomanager.Users(s.db).Count(ctx)
	if err != nil {
		return nil, err
	}
	files, err := s.repomanager.Files(s.db).Count(ctx)
	if err != nil {
		return nil, err
	}
	return &Stats{Users: users, Files: files}, nil
}

// Status never fails; an unreachable backend is reported as false.
func (s *UserService) Status(ctx context.Context) Status {
	return Status{
		Redis: s.cache.IsAlive(ctx),
		DB:    s.db.PingContext(ctx) == nil,
	}
}
