// Package auth resolves session tokens to users and hashes passwords.
package auth

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
)

// SessionResolver looks up the user id bound to a session token.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (userID string, ok bool, err error)
}

// UserGetter loads users by id.
type UserGetter interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

type Resolver struct {
	sessions SessionResolver
	users    UserGetter
}

func NewResolver(sessions SessionResolver, users UserGetter) *Resolver {
	return &Resolver{sessions: sessions, users: users}
}

// Authenticate returns the user owning token. An empty or unknown token, or a
// session whose user no longer exists, yields common.ErrorUnauthorized.
// Cache and store outages are returned as they are.
func (r *Resolver) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, common.ErrorUnauthorized
	}

	userID, ok, err := r.sessions.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.ErrorUnauthorized
	}

	user, err := r.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrorInvalidID) {
			return nil, common.ErrorUnauthorized
		}
		return nil, err
	}

	return user, nil
}

// AuthenticateOptional is Authenticate for anonymous-friendly reads: any
// authentication failure yields a nil user and a nil error.
func (r *Resolver) AuthenticateOptional(ctx context.Context, token string) (*models.User, error) {
	user, err := r.Authenticate(ctx, token)
	if errors.Is(err, common.ErrorUnauthorized) {
		return nil, nil
	}
	return user, err
}
