// Package session maps opaque session tokens to user ids in the ephemeral
// cache. Expiry is passive: an expired token simply stops resolving.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/server/cache"
)

const (
	keyPrefix  = "auth_"
	tokenBytes = 32
	DefaultTTL = 24 * time.Hour
)

// Store issues, resolves and destroys session tokens.
type Store struct {
	cache cache.Cache
	ttl   time.Duration
	// newToken is replaceable in tests.
	newToken func() (string, error)
}

// NewStore returns a Store keeping sessions for ttl; a non-positive ttl
// falls back to DefaultTTL.
func NewStore(c cache.Cache, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		cache:    c,
		ttl:      ttl,
		newToken: func() (string, error) { return common.MakeRandHexString(tokenBytes) },
	}
}

func key(token string) string {
	return keyPrefix + token
}

// Create starts a session for userID and returns its token.
func (s *Store) Create(ctx context.Context, userID string) (string, error) {
	token, err := s.newToken()
	if err != nil {
		return "", fmt.Errorf("session: generate token: %w", err)
	}
	if err := s.cache.Set(ctx, key(token), userID, s.ttl); err != nil {
		return "", err
	}
	return token, nil
}

// Resolve returns the user id bound to token. An empty, unknown or expired
// token yields ok=false with no error.
func (s *Store) Resolve(ctx context.Context, token string) (string, bool, error) {
	if token == "" {
		return "", false, nil
	}
	userID, ok, err := s.cache.Get(ctx, key(token))
	if err != nil || !ok {
		return "", false, err
	}
	return userID, true, nil
}

// Destroy removes the session. Destroying an unknown token is not an error.
func (s *Store) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.cache.Del(ctx, key(token))
}
