package services

import (
	"context"
	"errors"

	"github.com/lborres/dailydiet/core"
	"github.com/lborres/dailydiet/pkg/crypto"
	"github.com/lborres/dailydiet/pkg/logging"
)

// Resolver maps session tokens to users. It never writes to storage.
type Resolver struct {
	storage core.UserStorage
	tokens  *crypto.TokenHasher
	cache   core.Cache[*core.User] // optional, nil when caching is disabled
	logger  logging.Logger
}

var _ core.SessionResolver = (*Resolver)(nil)

func NewResolver(storage core.UserStorage, tokens *crypto.TokenHasher, cache core.Cache[*core.User], logger logging.Logger) *Resolver {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Resolver{storage: storage, tokens: tokens, cache: cache, logger: logger}
}

// Resolve returns the user holding token. Every failure, including a store
// error, is reported as ErrUnauthenticated.
func (r *Resolver) Resolve(ctx context.Context, token string) (*core.User, error) {
	if token == "" {
		return nil, core.ErrUnauthenticated
	}

	hash := r.tokens.Hash(token)

	// Try cache first if caching is enabled
	if r.cache != nil {
		if user, err := r.cache.Get(ctx, hash); err == nil && user != nil {
			return user, nil
		}
	}

	user, err := r.storage.GetUserBySessionHash(ctx, hash)
	if err != nil {
		if !errors.Is(err, core.ErrUserNotFound) {
			r.logger.Warn(ctx, "session lookup failed", "error", err)
		}
		return nil, core.ErrUnauthenticated
	}

	if r.cache != nil {
		// a cache failure never fails the request
		if err := r.cache.Set(ctx, hash, user); err != nil {
			r.logger.Debug(ctx, "session cache set failed", "error", err)
		}
	}

	return user, nil
}
