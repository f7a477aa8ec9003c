package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lborres/dailydiet/core"
	"github.com/lborres/dailydiet/pkg/crypto"
	"github.com/lborres/dailydiet/pkg/logging"
)

type IdentityService struct {
	db     core.UserStorage
	tokens *crypto.TokenHasher
	logger logging.Logger
}

// Ensure IdentityService implements IdentityHandler
var _ core.IdentityHandler = (*IdentityService)(nil)

func NewIdentityService(db core.UserStorage, tokens *crypto.TokenHasher, logger logging.Logger) *IdentityService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &IdentityService{db: db, tokens: tokens, logger: logger}
}

// Register creates a user bound to a session token. A presented token is
// reused unless another user already holds it, or binds it concurrently;
// otherwise a fresh one is issued. A duplicate email fails with ErrEmailTaken
// before any write.
func (s *IdentityService) Register(ctx context.Context, input core.RegisterInput) (*core.RegisterResult, error) {
	// Step 1: Email must be globally unique
	existing, err := s.db.GetUserByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, core.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, core.ErrEmailTaken
	}

	// Step 2: Reuse the presented token or issue a new one
	token, hash, issued, err := s.sessionFor(ctx, input.Token)
	if err != nil {
		return nil, err
	}

	// Step 3: Create the user
	user := &core.User{
		ID:          uuid.NewString(),
		SessionHash: hash,
		Name:        input.Name,
		Email:       input.Email,
	}
	err = s.db.CreateUser(ctx, user)
	if errors.Is(err, core.ErrSessionTaken) {
		// a concurrent registration bound the presented token first
		s.logger.Debug(ctx, "session token bound concurrently, issuing a new one")
		pair, genErr := s.tokens.Generate()
		if genErr != nil {
			return nil, fmt.Errorf("failed to generate session token: %w", genErr)
		}
		token, issued = pair.Token, true
		user.SessionHash = pair.Hash
		err = s.db.CreateUser(ctx, user)
	}
	if err != nil {
		if errors.Is(err, core.ErrEmailTaken) {
			// lost a race with a concurrent registration
			return nil, core.ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID, "token_issued", issued)

	return &core.RegisterResult{User: user, Token: token, Issued: issued}, nil
}

func (s *IdentityService) sessionFor(ctx context.Context, presented string) (token, hash string, issued bool, err error) {
	if presented != "" {
		hash = s.tokens.Hash(presented)
		_, err := s.db.GetUserBySessionHash(ctx, hash)
		switch {
		case errors.Is(err, core.ErrUserNotFound):
			return presented, hash, false, nil
		case err != nil:
			return "", "", false, fmt.Errorf("failed to check session token: %w", err)
		}
		s.logger.Debug(ctx, "presented session token already bound, issuing a new one")
	}

	pair, err := s.tokens.Generate()
	if err != nil {
		return "", "", false, fmt.Errorf("failed to generate session token: %w", err)
	}
	return pair.Token, pair.Hash, true, nil
}
