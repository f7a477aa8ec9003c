package services

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/lborres/dailydiet/adapters/memory"
	"github.com/lborres/dailydiet/core"
	"github.com/lborres/dailydiet/pkg/crypto"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestHasher(t *testing.T) *crypto.TokenHasher {
	t.Helper()
	h, err := crypto.NewTokenHasher(testSecret)
	require.NoError(t, err)
	return h
}

// spyStorage wraps the in-memory adapter, counting calls and optionally
// failing every call with err.
type spyStorage struct {
	*memory.Storage
	calls atomic.Int64
	err   error
}

func newSpyStorage() *spyStorage {
	return &spyStorage{Storage: memory.New()}
}

func (s *spyStorage) hit() error {
	s.calls.Add(1)
	return s.err
}

func (s *spyStorage) CreateUser(ctx context.Context, u *core.User) error {
	if err := s.hit(); err != nil {
		return err
	}
	return s.Storage.CreateUser(ctx, u)
}

func (s *spyStorage) GetUserByEmail(ctx context.Context, email string) (*core.User, error) {
	if err := s.hit(); err != nil {
		return nil, err
	}
	return s.Storage.GetUserByEmail(ctx, email)
}

func (s *spyStorage) GetUserBySessionHash(ctx context.Context, hash string) (*core.User, error) {
	if err := s.hit(); err != nil {
		return nil, err
	}
	return s.Storage.GetUserBySessionHash(ctx, hash)
}

func (s *spyStorage) ListMeals(ctx context.Context, ownerID string) ([]*core.Meal, error) {
	if err := s.hit(); err != nil {
		return nil, err
	}
	return s.Storage.ListMeals(ctx, ownerID)
}

func (s *spyStorage) UpdateMeal(ctx context.Context, m *core.Meal) error {
	if err := s.hit(); err != nil {
		return err
	}
	return s.Storage.UpdateMeal(ctx, m)
}

// mapCache is a minimal core.Cache for asserting service cache behavior.
type mapCache[V any] struct {
	items   map[string]V
	deletes int
}

func newMapCache[V any]() *mapCache[V] {
	return &mapCache[V]{items: make(map[string]V)}
}

func (c *mapCache[V]) Get(_ context.Context, key string) (V, error) {
	v, ok := c.items[key]
	if !ok {
		var zero V
		return zero, core.ErrCacheMiss
	}
	return v, nil
}

func (c *mapCache[V]) Set(_ context.Context, key string, value V) error {
	c.items[key] = value
	return nil
}

func (c *mapCache[V]) Delete(_ context.Context, key string) error {
	c.deletes++
	delete(c.items, key)
	return nil
}

func (c *mapCache[V]) Clear(_ context.Context) error {
	c.items = make(map[string]V)
	return nil
}
