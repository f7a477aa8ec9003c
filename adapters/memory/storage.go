// Package memory is a process-local core.StorageAdapter. It backs tests and
// single-instance local runs; data is lost on restart.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lborres/dailydiet/core"
)

type Storage struct {
	mu sync.RWMutex

	users     map[string]*core.User // key: id
	byEmail   map[string]string     // email -> id
	bySession map[string]string     // session hash -> id
	meals     map[string]*core.Meal // key: id

	now func() time.Time
}

var _ core.StorageAdapter = (*Storage)(nil)

func New() *Storage {
	return &Storage{
		users:     make(map[string]*core.User),
		byEmail:   make(map[string]string),
		bySession: make(map[string]string),
		meals:     make(map[string]*core.Meal),
		now:       time.Now,
	}
}

// UserStorage implementation

func (s *Storage) CreateUser(_ context.Context, u *core.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[u.Email]; exists {
		return core.ErrEmailTaken
	}
	if _, exists := s.bySession[u.SessionHash]; exists {
		return core.ErrSessionTaken
	}

	now := s.now().UTC()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = now
	u.UpdatedAt = now

	stored := *u
	s.users[u.ID] = &stored
	s.byEmail[u.Email] = u.ID
	s.bySession[u.SessionHash] = u.ID
	return nil
}

func (s *Storage) GetUserByEmail(_ context.Context, email string) (*core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userByIndex(s.byEmail, email)
}

func (s *Storage) GetUserBySessionHash(_ context.Context, sessionHash string) (*core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userByIndex(s.bySession, sessionHash)
}

func (s *Storage) CountUsers(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users), nil
}

func (s *Storage) userByIndex(index map[string]string, key string) (*core.User, error) {
	id, ok := index[key]
	if !ok {
		return nil, core.ErrUserNotFound
	}
	u := *s.users[id]
	return &u, nil
}

// MealStorage implementation

func (s *Storage) CreateMeal(_ context.Context, m *core.Meal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.CreatedAt = now
	m.UpdatedAt = now

	stored := *m
	s.meals[m.ID] = &stored
	return nil
}

func (s *Storage) GetMeal(_ context.Context, ownerID, mealID string) (*core.Meal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.meals[mealID]
	if !ok || m.OwnerID != ownerID {
		return nil, core.ErrMealNotFound
	}
	out := *m
	return &out, nil
}

func (s *Storage) ListMeals(_ context.Context, ownerID string) ([]*core.Meal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	meals := make([]*core.Meal, 0)
	for _, m := range s.meals {
		if m.OwnerID == ownerID {
			out := *m
			meals = append(meals, &out)
		}
	}

	sort.Slice(meals, func(i, j int) bool {
		if !meals[i].Date.Equal(meals[j].Date) {
			return meals[i].Date.After(meals[j].Date)
		}
		return meals[i].ID > meals[j].ID
	})
	return meals, nil
}

func (s *Storage) UpdateMeal(_ context.Context, m *core.Meal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.meals[m.ID]
	if !ok || stored.OwnerID != m.OwnerID {
		return core.ErrMealNotFound
	}

	stored.Name = m.Name
	stored.Description = m.Description
	stored.IsOnDiet = m.IsOnDiet
	stored.Date = m.Date
	stored.UpdatedAt = s.now().UTC()

	*m = *stored
	return nil
}

func (s *Storage) DeleteMeal(_ context.Context, ownerID, mealID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.meals[mealID]
	if !ok || m.OwnerID != ownerID {
		return core.ErrMealNotFound
	}
	delete(s.meals, mealID)
	return nil
}
