package memory

import (
	"context"
	"testing"
	"time"

	"github.com/lborres/dailydiet/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Requirement: email and session hash are both unique; CreateUser assigns id
// and timestamps.
func TestStorage_CreateUser(t *testing.T) {
	// Arrange
	ctx := context.Background()
	s := New()
	u := &core.User{SessionHash: "h1", Name: "A", Email: "a@x.com"}

	// Act
	require.NoError(t, s.CreateUser(ctx, u))

	// Assert
	assert.NotEmpty(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())
	assert.ErrorIs(t, s.CreateUser(ctx, &core.User{SessionHash: "h2", Email: "a@x.com"}), core.ErrEmailTaken)
	assert.ErrorIs(t, s.CreateUser(ctx, &core.User{SessionHash: "h1", Email: "b@x.com"}), core.ErrSessionTaken)

	n, err := s.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := s.GetUserBySessionHash(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = s.GetUserByEmail(ctx, "missing@x.com")
	assert.ErrorIs(t, err, core.ErrUserNotFound)
}

// Requirement: returned records are copies; mutating them does not change the
// stored meal.
func TestStorage_ReturnsCopies(t *testing.T) {
	// Arrange
	ctx := context.Background()
	s := New()
	m := &core.Meal{OwnerID: "o", Name: "orig", Date: time.Now()}
	require.NoError(t, s.CreateMeal(ctx, m))

	// Act
	got, err := s.GetMeal(ctx, "o", m.ID)
	require.NoError(t, err)
	got.Name = "mutated"
	m.Name = "mutated too"

	// Assert
	again, err := s.GetMeal(ctx, "o", m.ID)
	require.NoError(t, err)
	assert.Equal(t, "orig", again.Name)
}

// Requirement: ListMeals orders by date descending, then id descending.
func TestStorage_ListMeals_Order(t *testing.T) {
	// Arrange
	ctx := context.Background()
	s := New()
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, m := range []*core.Meal{
		{ID: "a", OwnerID: "o", Date: day},
		{ID: "c", OwnerID: "o", Date: day},
		{ID: "b", OwnerID: "o", Date: day.Add(time.Hour)},
		{ID: "z", OwnerID: "other", Date: day.Add(2 * time.Hour)},
	} {
		require.NoError(t, s.CreateMeal(ctx, m))
	}

	// Act
	meals, err := s.ListMeals(ctx, "o")

	// Assert
	require.NoError(t, err)
	ids := make([]string, len(meals))
	for i, m := range meals {
		ids[i] = m.ID
	}
	assert.Equal(t, []string{"b", "c", "a"}, ids)
}

// Requirement: update and delete are scoped by owner.
func TestStorage_UpdateDelete_OwnerScoped(t *testing.T) {
	// Arrange
	ctx := context.Background()
	s := New()
	m := &core.Meal{OwnerID: "o", Name: "orig", Date: time.Now()}
	require.NoError(t, s.CreateMeal(ctx, m))

	// Act & Assert
	assert.ErrorIs(t, s.UpdateMeal(ctx, &core.Meal{ID: m.ID, OwnerID: "intruder", Name: "x"}), core.ErrMealNotFound)
	assert.ErrorIs(t, s.DeleteMeal(ctx, "intruder", m.ID), core.ErrMealNotFound)

	upd := &core.Meal{ID: m.ID, OwnerID: "o", Name: "new", IsOnDiet: true, Date: m.Date}
	require.NoError(t, s.UpdateMeal(ctx, upd))
	assert.Equal(t, m.CreatedAt, upd.CreatedAt)

	require.NoError(t, s.DeleteMeal(ctx, "o", m.ID))
	_, err := s.GetMeal(ctx, "o", m.ID)
	assert.ErrorIs(t, err, core.ErrMealNotFound)
}
