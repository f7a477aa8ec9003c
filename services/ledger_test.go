package services

import (
	"context"
	"testing"
	"time"

	"github.com/lborres/dailydiet/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mealInput(name string, onDiet bool, date time.Time) core.MealInput {
	return core.MealInput{Name: name, Description: name + " description", IsOnDiet: onDiet, Date: date}
}

// Requirement: Create binds the owner, assigns an id and stores a canonical date.
func TestMealLedger_Create(t *testing.T) {
	// Arrange
	ctx := context.Background()
	ledger := NewMealLedger(newSpyStorage(), nil, nil)
	local := time.Date(2024, 3, 10, 8, 30, 0, 123456789, time.FixedZone("BRT", -3*3600))

	// Act
	id, err := ledger.Create(ctx, "owner-a", mealInput("breakfast", true, local))

	// Assert
	require.NoError(t, err)
	require.NotEmpty(t, id)

	meal, err := ledger.Get(ctx, "owner-a", id)
	require.NoError(t, err)
	assert.Equal(t, "owner-a", meal.OwnerID)
	assert.Equal(t, "breakfast", meal.Name)
	assert.Equal(t, time.UTC, meal.Date.Location())
	assert.Equal(t, time.Date(2024, 3, 10, 11, 30, 0, 123000000, time.UTC), meal.Date)
}

// Requirement: List returns only the owner's meals, most recent first, and the
// same sequence on repeated calls.
func TestMealLedger_List(t *testing.T) {
	// Arrange
	ctx := context.Background()
	ledger := NewMealLedger(newSpyStorage(), nil, nil)
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	_, err := ledger.Create(ctx, "owner-a", mealInput("old", true, base))
	require.NoError(t, err)
	_, err = ledger.Create(ctx, "owner-a", mealInput("new", false, base.Add(48*time.Hour)))
	require.NoError(t, err)
	_, err = ledger.Create(ctx, "owner-a", mealInput("tie-1", true, base.Add(24*time.Hour)))
	require.NoError(t, err)
	_, err = ledger.Create(ctx, "owner-a", mealInput("tie-2", true, base.Add(24*time.Hour)))
	require.NoError(t, err)
	_, err = ledger.Create(ctx, "owner-b", mealInput("foreign", true, base.Add(72*time.Hour)))
	require.NoError(t, err)

	// Act
	first, err := ledger.List(ctx, "owner-a")
	require.NoError(t, err)
	second, err := ledger.List(ctx, "owner-a")
	require.NoError(t, err)

	// Assert
	require.Len(t, first, 4)
	assert.Equal(t, first, second)
	assert.Equal(t, "new", first[0].Name)
	assert.Equal(t, "old", first[3].Name)
	for i := 1; i < len(first); i++ {
		assert.False(t, first[i].Date.After(first[i-1].Date), "meals must be ordered by date descending")
	}
	for _, m := range first {
		assert.Equal(t, "owner-a", m.OwnerID)
	}
}

// Requirement: List of a user with no meals is empty, not nil.
func TestMealLedger_List_Empty(t *testing.T) {
	ledger := NewMealLedger(newSpyStorage(), nil, nil)

	meals, err := ledger.List(context.Background(), "nobody")

	require.NoError(t, err)
	assert.NotNil(t, meals)
	assert.Empty(t, meals)
}

// Requirement: another user's meal is indistinguishable from a missing one for
// get, update and delete, and is left untouched.
func TestMealLedger_ForeignMealIsNotFound(t *testing.T) {
	// Arrange
	ctx := context.Background()
	ledger := NewMealLedger(newSpyStorage(), nil, nil)
	date := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	id, err := ledger.Create(ctx, "owner-a", mealInput("mine", true, date))
	require.NoError(t, err)

	tests := []struct {
		name string
		act  func(ownerID, mealID string) error
	}{
		{name: "get", act: func(o, m string) error { _, err := ledger.Get(ctx, o, m); return err }},
		{name: "update", act: func(o, m string) error { return ledger.Update(ctx, o, m, mealInput("stolen", false, date)) }},
		{name: "delete", act: func(o, m string) error { return ledger.Delete(ctx, o, m) }},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// Act
			foreignErr := test.act("owner-b", id)
			missingErr := test.act("owner-a", "00000000-0000-4000-8000-000000000000")

			// Assert
			assert.ErrorIs(t, foreignErr, core.ErrMealNotFound)
			assert.ErrorIs(t, missingErr, core.ErrMealNotFound)

			meal, err := ledger.Get(ctx, "owner-a", id)
			require.NoError(t, err)
			assert.Equal(t, "mine", meal.Name)
		})
	}
}

// Requirement: Update replaces all four mutable fields at once and keeps the
// owner and creation time.
func TestMealLedger_Update_FullReplace(t *testing.T) {
	// Arrange
	ctx := context.Background()
	ledger := NewMealLedger(newSpyStorage(), nil, nil)
	id, err := ledger.Create(ctx, "owner-a", mealInput("before", true, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	original, err := ledger.Get(ctx, "owner-a", id)
	require.NoError(t, err)

	newDate := time.Date(2024, 2, 2, 9, 0, 0, 0, time.UTC)

	// Act
	err = ledger.Update(ctx, "owner-a", id, core.MealInput{Name: "after", Description: "", IsOnDiet: false, Date: newDate})

	// Assert
	require.NoError(t, err)
	meal, err := ledger.Get(ctx, "owner-a", id)
	require.NoError(t, err)
	assert.Equal(t, "after", meal.Name)
	assert.Equal(t, "", meal.Description)
	assert.False(t, meal.IsOnDiet)
	assert.Equal(t, newDate, meal.Date)
	assert.Equal(t, "owner-a", meal.OwnerID)
	assert.Equal(t, original.CreatedAt, meal.CreatedAt)
}

// Requirement: a failed store write leaves the meal unchanged.
func TestMealLedger_Update_StoreFailureLeavesMealUnchanged(t *testing.T) {
	// Arrange
	ctx := context.Background()
	storage := newSpyStorage()
	ledger := NewMealLedger(storage, nil, nil)
	id, err := ledger.Create(ctx, "owner-a", mealInput("before", true, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	storage.err = assert.AnError

	// Act
	err = ledger.Update(ctx, "owner-a", id, mealInput("after", false, time.Now()))

	// Assert
	assert.ErrorIs(t, err, assert.AnError)
	assert.NotErrorIs(t, err, core.ErrMealNotFound)

	storage.err = nil
	meal, err := ledger.Get(ctx, "owner-a", id)
	require.NoError(t, err)
	assert.Equal(t, "before", meal.Name)
	assert.True(t, meal.IsOnDiet)
}

// Requirement: Delete removes the meal; a second delete is NotFound.
func TestMealLedger_Delete(t *testing.T) {
	// Arrange
	ctx := context.Background()
	ledger := NewMealLedger(newSpyStorage(), nil, nil)
	id, err := ledger.Create(ctx, "owner-a", mealInput("gone", true, time.Now()))
	require.NoError(t, err)

	// Act
	err = ledger.Delete(ctx, "owner-a", id)

	// Assert
	require.NoError(t, err)
	_, err = ledger.Get(ctx, "owner-a", id)
	assert.ErrorIs(t, err, core.ErrMealNotFound)
	assert.ErrorIs(t, ledger.Delete(ctx, "owner-a", id), core.ErrMealNotFound)
}

// Requirement: every successful write invalidates the owner's cached metrics;
// failed writes do not.
func TestMealLedger_InvalidatesMetricsCache(t *testing.T) {
	// Arrange
	ctx := context.Background()
	cache := newMapCache[*core.Metrics]()
	ledger := NewMealLedger(newSpyStorage(), NewMetricsCache(cache), nil)
	stale := &core.Metrics{TotalMeals: 99}

	// Act & Assert
	require.NoError(t, cache.Set(ctx, "owner-a", stale))
	id, err := ledger.Create(ctx, "owner-a", mealInput("m", true, time.Now()))
	require.NoError(t, err)
	assert.NotContains(t, cache.items, "owner-a")

	require.NoError(t, cache.Set(ctx, "owner-a", stale))
	require.NoError(t, ledger.Update(ctx, "owner-a", id, mealInput("m2", false, time.Now())))
	assert.NotContains(t, cache.items, "owner-a")

	require.NoError(t, cache.Set(ctx, "owner-a", stale))
	require.NoError(t, ledger.Delete(ctx, "owner-a", id))
	assert.NotContains(t, cache.items, "owner-a")

	require.NoError(t, cache.Set(ctx, "owner-a", stale))
	assert.ErrorIs(t, ledger.Delete(ctx, "owner-a", id), core.ErrMealNotFound)
	assert.Contains(t, cache.items, "owner-a")
}
