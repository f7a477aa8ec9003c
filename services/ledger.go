package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lborres/dailydiet/core"
	"github.com/lborres/dailydiet/pkg/logging"
)

// MealLedger is the owner-scoped meal service.
//
// Ownership is enforced by storage in the same statement that reads or
// writes the row, so a meal owned by someone else is indistinguishable
// from a missing one.
type MealLedger struct {
	storage core.MealStorage
	metrics *MetricsCache // optional, invalidated on every write
	logger  logging.Logger
}

var _ core.MealHandler = (*MealLedger)(nil)

func NewMealLedger(storage core.MealStorage, metrics *MetricsCache, logger logging.Logger) *MealLedger {
	if logger == nil {
		logger = logging.Nop()
	}
	return &MealLedger{storage: storage, metrics: metrics, logger: logger}
}

func (l *MealLedger) Create(ctx context.Context, ownerID string, input core.MealInput) (string, error) {
	meal := &core.Meal{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Name:        input.Name,
		Description: input.Description,
		IsOnDiet:    input.IsOnDiet,
		Date:        core.CanonicalDate(input.Date),
	}

	if err := l.storage.CreateMeal(ctx, meal); err != nil {
		return "", fmt.Errorf("failed to create meal: %w", err)
	}

	l.invalidate(ctx, ownerID)
	return meal.ID, nil
}

func (l *MealLedger) List(ctx context.Context, ownerID string) ([]*core.Meal, error) {
	meals, err := l.storage.ListMeals(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}
	return meals, nil
}

func (l *MealLedger) Get(ctx context.Context, ownerID, mealID string) (*core.Meal, error) {
	meal, err := l.storage.GetMeal(ctx, ownerID, mealID)
	if err != nil {
		return nil, notFoundOr(err, "failed to get meal")
	}
	return meal, nil
}

// Update replaces all four mutable fields or none of them.
func (l *MealLedger) Update(ctx context.Context, ownerID, mealID string, input core.MealInput) error {
	meal := &core.Meal{
		ID:          mealID,
		OwnerID:     ownerID,
		Name:        input.Name,
		Description: input.Description,
		IsOnDiet:    input.IsOnDiet,
		Date:        core.CanonicalDate(input.Date),
	}

	if err := l.storage.UpdateMeal(ctx, meal); err != nil {
		return notFoundOr(err, "failed to update meal")
	}

	l.invalidate(ctx, ownerID)
	return nil
}

func (l *MealLedger) Delete(ctx context.Context, ownerID, mealID string) error {
	if err := l.storage.DeleteMeal(ctx, ownerID, mealID); err != nil {
		return notFoundOr(err, "failed to delete meal")
	}

	l.invalidate(ctx, ownerID)
	return nil
}

func (l *MealLedger) invalidate(ctx context.Context, ownerID string) {
	if l.metrics == nil {
		return
	}
	l.metrics.invalidate(ctx, l.logger, ownerID)
}

func notFoundOr(err error, msg string) error {
	if errors.Is(err, core.ErrMealNotFound) {
		return core.ErrMealNotFound
	}
	return fmt.Errorf("%s: %w", msg, err)
}
