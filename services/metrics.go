package services

import (
	"context"
	"fmt"

	"github.com/lborres/dailydiet/core"
	"github.com/lborres/dailydiet/pkg/logging"
)

type MetricsEngine struct {
	storage core.MealStorage
	cache   *MetricsCache // optional
	logger  logging.Logger
}

var _ core.MetricsHandler = (*MetricsEngine)(nil)

func NewMetricsEngine(storage core.MealStorage, cache *MetricsCache, logger logging.Logger) *MetricsEngine {
	if logger == nil {
		logger = logging.Nop()
	}
	return &MetricsEngine{storage: storage, cache: cache, logger: logger}
}

func (e *MetricsEngine) Metrics(ctx context.Context, ownerID string) (*core.Metrics, error) {
	var seen uint64
	if e.cache != nil {
		if m, ok := e.cache.get(ctx, ownerID); ok {
			return m, nil
		}
		seen = e.cache.snapshot()
	}

	meals, err := e.storage.ListMeals(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}

	m := ComputeMetrics(meals)

	if e.cache != nil {
		e.cache.fill(ctx, e.logger, ownerID, seen, &m)
	}

	return &m, nil
}

// ComputeMetrics expects meals in ledger order (date descending). Meals are
// consecutive when adjacent in that order, whatever the calendar gap.
func ComputeMetrics(meals []*core.Meal) core.Metrics {
	var m core.Metrics
	run := 0
	for _, meal := range meals {
		if meal.IsOnDiet {
			m.TotalOnDiet++
			run++
			if run > m.BestOnDietStreak {
				m.BestOnDietStreak = run
			}
			continue
		}
		m.TotalOffDiet++
		run = 0
	}
	m.TotalMeals = m.TotalOnDiet + m.TotalOffDiet
	return m
}
