package pgx

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/lborres/dailydiet/core"
)

const mealColumns = `id, user_id, name, description, is_on_diet, date, created_at, updated_at`

func (a *Adapter) CreateMeal(ctx context.Context, m *core.Meal) error {
	query := `INSERT INTO public.meals (id, user_id, name, description, is_on_diet, date)
	          VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, $4, $5, $6)
	          RETURNING id, created_at, updated_at`

	err := a.pool.QueryRow(ctx, query, m.ID, m.OwnerID, m.Name, m.Description, m.IsOnDiet, m.Date).
		Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return err
	}

	m.CreatedAt = m.CreatedAt.UTC()
	m.UpdatedAt = m.UpdatedAt.UTC()
	return nil
}

func (a *Adapter) GetMeal(ctx context.Context, ownerID, mealID string) (*core.Meal, error) {
	q := `SELECT ` + mealColumns + ` FROM public.meals WHERE id = $1 AND user_id = $2`

	meal, err := scanMeal(a.pool.QueryRow(ctx, q, mealID, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrMealNotFound
		}
		return nil, err
	}
	return meal, nil
}

func (a *Adapter) ListMeals(ctx context.Context, ownerID string) ([]*core.Meal, error) {
	q := `SELECT ` + mealColumns + ` FROM public.meals WHERE user_id = $1 ORDER BY date DESC, id DESC`

	rows, err := a.pool.Query(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	meals := make([]*core.Meal, 0)
	for rows.Next() {
		meal, err := scanMeal(rows)
		if err != nil {
			return nil, err
		}
		meals = append(meals, meal)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return meals, nil
}

func (a *Adapter) UpdateMeal(ctx context.Context, m *core.Meal) error {
	q := `UPDATE public.meals SET name = $1, description = $2, is_on_diet = $3, date = $4, updated_at = now()
	      WHERE id = $5 AND user_id = $6
	      RETURNING created_at, updated_at`

	err := a.pool.QueryRow(ctx, q, m.Name, m.Description, m.IsOnDiet, m.Date, m.ID, m.OwnerID).
		Scan(&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return core.ErrMealNotFound
		}
		return err
	}

	m.CreatedAt = m.CreatedAt.UTC()
	m.UpdatedAt = m.UpdatedAt.UTC()
	return nil
}

func (a *Adapter) DeleteMeal(ctx context.Context, ownerID, mealID string) error {
	tag, err := a.pool.Exec(ctx, `DELETE FROM public.meals WHERE id = $1 AND user_id = $2`, mealID, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.ErrMealNotFound
	}
	return nil
}

func scanMeal(row pgx.Row) (*core.Meal, error) {
	m := &core.Meal{}
	err := row.Scan(&m.ID, &m.OwnerID, &m.Name, &m.Description, &m.IsOnDiet, &m.Date, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	m.Date = m.Date.UTC()
	m.CreatedAt = m.CreatedAt.UTC()
	m.UpdatedAt = m.UpdatedAt.UTC()
	return m, nil
}
