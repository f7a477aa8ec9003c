package pgx

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/lborres/dailydiet/core"
)

const userColumns = `id, session_id, name, email, created_at, updated_at`

func (a *Adapter) CreateUser(ctx context.Context, user *core.User) error {
	query := `INSERT INTO public.users (id, session_id, name, email) VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, $4) RETURNING id, created_at, updated_at`

	err := a.pool.QueryRow(ctx, query, user.ID, user.SessionHash, user.Name, user.Email).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if conflict := userConflict(err); conflict != nil {
			return conflict
		}
		return err
	}

	user.CreatedAt = user.CreatedAt.UTC()
	user.UpdatedAt = user.UpdatedAt.UTC()
	return nil
}

func (a *Adapter) GetUserByEmail(ctx context.Context, email string) (*core.User, error) {
	q := `SELECT ` + userColumns + ` FROM public.users WHERE email = $1`
	return a.getUser(ctx, q, email)
}

func (a *Adapter) GetUserBySessionHash(ctx context.Context, sessionHash string) (*core.User, error) {
	q := `SELECT ` + userColumns + ` FROM public.users WHERE session_id = $1`
	return a.getUser(ctx, q, sessionHash)
}

func (a *Adapter) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := a.pool.QueryRow(ctx, `SELECT count(*) FROM public.users`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (a *Adapter) getUser(ctx context.Context, q string, arg any) (*core.User, error) {
	user := &core.User{}
	err := a.pool.QueryRow(ctx, q, arg).
		Scan(&user.ID, &user.SessionHash, &user.Name, &user.Email, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrUserNotFound
		}
		return nil, err
	}
	user.CreatedAt = user.CreatedAt.UTC()
	user.UpdatedAt = user.UpdatedAt.UTC()
	return user, nil
}
