package core

import "context"

// UserStorage defines user-related database operations
type UserStorage interface {
	// CreateUser assigns timestamps, and an ID when none is set. It returns
	// ErrEmailTaken when the email is already taken and ErrSessionTaken when
	// the session hash is.
	CreateUser(ctx context.Context, u *User) error

	// Query methods
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserBySessionHash(ctx context.Context, sessionHash string) (*User, error)

	CountUsers(ctx context.Context) (int, error)
}

// MealStorage defines meal-related database operations.
// Every method is scoped by owner; a meal owned by someone else behaves as
// if it does not exist.
type MealStorage interface {
	CreateMeal(ctx context.Context, m *Meal) error

	GetMeal(ctx context.Context, ownerID, mealID string) (*Meal, error)

	// ListMeals returns the owner's meals ordered by date descending, ties
	// broken by id descending.
	ListMeals(ctx context.Context, ownerID string) ([]*Meal, error)

	// UpdateMeal and DeleteMeal check ownership and act in a single
	// statement, returning ErrMealNotFound when no row matched.
	UpdateMeal(ctx context.Context, m *Meal) error
	DeleteMeal(ctx context.Context, ownerID, mealID string) error
}

type StorageAdapter interface {
	UserStorage
	MealStorage
}
