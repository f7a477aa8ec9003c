package core

import "context"

// ============================================
// SERVICE PORTS (used by HTTP adapters)
// ============================================

// IdentityHandler registers users and issues session tokens
type IdentityHandler interface {
	Register(ctx context.Context, input RegisterInput) (*RegisterResult, error)
}

// SessionResolver maps a presented session token to its user.
// Every failure is reported as ErrUnauthenticated.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*User, error)
}

// MealHandler provides owner-scoped meal operations
type MealHandler interface {
	Create(ctx context.Context, ownerID string, input MealInput) (string, error)
	List(ctx context.Context, ownerID string) ([]*Meal, error)
	Get(ctx context.Context, ownerID, mealID string) (*Meal, error)
	Update(ctx context.Context, ownerID, mealID string, input MealInput) error
	Delete(ctx context.Context, ownerID, mealID string) error
}

// MetricsHandler computes diet adherence metrics
type MetricsHandler interface {
	Metrics(ctx context.Context, ownerID string) (*Metrics, error)
}

// ============================================
// HTTP PORT
// ============================================

type HTTPAdapter interface {
	RegisterRoutes(d *DailyDiet) error
}
