package core

import "time"

// Meal is a single logged meal. OwnerID is fixed at creation.
type Meal struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"userId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsOnDiet    bool      `json:"isOnDiet"`
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// MealInput carries the four owner-mutable fields of a meal.
// Update replaces all of them at once.
type MealInput struct {
	Name        string
	Description string
	IsOnDiet    bool
	Date        time.Time
}

// Metrics summarizes a user's diet adherence
type Metrics struct {
	TotalMeals       int `json:"totalMeals"`
	TotalOnDiet      int `json:"totalOnDiet"`
	TotalOffDiet     int `json:"totalOffDiet"`
	BestOnDietStreak int `json:"bestOnDietStreak"`
}

// CanonicalDate normalizes a meal date before storage: UTC with millisecond
// precision, which round-trips through both Postgres and JSON unchanged.
func CanonicalDate(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}
