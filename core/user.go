package core

import "time"

// User represents a registered diner
//
// SessionHash is the keyed hash of the session token handed to the client.
// The raw token is never stored.
type User struct {
	ID          string    `json:"id"`
	SessionHash string    `json:"-"` // Never expose in JSON (security!)
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// RegisterInput contains the data needed to register a new user.
// Token is the session token presented by the caller, if any.
type RegisterInput struct {
	Token string
	Name  string
	Email string
}

// RegisterResult contains the newly created user and the raw session token
// the caller must hand back to the client.
type RegisterResult struct {
	User  *User  `json:"user"`
	Token string `json:"-"`

	// Issued reports whether Token was generated during this registration
	// rather than taken from the request.
	Issued bool `json:"-"`
}
