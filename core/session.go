package core

import (
	"context"
	"time"
)

const (
	DefaultCookieName = "sessionId"
	DefaultSessionAge = 7 * 24 * time.Hour
)

// SessionConfig controls how the session token travels to the client
type SessionConfig struct {
	CookieName string
	MaxAge     time.Duration
	Secure     bool
}

func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		CookieName: DefaultCookieName,
		MaxAge:     DefaultSessionAge,
	}
}

type userCtxKey struct{}

// WithUser returns a copy of ctx carrying the authenticated user.
// Identity travels with each request; there is no process-wide session.
func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userCtxKey{}, u)
}

// UserFromContext returns the user attached by WithUser, if any.
func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(userCtxKey{}).(*User)
	return u, ok && u != nil
}
