package fiber

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/lborres/dailydiet/core"
	"github.com/lborres/dailydiet/pkg/logging"
)

const (
	HeaderRequestID = "X-Request-ID"

	localsUser   = "user"
	localsLogger = "logger"
)

// observe assigns a request id, records telemetry and writes one access log
// line per request. Errors from downstream handlers are rendered here so the
// logged status matches the response.
func (a *Adapter) observe(c fiber.Ctx) error {
	start := time.Now()

	id := c.Get(HeaderRequestID)
	if id == "" {
		id = a.newRequestID()
	}
	c.Set(HeaderRequestID, id)

	log := a.logger.With("request_id", id)
	c.Locals(localsLogger, log)

	if a.telemetry != nil {
		defer a.telemetry.RequestStarted()()
	}

	if err := c.Next(); err != nil {
		if herr := a.errorHandler(c, err); herr != nil {
			_ = c.SendStatus(fiber.StatusInternalServerError)
		}
	}

	status := c.Response().StatusCode()
	latency := time.Since(start)
	route := c.Route().Path

	if a.telemetry != nil && route != a.telemetryPath {
		a.telemetry.ObserveRequest(c.Method(), route, status, latency)
	}

	log.Info(c.Context(), "request",
		"method", c.Method(),
		"path", c.Path(),
		"route", route,
		"status", status,
		"latency", latency.String(),
	)
	return nil
}

func (a *Adapter) newRequestID() string {
	if a.ids == nil {
		return ""
	}
	id, err := a.ids.Generate()
	if err != nil {
		return ""
	}
	return id
}

// requireSession resolves the session cookie and attaches the user to the
// request context. Without a valid session the request stops here with 401.
func (a *Adapter) requireSession(c fiber.Ctx) error {
	token := c.Cookies(a.dd.SessionConfig.CookieName)

	user, err := a.dd.Sessions.Resolve(c.Context(), token)
	if err != nil {
		return core.ErrUnauthenticated
	}

	c.SetContext(core.WithUser(c.Context(), user))
	c.Locals(localsUser, user)

	return c.Next()
}

func (a *Adapter) requestLogger(c fiber.Ctx) logging.Logger {
	if log, ok := c.Locals(localsLogger).(logging.Logger); ok {
		return log
	}
	return a.logger
}

// currentUser returns the user attached by requireSession.
func currentUser(c fiber.Ctx) (*core.User, error) {
	user, ok := core.UserFromContext(c.Context())
	if !ok {
		return nil, core.ErrUnauthenticated
	}
	return user, nil
}
