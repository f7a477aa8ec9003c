package fiber

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v3"
	"github.com/lborres/dailydiet/core"
)

// Public messages. Internal error text never reaches the client.
const (
	msgUnauthorized = "Unauthorized"
	msgMealNotFound = "Meal not found"
	msgEmailTaken   = "User with this email already exists"
	msgValidation   = "Validation error"
	msgInternal     = "Internal server error"

	detailMalformedBody = "request body is not a valid JSON object"
)

// inputError is a client input failure. Only detail is shown to the client.
type inputError struct {
	kind   error
	detail string
}

func invalidInput(kind error, detail string) error {
	return &inputError{kind: kind, detail: detail}
}

func (e *inputError) Error() string { return e.kind.Error() + ": " + e.detail }

func (e *inputError) Unwrap() error { return e.kind }

// mapError maps core errors to an HTTP status and public message
func mapError(err error) (int, core.ErrorResponse) {
	var fe *fiber.Error
	var ie *inputError

	switch {
	case errors.Is(err, core.ErrUnauthenticated):
		return http.StatusUnauthorized, core.ErrorResponse{Error: msgUnauthorized}

	case errors.Is(err, core.ErrMealNotFound):
		return http.StatusNotFound, core.ErrorResponse{Error: msgMealNotFound}

	case errors.Is(err, core.ErrEmailTaken):
		return http.StatusConflict, core.ErrorResponse{Error: msgEmailTaken}

	case errors.As(err, &ie):
		return http.StatusBadRequest, core.ErrorResponse{Error: msgValidation, Message: ie.detail}

	case errors.Is(err, core.ErrValidation),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrInvalidEmail):
		return http.StatusBadRequest, core.ErrorResponse{Error: msgValidation}

	case errors.As(err, &fe):
		// routing and body-parsing errors raised by fiber itself
		if fe.Code >= http.StatusInternalServerError {
			return fe.Code, core.ErrorResponse{Error: msgInternal}
		}
		if fe.Code == http.StatusBadRequest || fe.Code == http.StatusUnprocessableEntity {
			return http.StatusBadRequest, core.ErrorResponse{Error: msgValidation, Message: detailMalformedBody}
		}
		return fe.Code, core.ErrorResponse{Error: fe.Message}

	default:
		return http.StatusInternalServerError, core.ErrorResponse{Error: msgInternal}
	}
}

// errorHandler is installed as the app's ErrorHandler.
func (a *Adapter) errorHandler(c fiber.Ctx, err error) error {
	status, body := mapError(err)
	if status >= http.StatusInternalServerError {
		a.requestLogger(c).Error(c.Context(), "request failed", "error", err, "status", status)
	}
	return c.Status(status).JSON(body)
}
