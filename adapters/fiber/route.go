// Package fiber serves the dailydiet HTTP API on gofiber v3.
package fiber

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/lborres/dailydiet/core"
	"github.com/lborres/dailydiet/pkg/crypto"
	"github.com/lborres/dailydiet/pkg/logging"
	"github.com/lborres/dailydiet/pkg/telemetry"
	"github.com/lborres/dailydiet/services"
)

const opTelemetry = "telemetry"

type Options struct {
	Logger logging.Logger

	// Telemetry is optional. When set, request metrics are recorded and
	// exposed at TelemetryPath.
	Telemetry     *telemetry.Telemetry
	TelemetryPath string

	// RequestIDs generates X-Request-ID values for requests that arrive
	// without one.
	RequestIDs *crypto.IDGenerator
}

type Adapter struct {
	app       *fiber.App
	dd        *core.DailyDiet
	validator *structValidator

	logger        logging.Logger
	telemetry     *telemetry.Telemetry
	telemetryPath string
	ids           *crypto.IDGenerator
}

var _ core.HTTPAdapter = (*Adapter)(nil)

func New(opts Options) *Adapter {
	a := &Adapter{
		validator:     newStructValidator(),
		logger:        opts.Logger,
		telemetry:     opts.Telemetry,
		telemetryPath: opts.TelemetryPath,
		ids:           opts.RequestIDs,
	}
	if a.logger == nil {
		a.logger = logging.Nop()
	}
	if a.telemetryPath == "" {
		a.telemetryPath = "/metrics"
	}
	if a.ids == nil {
		a.ids, _ = crypto.NewIDGenerator("", 0)
	}

	a.app = fiber.New(fiber.Config{
		AppName:         "dailydiet",
		StructValidator: a.validator,
		ErrorHandler:    a.errorHandler,
	})
	return a
}

// App exposes the underlying fiber app, mainly for tests.
func (a *Adapter) App() *fiber.App {
	return a.app
}

func (a *Adapter) RegisterRoutes(dd *core.DailyDiet) error {
	if dd == nil {
		return fmt.Errorf("register routes: nil service")
	}
	a.dd = dd

	handlers := map[string]fiber.Handler{
		services.OpRegisterUser: a.register,
		services.OpCreateMeal:   a.createMeal,
		services.OpListMeals:    a.listMeals,
		services.OpGetMetrics:   a.metrics,
		services.OpGetMeal:      a.getMeal,
		services.OpUpdateMeal:   a.updateMeal,
		services.OpDeleteMeal:   a.deleteMeal,
		services.OpHealth:       a.health,
	}

	registry := services.NewEndpointRegistry()
	if a.telemetry != nil {
		handlers[opTelemetry] = adaptor.HTTPHandler(a.telemetry.Handler())
		err := registry.Extend([]core.Endpoint{{
			Path:   a.telemetryPath,
			Method: http.MethodGet,
			Metadata: core.EndpointMetadata{
				OperationID:   opTelemetry,
				Description:   "Prometheus metrics",
				SuccessStatus: http.StatusOK,
			},
		}})
		if err != nil {
			return err
		}
	}

	a.app.Use(a.observe)

	for _, ep := range registry.Endpoints() {
		h, ok := handlers[ep.Metadata.OperationID]
		if !ok {
			return fmt.Errorf("no handler for %s %s (%s)", ep.Method, ep.Path, ep.Metadata.OperationID)
		}

		if ep.Protected {
			a.app.Add([]string{ep.Method}, ep.Path, a.requireSession, h)
		} else {
			a.app.Add([]string{ep.Method}, ep.Path, h)
		}
	}

	return nil
}

func (a *Adapter) Listen(addr string) error {
	return a.app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
}

func (a *Adapter) Shutdown(ctx context.Context) error {
	return a.app.ShutdownWithContext(ctx)
}
