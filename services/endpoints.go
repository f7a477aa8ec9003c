package services

import (
	"fmt"
	"net/http"

	"github.com/lborres/dailydiet/core"
)

// Operation IDs shared by the route table and the adapters that bind
// handlers to it.
const (
	OpRegisterUser = "registerUser"
	OpCreateMeal   = "createMeal"
	OpListMeals    = "listMeals"
	OpGetMetrics   = "getMetrics"
	OpGetMeal      = "getMeal"
	OpUpdateMeal   = "updateMeal"
	OpDeleteMeal   = "deleteMeal"
	OpHealth       = "health"
)

// BaseEndpoints returns framework-agnostic endpoint definitions for the
// service. Adapters supply the handlers.
//
// Order matters: static segments are listed before parameterized ones so
// that /meals/metrics is never captured by /meals/:id.
func BaseEndpoints() []core.Endpoint {
	return []core.Endpoint{
		{
			Path:   "/users",
			Method: http.MethodPost,
			Metadata: core.EndpointMetadata{
				OperationID:   OpRegisterUser,
				Description:   "Register a user and bind a session token",
				SuccessStatus: http.StatusCreated,
			},
		},
		{
			Path:      "/meals",
			Method:    http.MethodPost,
			Protected: true,
			Metadata: core.EndpointMetadata{
				OperationID:   OpCreateMeal,
				Description:   "Log a meal for the current user",
				SuccessStatus: http.StatusCreated,
			},
		},
		{
			Path:      "/meals",
			Method:    http.MethodGet,
			Protected: true,
			Metadata: core.EndpointMetadata{
				OperationID:   OpListMeals,
				Description:   "List the current user's meals, most recent first",
				SuccessStatus: http.StatusOK,
			},
		},
		{
			Path:      "/meals/metrics",
			Method:    http.MethodGet,
			Protected: true,
			Metadata: core.EndpointMetadata{
				OperationID:   OpGetMetrics,
				Description:   "Diet adherence metrics for the current user",
				SuccessStatus: http.StatusOK,
			},
		},
		{
			Path:      "/meals/:id",
			Method:    http.MethodGet,
			Protected: true,
			Metadata: core.EndpointMetadata{
				OperationID:   OpGetMeal,
				Description:   "Get one of the current user's meals",
				SuccessStatus: http.StatusOK,
			},
		},
		{
			Path:      "/meals/:id",
			Method:    http.MethodPut,
			Protected: true,
			Metadata: core.EndpointMetadata{
				OperationID:   OpUpdateMeal,
				Description:   "Replace a meal's name, description, diet flag and date",
				SuccessStatus: http.StatusNoContent,
			},
		},
		{
			Path:      "/meals/:id",
			Method:    http.MethodDelete,
			Protected: true,
			Metadata: core.EndpointMetadata{
				OperationID:   OpDeleteMeal,
				Description:   "Delete one of the current user's meals",
				SuccessStatus: http.StatusNoContent,
			},
		},
		{
			Path:   "/healthz",
			Method: http.MethodGet,
			Metadata: core.EndpointMetadata{
				OperationID:   OpHealth,
				Description:   "Liveness check",
				SuccessStatus: http.StatusOK,
			},
		},
	}
}

// EndpointRegistry manages a collection of framework-agnostic endpoints
// and handles conflict detection for duplicate METHOD:PATH combinations.
// Registration order is preserved.
type EndpointRegistry struct {
	// endpoints stores all registered endpoints keyed by "METHOD:PATH"
	endpoints map[string]*core.Endpoint
	order     []string
}

// NewEndpointRegistry creates a new registry with all base endpoints
// pre-registered.
func NewEndpointRegistry() *EndpointRegistry {
	reg := &EndpointRegistry{
		endpoints: make(map[string]*core.Endpoint),
	}

	base := BaseEndpoints()
	for i := range base {
		// base endpoints are unique by construction
		_ = reg.register(&base[i])
	}

	return reg
}

func endpointKey(ep *core.Endpoint) string {
	return fmt.Sprintf("%s:%s", ep.Method, ep.Path)
}

func (r *EndpointRegistry) register(ep *core.Endpoint) error {
	key := endpointKey(ep)

	if _, exists := r.endpoints[key]; exists {
		return fmt.Errorf("endpoint conflict: %s %s already registered", ep.Method, ep.Path)
	}

	r.endpoints[key] = ep
	r.order = append(r.order, key)
	return nil
}

// Extend registers additional endpoints, for example the telemetry route.
// If any endpoint conflicts with a registered one or with another in the
// same batch, nothing is registered.
func (r *EndpointRegistry) Extend(endpoints []core.Endpoint) error {
	seen := make(map[string]bool)
	for i := range endpoints {
		key := endpointKey(&endpoints[i])

		if _, exists := r.endpoints[key]; exists {
			return fmt.Errorf("endpoint conflict: %s %s already registered", endpoints[i].Method, endpoints[i].Path)
		}
		if seen[key] {
			return fmt.Errorf("duplicate endpoint: %s %s", endpoints[i].Method, endpoints[i].Path)
		}
		seen[key] = true
	}

	for i := range endpoints {
		_ = r.register(&endpoints[i])
	}

	return nil
}

// Endpoints returns all registered endpoints in registration order.
func (r *EndpointRegistry) Endpoints() []*core.Endpoint {
	result := make([]*core.Endpoint, 0, len(r.order))
	for _, key := range r.order {
		result = append(result, r.endpoints[key])
	}
	return result
}
