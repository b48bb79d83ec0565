package users

import (
	"net/http"
	"time"

	"aquafund-backend/internal/application/backend"
	"aquafund-backend/internal/interfaces/handlers/proxy"
	"aquafund-backend/internal/pkg/constants"
	"aquafund-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// Handlers forwards user profile operations to the backend.
type Handlers struct {
	Proxy *proxy.Proxy
}

var (
	createRoute = proxy.Route{Method: http.MethodPost, Path: "/api/v1/users", Validate: validateCreate}
	getRoute    = proxy.Route{Method: http.MethodGet, Path: "/api/v1/users/:id", Normalize: backend.UserGet}
	updateRoute = proxy.Route{Method: http.MethodPut, Path: "/api/v1/users/:id", Validate: validateUpdate}
)

// Create POST /api/v1/users
func (h *Handlers) Create(c *fiber.Ctx) error { return h.Proxy.Forward(c, createRoute) }

// Get GET /api/v1/users/:id
func (h *Handlers) Get(c *fiber.Ctx) error { return h.Proxy.Forward(c, getRoute) }

// Update PUT /api/v1/users/:id (auth required)
func (h *Handlers) Update(c *fiber.Ctx) error { return h.Proxy.Forward(c, updateRoute) }

func validateCreate(b proxy.Body, _ time.Time) error {
	var v validation.Checker
	v.Require("name", b.String("name"))
	v.Email("email", b.String("email"))
	v.Address("wallet", b.String("wallet"))
	v.Require("companyName", b.String("companyName"))
	v.OneOf("role", b.String("role"), constants.UserRoles...)
	return v.Err()
}

// validateUpdate checks formats of the fields that are present; none is required.
func validateUpdate(b proxy.Body, _ time.Time) error {
	var v validation.Checker
	if b.Has("email") {
		v.Check("email", validation.IsValidEmail(b.String("email")))
	}
	if b.Has("wallet") {
		v.Check("wallet", validation.IsValidAddress(b.String("wallet")))
	}
	if b.Has("role") {
		v.OneOf("role", b.String("role"), constants.UserRoles...)
	}
	return v.Err()
}
