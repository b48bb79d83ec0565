package ngos

import (
	"net/http"
	"time"

	"aquafund-backend/internal/application/backend"
	"aquafund-backend/internal/interfaces/handlers/proxy"
	"aquafund-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// maxReasonLength bounds the optional rejection reason.
const maxReasonLength = 1000

// Handlers forwards NGO operations to the backend.
type Handlers struct {
	Proxy *proxy.Proxy
}

var (
	listRoute    = proxy.Route{Method: http.MethodGet, Path: "/api/v1/ngos", Normalize: backend.NGOList, ForwardQuery: true}
	getRoute     = proxy.Route{Method: http.MethodGet, Path: "/api/v1/ngos/:id", Normalize: backend.NGOGet}
	createRoute  = proxy.Route{Method: http.MethodPost, Path: "/api/v1/ngos", Validate: validateCreate}
	approveRoute = proxy.Route{Method: http.MethodPost, Path: "/api/v1/ngos/:id/approve"}
	rejectRoute  = proxy.Route{Method: http.MethodPost, Path: "/api/v1/ngos/:id/reject", Validate: validateReject}
)

// List GET /api/ngos
func (h *Handlers) List(c *fiber.Ctx) error { return h.Proxy.Forward(c, listRoute) }

// Get GET /api/ngos/:id
func (h *Handlers) Get(c *fiber.Ctx) error { return h.Proxy.Forward(c, getRoute) }

// Create POST /api/ngos
func (h *Handlers) Create(c *fiber.Ctx) error { return h.Proxy.Forward(c, createRoute) }

// Approve POST /api/ngos/:id/approve (auth required)
func (h *Handlers) Approve(c *fiber.Ctx) error { return h.Proxy.Forward(c, approveRoute) }

// Reject POST /api/ngos/:id/reject (auth required)
func (h *Handlers) Reject(c *fiber.Ctx) error { return h.Proxy.Forward(c, rejectRoute) }

func validateCreate(b proxy.Body, now time.Time) error {
	var v validation.Checker
	v.Require("organizationName", b.String("organizationName"))
	v.Email("email", b.String("email"))
	v.Address("walletAddress", b.String("walletAddress"))
	v.Require("country", b.String("country"))
	v.Year("yearEstablished", b.String("yearEstablished"), now)
	return v.Err()
}

func validateReject(b proxy.Body, _ time.Time) error {
	var v validation.Checker
	if b.Has("reason") {
		_, isString := b["reason"].(string)
		v.Check("reason", isString && len(b.String("reason")) <= maxReasonLength)
	}
	return v.Err()
}
