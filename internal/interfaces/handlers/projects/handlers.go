package projects

import (
	"context"
	"net/http"
	"time"

	"aquafund-backend/internal/application/backend"
	"aquafund-backend/internal/domain"
	"aquafund-backend/internal/interfaces/handlers/proxy"
	"aquafund-backend/internal/pkg/apperr"
	"aquafund-backend/internal/pkg/response"
	"aquafund-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// Aggregator builds merged project records.
type Aggregator interface {
	FetchProject(ctx context.Context, id, projectAddress string) *domain.ProjectRecord
	ClearCache()
}

// Donations serves cached donor lists.
type Donations interface {
	GetDonations(ctx context.Context, projectID string, forceRefresh bool) ([]domain.DonationRecord, error)
}

// Handlers serves project listing, creation, merged detail and donor lists.
type Handlers struct {
	Proxy      *proxy.Proxy
	Aggregator Aggregator
	Donations  Donations
}

var (
	listRoute   = proxy.Route{Method: http.MethodGet, Path: "/api/v1/projects", Normalize: backend.ProjectList, ForwardQuery: true}
	createRoute = proxy.Route{Method: http.MethodPost, Path: "/api/v1/projects", Validate: validateCreate}
)

// List GET /api/projects
func (h *Handlers) List(c *fiber.Ctx) error { return h.Proxy.Forward(c, listRoute) }

// Create POST /api/v1/projects (auth required)
func (h *Handlers) Create(c *fiber.Ctx) error { return h.Proxy.Forward(c, createRoute) }

// Get GET /api/projects/:id?address=0x...
func (h *Handlers) Get(c *fiber.Ctx) error {
	if !h.Proxy.Backend.Configured() {
		return response.FromError(c, apperr.ErrBackendURLNotSet)
	}
	addr := c.Query("address")
	if addr != "" && !validation.IsValidAddress(addr) {
		return response.FromError(c, &apperr.ValidationError{Invalid: []string{"address"}})
	}
	rec := h.Aggregator.FetchProject(c.UserContext(), c.Params("id"), addr)
	if rec == nil {
		return response.FromError(c, &apperr.NotFoundError{Message: "Project not found"})
	}
	return response.JSON(c, fiber.StatusOK, rec)
}

// ClearCache POST /api/projects/cache/clear (auth required)
func (h *Handlers) ClearCache(c *fiber.Ctx) error {
	h.Aggregator.ClearCache()
	return response.JSON(c, fiber.StatusOK, fiber.Map{"cleared": true})
}

// ListDonations GET /api/projects/:id/donations?refresh=true
func (h *Handlers) ListDonations(c *fiber.Ctx) error {
	refresh := c.QueryBool("refresh", false)
	donations, err := h.Donations.GetDonations(c.UserContext(), c.Params("id"), refresh)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.JSON(c, fiber.StatusOK, fiber.Map{"donations": donations})
}

func validateCreate(b proxy.Body, _ time.Time) error {
	var v validation.Checker
	v.Require("title", b.String("title"))
	v.Require("description", b.String("description"))
	if goal := b.String("fundingGoal"); v.Require("fundingGoal", goal) {
		v.Check("fundingGoal", validation.IsPositiveInteger(goal))
	}
	v.Require("ngoId", b.String("ngoId"))
	return v.Err()
}
