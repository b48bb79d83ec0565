package chain

import (
	"context"
	"errors"
	"math/big"
	"strconv"

	chainsvc "aquafund-backend/internal/application/chain"
	"aquafund-backend/internal/middleware"
	"aquafund-backend/internal/pkg/apperr"
	"aquafund-backend/internal/pkg/response"
	"aquafund-backend/internal/pkg/validation"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// MaxPageSize bounds getProjectsPaginated reads.
const MaxPageSize = 100

// Reader is the contract gateway surface these routes read through.
type Reader interface {
	PlatformStats(ctx context.Context) (*chainsvc.PlatformStats, error)
	AllProjectIDs(ctx context.Context) ([]string, error)
	ProjectsPaginated(ctx context.Context, offset, limit uint64) (*chainsvc.ProjectPage, error)
	ProjectAddress(ctx context.Context, projectID *big.Int) (common.Address, error)
	BadgeBalance(ctx context.Context, owner common.Address) (*big.Int, error)
}

// Handlers serves direct on-chain reads.
type Handlers struct {
	Chain Reader
}

// readError maps a gateway error: missing RPC config stays 500, a revert becomes notFound
// when given, anything else is 502.
func readError(c *fiber.Ctx, err error, notFound string) error {
	var cfgErr *apperr.ConfigError
	switch {
	case errors.As(err, &cfgErr):
		return response.FromError(c, err)
	case notFound != "" && chainsvc.IsRevert(err):
		return response.FromError(c, &apperr.NotFoundError{Message: notFound})
	}
	log.Error().Err(err).Str("trace_id", middleware.GetTraceID(c)).Str("path", c.Path()).Msg("chain: read failed")
	return response.FromError(c, &apperr.UpstreamError{Message: "Blockchain read failed", Err: err})
}

// Stats GET /api/stats
func (h *Handlers) Stats(c *fiber.Ctx) error {
	stats, err := h.Chain.PlatformStats(c.UserContext())
	if err != nil {
		return readError(c, err, "")
	}
	return response.JSON(c, fiber.StatusOK, stats)
}

// Projects GET /api/chain/projects?offset=&limit=
// Without paging parameters every id is returned.
func (h *Handlers) Projects(c *fiber.Ctx) error {
	offsetStr, limitStr := c.Query("offset"), c.Query("limit")
	if offsetStr == "" && limitStr == "" {
		ids, err := h.Chain.AllProjectIDs(c.UserContext())
		if err != nil {
			return readError(c, err, "")
		}
		return response.JSON(c, fiber.StatusOK, chainsvc.ProjectPage{IDs: ids, Total: strconv.Itoa(len(ids))})
	}

	var invalid []string
	offset, err := strconv.ParseUint(defaultString(offsetStr, "0"), 10, 64)
	if err != nil {
		invalid = append(invalid, "offset")
	}
	limit, err := strconv.ParseUint(defaultString(limitStr, "20"), 10, 64)
	if err != nil || limit == 0 || limit > MaxPageSize {
		invalid = append(invalid, "limit")
	}
	if len(invalid) > 0 {
		return response.FromError(c, &apperr.ValidationError{Invalid: invalid})
	}

	page, err := h.Chain.ProjectsPaginated(c.UserContext(), offset, limit)
	if err != nil {
		return readError(c, err, "")
	}
	return response.JSON(c, fiber.StatusOK, page)
}

// ProjectAddress GET /api/projects/:id/address
func (h *Handlers) ProjectAddress(c *fiber.Ctx) error {
	id, ok := new(big.Int).SetString(c.Params("id"), 10)
	if !ok || id.Sign() < 0 {
		return response.FromError(c, &apperr.ValidationError{Invalid: []string{"id"}})
	}
	addr, err := h.Chain.ProjectAddress(c.UserContext(), id)
	if err != nil {
		return readError(c, err, "Project not found")
	}
	return response.JSON(c, fiber.StatusOK, fiber.Map{"projectId": id.String(), "projectAddress": addr.Hex()})
}

// Badges GET /api/badges/:address
func (h *Handlers) Badges(c *fiber.Ctx) error {
	owner := c.Params("address")
	if !validation.IsValidAddress(owner) {
		return response.FromError(c, &apperr.ValidationError{Invalid: []string{"address"}})
	}
	balance, err := h.Chain.BadgeBalance(c.UserContext(), common.HexToAddress(owner))
	if err != nil {
		return readError(c, err, "")
	}
	return response.JSON(c, fiber.StatusOK, fiber.Map{"address": common.HexToAddress(owner).Hex(), "balance": balance.String()})
}

func defaultString(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
