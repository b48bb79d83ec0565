package chain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	chainsvc "aquafund-backend/internal/application/chain"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	err        error
	pageOffset uint64
	pageLimit  uint64
}

func (f *fakeReader) PlatformStats(ctx context.Context) (*chainsvc.PlatformStats, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &chainsvc.PlatformStats{TotalProjects: "3", TotalFundsRaised: "100", TotalDonors: "4", TotalDonations: "9"}, nil
}

func (f *fakeReader) AllProjectIDs(ctx context.Context) ([]string, error) {
	return []string{"1", "2", "3"}, f.err
}

func (f *fakeReader) ProjectsPaginated(ctx context.Context, offset, limit uint64) (*chainsvc.ProjectPage, error) {
	f.pageOffset, f.pageLimit = offset, limit
	return &chainsvc.ProjectPage{IDs: []string{"2"}, Total: "3"}, f.err
}

func (f *fakeReader) ProjectAddress(ctx context.Context, id *big.Int) (common.Address, error) {
	if f.err != nil {
		return common.Address{}, f.err
	}
	return common.HexToAddress("0x4000000000000000000000000000000000000004"), nil
}

func (f *fakeReader) BadgeBalance(ctx context.Context, owner common.Address) (*big.Int, error) {
	return big.NewInt(2), f.err
}

func setupChain(r Reader) *fiber.App {
	h := &Handlers{Chain: r}
	app := fiber.New()
	app.Get("/api/stats", h.Stats)
	app.Get("/api/chain/projects", h.Projects)
	app.Get("/api/projects/:id/address", h.ProjectAddress)
	app.Get("/api/badges/:address", h.Badges)
	return app
}

func get(t *testing.T, app *fiber.App, target string) (int, string) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", target, nil))
	require.NoError(t, err)
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(b)
}

func TestStats(t *testing.T) {
	status, body := get(t, setupChain(&fakeReader{}), "/api/stats")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"totalProjects":"3","totalFundsRaised":"100","totalDonors":"4","totalDonations":"9"}`, body)

	status, body = get(t, setupChain(&fakeReader{err: errors.New("dial tcp: refused")}), "/api/stats")
	assert.Equal(t, http.StatusBadGateway, status)
	assert.JSONEq(t, `{"error":"Blockchain read failed"}`, body)
}

func TestRPCNotConfigured(t *testing.T) {
	var gw *chainsvc.Gateway
	app := setupChain(gw)
	for _, target := range []string{"/api/stats", "/api/chain/projects", "/api/projects/1/address",
		"/api/badges/0x52908400098527886E0F7030069857D2E4169EE7"} {
		status, body := get(t, app, target)
		assert.Equal(t, http.StatusInternalServerError, status, target)
		assert.JSONEq(t, `{"error":"Blockchain RPC not configured"}`, body, target)
	}
}

func TestProjects(t *testing.T) {
	fr := &fakeReader{}
	app := setupChain(fr)

	status, body := get(t, app, "/api/chain/projects")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"ids":["1","2","3"],"total":"3"}`, body)

	status, body = get(t, app, "/api/chain/projects?offset=1&limit=1")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"ids":["2"],"total":"3"}`, body)
	assert.Equal(t, uint64(1), fr.pageOffset)
	assert.Equal(t, uint64(1), fr.pageLimit)

	status, body = get(t, app, "/api/chain/projects?offset=-1&limit=500")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.JSONEq(t, `{"error":"Invalid format: offset, limit"}`, body)
}

func TestProjectAddress(t *testing.T) {
	status, body := get(t, setupChain(&fakeReader{}), "/api/projects/7/address")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"projectId":"7","projectAddress":"0x4000000000000000000000000000000000000004"}`, body)

	reverted := fmt.Errorf("%w: execution reverted", chainsvc.ErrContractRevert)
	status, body = get(t, setupChain(&fakeReader{err: reverted}), "/api/projects/7/address")
	assert.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `{"error":"Project not found"}`, body)

	status, _ = get(t, setupChain(&fakeReader{err: errors.New("i/o timeout")}), "/api/projects/7/address")
	assert.Equal(t, http.StatusBadGateway, status)

	status, _ = get(t, setupChain(&fakeReader{}), "/api/projects/x/address")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestBadges(t *testing.T) {
	app := setupChain(&fakeReader{})
	status, body := get(t, app, "/api/badges/0x52908400098527886e0f7030069857d2e4169ee7")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"address":"0x52908400098527886E0F7030069857D2E4169EE7","balance":"2"}`, body)

	status, body = get(t, app, "/api/badges/0x123")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.JSONEq(t, `{"error":"Invalid format: address"}`, body)
}
