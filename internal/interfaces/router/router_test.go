package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"aquafund-backend/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func errorOf(t *testing.T, resp *http.Response) string {
	t.Helper()
	var out struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out.Error
}

func TestCreateApp_Unconfigured(t *testing.T) {
	app, db, rdb, err := CreateApp(&config.Config{Env: "test", ChainID: config.DefaultChainID, NativeSymbol: "BNB"})
	require.NoError(t, err)
	assert.Nil(t, db)
	assert.Nil(t, rdb)

	cases := []struct {
		method, target string
		status         int
		message        string
	}{
		{"GET", "/api/ngos", http.StatusInternalServerError, "Backend URL not set"},
		{"GET", "/api/projects", http.StatusInternalServerError, "Backend URL not set"},
		{"POST", "/api/ngos/1/approve", http.StatusUnauthorized, "Authentication required"},
		{"GET", "/api/stats", http.StatusInternalServerError, "Blockchain RPC not configured"},
		{"GET", "/api/projects/1/address", http.StatusInternalServerError, "Blockchain RPC not configured"},
		{"GET", "/api/nothing", http.StatusNotFound, "Cannot GET /api/nothing"},
	}
	for _, tc := range cases {
		resp, err := app.Test(httptest.NewRequest(tc.method, tc.target, nil))
		require.NoError(t, err)
		assert.Equal(t, tc.status, resp.StatusCode, tc.target)
		assert.Equal(t, tc.message, errorOf(t, resp), tc.target)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/api/projects/1/donations", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var out map[string][]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Empty(t, out["donations"])
	assert.NotNil(t, out["donations"])
}

func TestCreateApp_WithRedis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	app, _, rdb, err := CreateApp(&config.Config{RedisURL: "redis://" + mr.Addr(), HealthAdminKey: "k"})
	require.NoError(t, err)
	require.NotNil(t, rdb)
	defer rdb.Close()

	_, err = app.Test(httptest.NewRequest("GET", "/api/stats", nil))
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest("GET", "/health/json", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var health struct {
		Traffic struct {
			TotalRequests int `json:"totalRequests"`
			FailedCount   int `json:"failedCount"`
		} `json:"traffic"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, 1, health.Traffic.TotalRequests)
	assert.Equal(t, 1, health.Traffic.FailedCount)
}

func TestCreateApp_BadRedisURL(t *testing.T) {
	_, _, _, err := CreateApp(&config.Config{RedisURL: "://nope"})
	assert.Error(t, err)
}
