package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"aquafund-backend/internal/middleware"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCollectHealth_NothingConfigured(t *testing.T) {
	result := CollectHealth(context.Background(), nil, map[string]Pinger{"backend": nil, "rpc": nil})
	assert.Equal(t, "ok", result.Status)
	assert.Equal(t, "not_configured", result.Dependencies["redis"].Status)
	assert.Equal(t, "not_configured", result.Dependencies["backend"].Status)
	assert.Equal(t, 0, result.Traffic.TotalRequests)
	assert.NotEmpty(t, result.Runtime.GoVersion)
}

func TestCollectHealth_FailingDependency(t *testing.T) {
	deps := map[string]Pinger{
		"rpc":     PingFunc(func(context.Context) error { return errors.New("dial tcp: refused") }),
		"backend": PingFunc(func(context.Context) error { return nil }),
	}
	result := CollectHealth(context.Background(), nil, deps)
	assert.Equal(t, "issue", result.Status)
	assert.Equal(t, "error", result.Dependencies["rpc"].Status)
	assert.Equal(t, "connected", result.Dependencies["backend"].Status)
	assert.NotNil(t, result.Dependencies["backend"].PingMs)
}

func TestCollectHealth_WithMiniredis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	ctx := context.Background()

	result := CollectHealth(ctx, rdb, nil)
	assert.Equal(t, "connected", result.Dependencies["redis"].Status)
	assert.Equal(t, "100", result.Traffic.SuccessRate)
	assert.True(t, mr.Exists(middleware.KeyStartTime))

	require.NoError(t, rdb.Set(ctx, middleware.KeyReqTotal, "10", 0).Err())
	require.NoError(t, rdb.Set(ctx, middleware.KeyReqErrors, "2", 0).Err())
	require.NoError(t, rdb.Set(ctx, middleware.KeyResTime, "150.5", 0).Err())
	require.NoError(t, rdb.Set(ctx, middleware.KeyResCount, "10", 0).Err())
	require.NoError(t, rdb.Set(ctx, middleware.KeyLastReq, `{"path":"/api/stats"}`, 0).Err())

	result = CollectHealth(ctx, rdb, nil)
	assert.Equal(t, 10, result.Traffic.TotalRequests)
	assert.Equal(t, 2, result.Traffic.FailedCount)
	assert.Equal(t, 8, result.Traffic.SuccessCount)
	assert.Equal(t, "80.0", result.Traffic.SuccessRate)
	assert.Equal(t, "15.05", result.Traffic.AvgResponseTime)
	assert.Equal(t, "/api/stats", result.Traffic.LastRequest.(map[string]interface{})["path"])
}

func TestHTTPPinger(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	assert.NoError(t, (&HTTPPinger{URL: srv.URL}).Ping(context.Background()))
	assert.Error(t, (&HTTPPinger{URL: "http://127.0.0.1:1"}).Ping(context.Background()))
}

func TestGormPinger(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	assert.NoError(t, (&GormPinger{DB: db}).Ping(context.Background()))
}
