package health

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime"
	"sort"
	"strconv"
	"time"

	"aquafund-backend/internal/middleware"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Pinger is one dependency probe. A nil error means reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// GormPinger pings the database behind a gorm handle.
type GormPinger struct {
	DB *gorm.DB
}

func (g *GormPinger) Ping(ctx context.Context) error {
	sqlDB, err := g.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// HTTPPinger treats any HTTP answer from URL as reachable.
type HTTPPinger struct {
	URL    string
	Client *http.Client
}

func (h *HTTPPinger) Ping(ctx context.Context) error {
	client := h.Client
	if client == nil {
		client = &http.Client{Timeout: 3 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

// CollectResult is the /health/json body minus the service name.
type CollectResult struct {
	Status       string               `json:"status"`
	Runtime      RuntimeInfo          `json:"runtime"`
	Traffic      TrafficInfo          `json:"traffic"`
	Dependencies map[string]DepStatus `json:"dependencies"`
}

type RuntimeInfo struct {
	UptimeSeconds int64      `json:"uptimeSeconds"`
	Memory        MemoryInfo `json:"memory"`
	Goroutines    int        `json:"goroutines"`
	Platform      string     `json:"platform"`
	GoVersion     string     `json:"goVersion"`
}

type MemoryInfo struct {
	AllocMB  int `json:"allocMb"`
	HeapInMB int `json:"heapInUseMb"`
}

type TrafficInfo struct {
	TotalRequests   int         `json:"totalRequests"`
	SuccessCount    int         `json:"successCount"`
	FailedCount     int         `json:"failedCount"`
	SuccessRate     string      `json:"successRate"`
	AvgResponseTime interface{} `json:"avgResponseTime"`
	LastRequest     interface{} `json:"lastRequest"`
}

// DepStatus is connected, error or not_configured.
type DepStatus struct {
	Status string `json:"status"`
	PingMs *int64 `json:"pingMs"`
}

const (
	statusConnected     = "connected"
	statusError         = "error"
	statusNotConfigured = "not_configured"
)

// CollectHealth probes Redis and every named dependency. Overall status is "ok" when every
// configured dependency answers; unconfigured ones (nil) are reported but do not count.
func CollectHealth(ctx context.Context, rdb *redis.Client, deps map[string]Pinger) CollectResult {
	result := CollectResult{Dependencies: make(map[string]DepStatus), Status: "ok"}

	names := make([]string, 0, len(deps))
	for name := range deps {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		dep := probe(ctx, deps[name])
		result.Dependencies[name] = dep
		if dep.Status == statusError {
			result.Status = "issue"
		}
	}

	stats := TrafficInfo{AvgResponseTime: 0, SuccessRate: "100"}
	startTimeMs := time.Now().UnixMilli()
	if rdb == nil {
		result.Dependencies["redis"] = DepStatus{Status: statusNotConfigured}
	} else {
		start := time.Now()
		if err := rdb.Ping(ctx).Err(); err != nil {
			result.Dependencies["redis"] = DepStatus{Status: statusError}
			result.Status = "issue"
		} else {
			ms := time.Since(start).Milliseconds()
			result.Dependencies["redis"] = DepStatus{Status: statusConnected, PingMs: &ms}
			startTimeMs = readTraffic(ctx, rdb, &stats, startTimeMs)
		}
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	uptimeSec := (time.Now().UnixMilli() - startTimeMs) / 1000
	if uptimeSec < 0 {
		uptimeSec = 0
	}
	result.Runtime = RuntimeInfo{
		UptimeSeconds: uptimeSec,
		Memory:        MemoryInfo{AllocMB: int(m.Alloc / 1024 / 1024), HeapInMB: int(m.HeapInuse / 1024 / 1024)},
		Goroutines:    runtime.NumGoroutine(),
		Platform:      runtime.GOOS + " (" + runtime.GOARCH + ")",
		GoVersion:     runtime.Version(),
	}
	result.Traffic = stats
	return result
}

func probe(ctx context.Context, p Pinger) DepStatus {
	if p == nil {
		return DepStatus{Status: statusNotConfigured}
	}
	start := time.Now()
	if err := p.Ping(ctx); err != nil {
		return DepStatus{Status: statusError}
	}
	ms := time.Since(start).Milliseconds()
	return DepStatus{Status: statusConnected, PingMs: &ms}
}

// readTraffic fills stats from the HealthMarker counters and returns the recorded start time,
// seeding it when absent.
func readTraffic(ctx context.Context, rdb *redis.Client, stats *TrafficInfo, startTimeMs int64) int64 {
	vals, _ := rdb.MGet(ctx,
		middleware.KeyReqTotal, middleware.KeyReqErrors, middleware.KeyResTime,
		middleware.KeyResCount, middleware.KeyStartTime, middleware.KeyLastReq,
	).Result()
	get := func(i int) string {
		if i < len(vals) {
			if s, ok := vals[i].(string); ok {
				return s
			}
		}
		return ""
	}

	if s := get(4); s != "" {
		if t, err := strconv.ParseInt(s, 10, 64); err == nil {
			startTimeMs = t
		}
	} else {
		rdb.Set(ctx, middleware.KeyStartTime, startTimeMs, 0)
	}

	stats.TotalRequests, _ = strconv.Atoi(get(0))
	stats.FailedCount, _ = strconv.Atoi(get(1))
	stats.SuccessCount = stats.TotalRequests - stats.FailedCount
	if stats.TotalRequests > 0 {
		stats.SuccessRate = strconv.FormatFloat(float64(stats.SuccessCount)/float64(stats.TotalRequests)*100, 'f', 1, 64)
	}
	timeSum, _ := strconv.ParseFloat(get(2), 64)
	countSum, _ := strconv.Atoi(get(3))
	if countSum > 0 {
		stats.AvgResponseTime = strconv.FormatFloat(timeSum/float64(countSum), 'f', 2, 64)
	}
	if s := get(5); s != "" {
		var lastReq map[string]interface{}
		if json.Unmarshal([]byte(s), &lastReq) == nil {
			stats.LastRequest = lastReq
		}
	}
	return startTimeMs
}
