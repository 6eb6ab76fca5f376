package metrics

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Collector accumulates in-process request counters. No external metrics
// system; GET /metrics serves the snapshot.
type Collector struct {
	mu        sync.RWMutex
	startTime time.Time
	total     int64
	byRoute   map[string]int64
	byClass   map[string]int64
	totalDur  time.Duration
}

// Snapshot is the JSON shape served by the metrics endpoint
type Snapshot struct {
	UptimeSeconds int64            `json:"uptime_seconds"`
	TotalRequests int64            `json:"total_requests"`
	ByRoute       map[string]int64 `json:"requests_by_route"`
	ByStatusClass map[string]int64 `json:"requests_by_status_class"`
	AvgLatencyMS  float64          `json:"avg_latency_ms"`
}

// NewCollector creates a new metrics collector
func NewCollector() *Collector {
	return &Collector{
		startTime: time.Now(),
		byRoute:   make(map[string]int64),
		byClass:   make(map[string]int64),
	}
}

// Record adds one completed request to the counters
func (c *Collector) Record(route string, status int, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.total++
	c.byRoute[route]++
	c.byClass[statusClass(status)]++
	c.totalDur += duration
}

// Snapshot returns a copy of the current counters
func (c *Collector) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	byRoute := make(map[string]int64, len(c.byRoute))
	for k, v := range c.byRoute {
		byRoute[k] = v
	}
	byClass := make(map[string]int64, len(c.byClass))
	for k, v := range c.byClass {
		byClass[k] = v
	}

	var avgMS float64
	if c.total > 0 {
		avgMS = c.totalDur.Seconds() * 1000 / float64(c.total)
	}

	return Snapshot{
		UptimeSeconds: int64(time.Since(c.startTime).Seconds()),
		TotalRequests: c.total,
		ByRoute:       byRoute,
		ByStatusClass: byClass,
		AvgLatencyMS:  avgMS,
	}
}

// Middleware records every request once its handler chain completes
func (c *Collector) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		c.Record(route, ctx.Writer.Status(), time.Since(start))
	}
}

// Handler serves the snapshot as JSON
func (c *Collector) Handler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, c.Snapshot())
	}
}

func statusClass(status int) string {
	return fmt.Sprintf("%dxx", status/100)
}
