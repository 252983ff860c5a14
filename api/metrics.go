package api

import (
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"time"
)

// RouteMetrics aggregates metrics for a specific route
type RouteMetrics struct {
	Method      string        `json:"method"`
	Path        string        `json:"path"`
	Count       int64         `json:"count"`
	ErrorCount  int64         `json:"errorCount"`
	TotalTime   time.Duration `json:"totalTime"`
	AvgTime     time.Duration `json:"avgTime"`
	MinTime     time.Duration `json:"minTime"`
	MaxTime     time.Duration `json:"maxTime"`
	LastRequest time.Time     `json:"lastRequest"`
}

// ReaperMetrics counts eviction sweeps
type ReaperMetrics struct {
	Sweeps     int64     `json:"sweeps"`
	Failures   int64     `json:"failures"`
	Evictions  int64     `json:"evictions"`
	LastSweep  time.Time `json:"lastSweep"`
	LastResult int       `json:"lastResult"`
}

// MetricsSummary is served by the metrics route
type MetricsSummary struct {
	Since         time.Time      `json:"since"`
	TotalRequests int64          `json:"totalRequests"`
	TotalErrors   int64          `json:"totalErrors"`
	Routes        []RouteMetrics `json:"routes"`
	Reaper        ReaperMetrics  `json:"reaper"`
}

// MetricsCollector collects and aggregates request and sweep metrics
type MetricsCollector struct {
	mu            sync.RWMutex
	since         time.Time
	routeMetrics  map[string]*RouteMetrics
	totalRequests int64
	totalErrors   int64
	reaper        ReaperMetrics
	slowRequest   time.Duration
}

// NewMetricsCollector creates an empty collector. Requests slower than
// slowRequest are logged as warnings.
func NewMetricsCollector(slowRequest time.Duration) *MetricsCollector {
	return &MetricsCollector{
		since:        time.Now(),
		routeMetrics: make(map[string]*RouteMetrics),
		slowRequest:  slowRequest,
	}
}

// RecordRequest adds one served request to the route aggregate
func (mc *MetricsCollector) RecordRequest(method, path string, status int, duration time.Duration) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	routeKey := method + " " + path
	metrics, exists := mc.routeMetrics[routeKey]
	if !exists {
		metrics = &RouteMetrics{
			Method:  method,
			Path:    path,
			MinTime: duration,
		}
		mc.routeMetrics[routeKey] = metrics
	}

	metrics.Count++
	metrics.TotalTime += duration
	metrics.AvgTime = metrics.TotalTime / time.Duration(metrics.Count)
	metrics.LastRequest = time.Now()
	if duration < metrics.MinTime {
		metrics.MinTime = duration
	}
	if duration > metrics.MaxTime {
		metrics.MaxTime = duration
	}

	mc.totalRequests++
	if status >= http.StatusBadRequest {
		metrics.ErrorCount++
		mc.totalErrors++
	}
}

// RecordSweep adds the outcome of one reaper pass
func (mc *MetricsCollector) RecordSweep(evicted int, err error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.reaper.Sweeps++
	mc.reaper.LastSweep = time.Now()
	mc.reaper.LastResult = evicted
	mc.reaper.Evictions += int64(evicted)
	if err != nil {
		mc.reaper.Failures++
	}
}

// Summary returns a copy of everything collected so far, routes sorted by path
func (mc *MetricsCollector) Summary() MetricsSummary {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	routes := make([]RouteMetrics, 0, len(mc.routeMetrics))
	for _, m := range mc.routeMetrics {
		routes = append(routes, *m)
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})

	return MetricsSummary{
		Since:         mc.since,
		TotalRequests: mc.totalRequests,
		TotalErrors:   mc.totalErrors,
		Routes:        routes,
		Reaper:        mc.reaper,
	}
}

// SummaryHandler serves the collected metrics
func (mc *MetricsCollector) SummaryHandler(w http.ResponseWriter, r *http.Request) {
	b, err := json.Marshal(mc.Summary())
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}
