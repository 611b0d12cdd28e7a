package metrics

import (
	"fmt"
	"sync"
	"time"
)

// EndpointKey builds the "METHOD path" composite key traffic is
// aggregated under.
func EndpointKey(method, path string) string {
	return fmt.Sprintf("%s %s", method, path)
}

// TimingStats summarizes response times for one endpoint key.
type TimingStats struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Avg   float64 `json:"avg"`
	Count int     `json:"count"`
}

// Report is a consistent point-in-time view of all traffic counters.
type Report struct {
	RequestsPerEndpoint map[string]int64       `json:"requests_per_endpoint"`
	StatusCodes         map[int]int64          `json:"status_codes"`
	ResponseTimes       map[string]TimingStats `json:"response_times"`
	RequestsLastHour    map[string]int         `json:"requests_last_hour"`
}

// Aggregator keeps process-lifetime traffic counters. All state sits
// behind one exclusive lock; critical sections are O(1) appends except
// Snapshot, which holds the lock for its full scan so readers never see
// a torn view.
type Aggregator struct {
	mu sync.Mutex

	window        time.Duration
	countFailures bool

	endpoints     map[string]int64
	statusCodes   map[int]int64
	responseTimes map[string][]float64
	recent        map[string][]time.Time

	now func() time.Time
}

// New creates an aggregator. window bounds the rolling "recent
// requests" view; countFailures controls whether requests that fail
// before producing a response still count.
func New(window time.Duration, countFailures bool) *Aggregator {
	if window <= 0 {
		window = 1 * time.Hour
	}
	return &Aggregator{
		window:        window,
		countFailures: countFailures,
		endpoints:     make(map[string]int64),
		statusCodes:   make(map[int]int64),
		responseTimes: make(map[string][]float64),
		recent:        make(map[string][]time.Time),
		now:           time.Now,
	}
}

// CountFailures reports whether failed requests should be recorded.
func (a *Aggregator) CountFailures() bool {
	return a.countFailures
}

// Record registers one completed call. The rolling marker list for the
// touched key is pruned lazily here; other keys are left alone.
func (a *Aggregator) Record(method, path string, statusCode int, responseTimeMS float64) {
	key := EndpointKey(method, path)
	now := a.now()

	a.mu.Lock()
	defer a.mu.Unlock()

	a.endpoints[key]++
	a.statusCodes[statusCode]++
	a.responseTimes[key] = append(a.responseTimes[key], responseTimeMS)

	markers := append(a.recent[key], now)
	cutoff := now.Add(-a.window)
	for len(markers) > 0 && !markers[0].After(cutoff) {
		markers = markers[1:]
	}
	a.recent[key] = markers
}

// Snapshot returns a consistent view of all counters since process
// start. The recent-request counts only include markers within the
// trailing window.
func (a *Aggregator) Snapshot() Report {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.now()
	cutoff := now.Add(-a.window)

	report := Report{
		RequestsPerEndpoint: make(map[string]int64, len(a.endpoints)),
		StatusCodes:         make(map[int]int64, len(a.statusCodes)),
		ResponseTimes:       make(map[string]TimingStats, len(a.responseTimes)),
		RequestsLastHour:    make(map[string]int, len(a.recent)),
	}

	for key, count := range a.endpoints {
		report.RequestsPerEndpoint[key] = count
	}
	for code, count := range a.statusCodes {
		report.StatusCodes[code] = count
	}
	for key, times := range a.responseTimes {
		if len(times) == 0 {
			continue
		}
		stats := TimingStats{Min: times[0], Max: times[0], Count: len(times)}
		sum := 0.0
		for _, t := range times {
			if t < stats.Min {
				stats.Min = t
			}
			if t > stats.Max {
				stats.Max = t
			}
			sum += t
		}
		stats.Avg = sum / float64(len(times))
		report.ResponseTimes[key] = stats
	}
	for key, markers := range a.recent {
		count := 0
		for _, m := range markers {
			if m.After(cutoff) {
				count++
			}
		}
		report.RequestsLastHour[key] = count
	}

	return report
}
