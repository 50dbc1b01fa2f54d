package server

import (
	"fmt"
	"sync"
	"time"
)

// RateLimiter manages per-client request rate limiting and daily
// quotas. Scholarship portals see bursts at submission deadlines, so
// the per-minute limit is the one that matters in practice.
type RateLimiter struct {
	mu sync.Mutex

	requestsPerMinute int
	requestsPerHour   int
	maxRequestsPerDay int
	maxDataPerDay     int64 // uploaded bytes

	clients map[string]*clientUsage
}

// clientUsage tracks usage for a single client IP.
type clientUsage struct {
	minuteCount int
	hourCount   int
	dayCount    int
	dayData     int64

	lastRequest time.Time
	dayStart    time.Time
}

// NewRateLimiter creates a rate limiter with the given limits. A zero
// value disables the corresponding limit.
func NewRateLimiter(requestsPerMinute, requestsPerHour, maxRequestsPerDay int, maxDataPerDay int64) *RateLimiter {
	return &RateLimiter{
		requestsPerMinute: requestsPerMinute,
		requestsPerHour:   requestsPerHour,
		maxRequestsPerDay: maxRequestsPerDay,
		maxDataPerDay:     maxDataPerDay,
		clients:           make(map[string]*clientUsage),
	}
}

// Allow checks whether a request from the given client is permitted and
// records it if so.
func (rl *RateLimiter) Allow(clientID string, dataSize int64) error {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	usage, ok := rl.clients[clientID]
	if !ok {
		usage = &clientUsage{lastRequest: now, dayStart: now}
		rl.clients[clientID] = usage
	}

	rl.rollWindows(usage, now)

	if err := rl.checkRates(usage, now); err != nil {
		return err
	}
	if err := rl.checkQuotas(usage, dataSize, now); err != nil {
		return err
	}

	usage.minuteCount++
	usage.hourCount++
	usage.dayCount++
	usage.dayData += dataSize
	usage.lastRequest = now
	return nil
}

// rollWindows resets counters whose time window has passed.
func (rl *RateLimiter) rollWindows(usage *clientUsage, now time.Time) {
	if now.Day() != usage.dayStart.Day() || now.Month() != usage.dayStart.Month() {
		usage.dayCount = 0
		usage.dayData = 0
		usage.dayStart = now
	}
	if now.Sub(usage.lastRequest) >= time.Minute {
		usage.minuteCount = 0
	}
	if now.Sub(usage.lastRequest) >= time.Hour {
		usage.hourCount = 0
	}
}

func (rl *RateLimiter) checkRates(usage *clientUsage, now time.Time) error {
	if rl.requestsPerMinute > 0 && usage.minuteCount >= rl.requestsPerMinute {
		return &RateLimitError{
			Type:       "minute",
			Limit:      rl.requestsPerMinute,
			RetryAfter: time.Minute - now.Sub(usage.lastRequest),
		}
	}
	if rl.requestsPerHour > 0 && usage.hourCount >= rl.requestsPerHour {
		return &RateLimitError{
			Type:       "hour",
			Limit:      rl.requestsPerHour,
			RetryAfter: time.Hour - now.Sub(usage.lastRequest),
		}
	}
	return nil
}

func (rl *RateLimiter) checkQuotas(usage *clientUsage, dataSize int64, now time.Time) error {
	midnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())

	if rl.maxRequestsPerDay > 0 && usage.dayCount >= rl.maxRequestsPerDay {
		return &QuotaExceededError{
			Type:   "requests",
			Limit:  int64(rl.maxRequestsPerDay),
			Used:   int64(usage.dayCount),
			Resets: midnight,
		}
	}
	if rl.maxDataPerDay > 0 && usage.dayData+dataSize > rl.maxDataPerDay {
		return &QuotaExceededError{
			Type:   "data",
			Limit:  rl.maxDataPerDay,
			Used:   usage.dayData,
			Resets: midnight,
		}
	}
	return nil
}

// Usage is a read-only snapshot of one client's counters.
type Usage struct {
	RequestsLastMinute int
	RequestsLastHour   int
	RequestsToday      int
	DataToday          int64
}

// GetUsage returns current usage statistics for a client.
func (rl *RateLimiter) GetUsage(clientID string) Usage {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	usage, ok := rl.clients[clientID]
	if !ok {
		return Usage{}
	}
	return Usage{
		RequestsLastMinute: usage.minuteCount,
		RequestsLastHour:   usage.hourCount,
		RequestsToday:      usage.dayCount,
		DataToday:          usage.dayData,
	}
}

// RateLimitError represents a rate limit violation.
type RateLimitError struct {
	Type       string        // "minute" or "hour"
	Limit      int           // the limit that was exceeded
	RetryAfter time.Duration // how long to wait before retrying
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded for %s (limit: %d, retry after: %v)", e.Type, e.Limit, e.RetryAfter)
}

// QuotaExceededError represents a daily quota violation.
type QuotaExceededError struct {
	Type   string    // "requests" or "data"
	Limit  int64     // the limit that was exceeded
	Used   int64     // current usage
	Resets time.Time // when the quota resets
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("quota exceeded for %s (used: %d, limit: %d, resets: %s)",
		e.Type, e.Used, e.Limit, e.Resets.Format(time.RFC3339))
}
