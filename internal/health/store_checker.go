package health

import (
	"context"
	"time"
)

// Pinger is implemented by session stores that can verify their backend.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StoreChecker verifies the session store backend is reachable.
type StoreChecker struct {
	store Pinger
}

// NewStoreChecker creates a checker for the given store.
func NewStoreChecker(store Pinger) *StoreChecker {
	return &StoreChecker{store: store}
}

// Name implements Checker.
func (c *StoreChecker) Name() string {
	return "session-store"
}

// Check implements Checker. Without the store no session can be loaded, so
// a failure is unhealthy.
func (c *StoreChecker) Check(ctx context.Context) *Result {
	start := time.Now()
	if err := c.store.Ping(ctx); err != nil {
		return Unhealthy("store unreachable").
			WithDetail("error", err.Error())
	}

	result := Healthy("store reachable")
	result.Latency = time.Since(start)
	return result
}
