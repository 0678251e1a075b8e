package service

import (
	"context"
	"time"

	"browsing-agent/internal/application/port/output"
)

const DefaultPollInterval = 250 * time.Millisecond

// WaitUntil polls cond every interval until it holds or timeout elapses on
// clock. It reports whether cond held. Context cancellation stops polling.
func WaitUntil(ctx context.Context, clock output.Clock, timeout, interval time.Duration, cond func() bool) bool {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	deadline := clock.Now().Add(timeout)
	for {
		if cond() {
			return true
		}
		if !clock.Now().Before(deadline) {
			return false
		}
		if err := clock.Sleep(ctx, interval); err != nil {
			return false
		}
	}
}
