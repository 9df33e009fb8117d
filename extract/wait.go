// Package extract turns a rendered search page into validated result
// records. It is DOM-source agnostic: the same pipeline runs against a live
// browser page or a parsed HTML document.
package extract

import (
	"context"
	"time"
)

// DefaultWaitTimes is the staged render-wait schedule consumed in order.
// Each stage is one sleep followed by an extraction attempt; the first stage
// that yields records ends the ladder.
var DefaultWaitTimes = []time.Duration{
	2 * time.Second,
	3 * time.Second,
	5 * time.Second,
}

// WaitFunc pauses between render-wait stages. Implementations must honor
// context cancellation.
type WaitFunc func(ctx context.Context, d time.Duration) error

// Sleep is the production WaitFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
