package process

import (
	"context"
	"time"
)

// WaitForExit blocks until pid is gone and reports true, or reports false when
// timeout elapses first. A zero timeout waits without bound; only cancelling
// ctx ends such a wait early, and that also reports false unless the process
// is gone by then.
func (c *Controller) WaitForExit(ctx context.Context, pid int, timeout time.Duration) bool {
	if !c.IsRunning(pid) {
		return true
	}
	bounded := timeout > 0
	deadline := c.clock.Now().Add(timeout)
	for {
		d := c.waitInterval
		if bounded {
			remaining := deadline.Sub(c.clock.Now())
			if remaining <= 0 {
				return false
			}
			d = min(d, remaining)
		}
		if err := c.clock.Sleep(ctx, d); err != nil {
			return !c.IsRunning(pid)
		}
		if !c.IsRunning(pid) {
			return true
		}
	}
}
