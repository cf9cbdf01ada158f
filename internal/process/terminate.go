package process

import (
	"context"

	"github.com/loykin/procguard/internal/metrics"
)

// Terminate stops pid according to policy.
//
// A process that is not running yields AlreadyStopped without waiting. Unless
// policy.Force is set, a graceful request is sent first and the process gets
// policy.Timeout to exit. Otherwise, or after the timeout, it is killed once;
// Failed means it was still present one poll interval after the kill.
//
// Cancelling ctx cuts any wait short. The outcome then reflects whether the
// process was seen gone at that point.
func (c *Controller) Terminate(ctx context.Context, pid int, policy TerminationPolicy) Outcome {
	start := c.clock.Now()
	out := c.terminate(ctx, pid, policy.withDefaults())
	elapsed := c.clock.Now().Sub(start)
	metrics.ObserveTermination(out.String(), elapsed.Seconds())

	switch out {
	case AlreadyStopped:
		c.log.Debug("process already stopped", "pid", pid)
	case Failed:
		c.log.Warn("process survived termination", "pid", pid, "elapsed", elapsed)
	default:
		c.log.Info("process terminated", "pid", pid, "outcome", out.String(), "elapsed", elapsed)
	}
	return out
}

// TerminateErr is Terminate with Failed reported as a *TerminationFailure.
func (c *Controller) TerminateErr(ctx context.Context, pid int, policy TerminationPolicy) (Outcome, error) {
	out := c.Terminate(ctx, pid, policy)
	if out == Failed {
		return out, &TerminationFailure{PID: pid}
	}
	return out, nil
}

func (c *Controller) terminate(ctx context.Context, pid int, p TerminationPolicy) Outcome {
	if !c.IsRunning(pid) {
		return AlreadyStopped
	}

	if !p.Force {
		err := c.signaler.Interrupt(pid)
		switch {
		case err == nil:
			gone, werr := c.pollUntilGone(ctx, pid, p)
			if gone {
				return StoppedGracefully
			}
			if werr != nil {
				return Failed
			}
		case isNoProcess(err):
			if !c.IsRunning(pid) {
				return StoppedGracefully
			}
		default:
			c.log.Debug("graceful request failed, escalating", "pid", pid, "error", err)
		}
	}

	// The process may exit between the last poll and the kill; the re-check
	// below decides, not the kill error.
	if err := c.signaler.Kill(pid); err != nil && !isNoProcess(err) {
		c.log.Debug("kill failed", "pid", pid, "error", err)
	}
	_ = c.clock.Sleep(ctx, p.PollInterval)
	if c.IsRunning(pid) {
		return Failed
	}
	return StoppedForcibly
}

// pollUntilGone polls every p.PollInterval for at most p.Timeout. The last
// check happens at the deadline itself.
func (c *Controller) pollUntilGone(ctx context.Context, pid int, p TerminationPolicy) (bool, error) {
	deadline := c.clock.Now().Add(p.Timeout)
	for {
		if !c.IsRunning(pid) {
			return true, nil
		}
		remaining := deadline.Sub(c.clock.Now())
		if remaining <= 0 {
			return false, nil
		}
		if err := c.clock.Sleep(ctx, min(p.PollInterval, remaining)); err != nil {
			return !c.IsRunning(pid), err
		}
	}
}

// TerminateAllMatching terminates every process whose name matches pattern
// and returns how many this call actually stopped. A failure on one match
// does not stop the others; AlreadyStopped matches are not counted.
func (c *Controller) TerminateAllMatching(ctx context.Context, pattern string, policy TerminationPolicy) int {
	return c.terminateAll(ctx, pattern, false, policy)
}

// TerminateAllMatchingFull is TerminateAllMatching against full command lines.
func (c *Controller) TerminateAllMatchingFull(ctx context.Context, pattern string, policy TerminationPolicy) int {
	return c.terminateAll(ctx, pattern, true, policy)
}

func (c *Controller) terminateAll(ctx context.Context, pattern string, full bool, policy TerminationPolicy) int {
	pids := c.FindByPattern(ctx, pattern, full)
	n := 0
	for _, pid := range pids {
		if c.Terminate(ctx, pid, policy).Stopped() {
			n++
		}
	}
	c.log.Info("terminated matching processes", "pattern", pattern, "matched", len(pids), "stopped", n)
	return n
}
