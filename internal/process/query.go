package process

import (
	"context"
	"regexp"
)

// IsRunning reports whether pid currently exists. It never fails: a missing
// process and a failed OS query both read as false. A recycled PID cannot be
// told apart here; use Handle.Detector for that.
func (c *Controller) IsRunning(pid int) bool {
	if pid <= 0 {
		return false
	}
	return c.prober.Alive(pid)
}

// FindByPattern returns the PIDs whose name, or full command line when full is
// set, matches pattern at the moment of the call. pattern is a regular
// expression; one that does not compile is matched as a literal substring.
// The calling process is never included. An empty pattern matches nothing.
func (c *Controller) FindByPattern(ctx context.Context, pattern string, full bool) []int {
	if pattern == "" {
		return nil
	}
	re := compilePattern(pattern)
	procs, err := c.lister.List(ctx)
	if err != nil {
		c.log.Debug("process query failed", "error", &QueryError{Op: "list", Err: err})
		return nil
	}
	var pids []int
	for _, p := range procs {
		if p.PID == c.self || p.PID <= 0 {
			continue
		}
		subject := p.Name
		if full {
			subject = p.Cmdline
		}
		if re.MatchString(subject) {
			pids = append(pids, p.PID)
		}
	}
	return pids
}

func compilePattern(pattern string) *regexp.Regexp {
	if re, err := regexp.Compile(pattern); err == nil {
		return re
	}
	return regexp.MustCompile(regexp.QuoteMeta(pattern))
}
