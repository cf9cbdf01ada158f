//go:build !windows

package process

import (
	"errors"

	"golang.org/x/sys/unix"
)

// osSignaler signals a single PID, never its process group: a PID found by
// pattern need not be a group leader.
type osSignaler struct{}

func (osSignaler) Interrupt(pid int) error { return unix.Kill(pid, unix.SIGTERM) }

func (osSignaler) Kill(pid int) error { return unix.Kill(pid, unix.SIGKILL) }

// isNoProcess reports whether err means the target already exited.
func isNoProcess(err error) bool { return errors.Is(err, unix.ESRCH) }
