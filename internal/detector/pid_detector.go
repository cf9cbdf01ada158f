package detector

import (
	"fmt"
	"slices"

	gopsproc "github.com/shirou/gopsutil/v4/process"
)

// PIDAlive returns true if a process with the given pid exists and is not a zombie.
// Every lookup failure, including permission errors on exotic platforms, reads as not alive.
func PIDAlive(pid int) bool {
	if pid <= 0 || int64(pid) > int64(^uint32(0)>>1) {
		return false
	}
	p, err := gopsproc.NewProcess(int32(pid))
	if err != nil {
		return false
	}
	running, err := p.IsRunning()
	if err != nil || !running {
		return false
	}
	// A child that exited but was not reaped yet still has a table entry.
	if st, err := p.Status(); err == nil && slices.Contains(st, gopsproc.Zombie) {
		return false
	}
	return true
}

// PIDDetector detects by a provided PID number.
// When StartUnix is set, a process whose start time differs is treated as a
// different process that inherited a recycled PID.
type PIDDetector struct {
	PID       int
	StartUnix int64
}

func (d PIDDetector) Alive() (bool, error) {
	if !PIDAlive(d.PID) {
		return false, nil
	}
	if d.StartUnix > 0 {
		if cur := ProcStartUnix(d.PID); cur > 0 && cur != d.StartUnix {
			return false, nil
		}
	}
	return true, nil
}

func (d PIDDetector) Describe() string { return fmt.Sprintf("pid:%d", d.PID) }
