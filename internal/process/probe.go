package process

import "github.com/loykin/procguard/internal/detector"

// Prober answers liveness questions about a PID.
type Prober interface {
	Alive(pid int) bool
}

// ProberFunc adapts a function to Prober.
type ProberFunc func(pid int) bool

func (f ProberFunc) Alive(pid int) bool { return f(pid) }

// Signaler delivers termination requests.
type Signaler interface {
	// Interrupt asks the process to exit cooperatively.
	Interrupt(pid int) error
	// Kill terminates the process unconditionally.
	Kill(pid int) error
}

type osProber struct{}

func (osProber) Alive(pid int) bool { return detector.PIDAlive(pid) }
