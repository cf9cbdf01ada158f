package process

import "time"

// Defaults applied to zero TerminationPolicy fields.
const (
	DefaultTimeout      = 5 * time.Second
	DefaultPollInterval = 1 * time.Second
	// DefaultWaitInterval is the poll interval of WaitForExit.
	DefaultWaitInterval = 100 * time.Millisecond
)

// TerminationPolicy governs how Terminate escalates.
type TerminationPolicy struct {
	// Force skips the graceful phase and kills immediately.
	Force bool
	// Timeout bounds the graceful phase.
	Timeout time.Duration
	// PollInterval is the delay between liveness checks, and the wait after the kill.
	PollInterval time.Duration
}

func (p TerminationPolicy) withDefaults() TerminationPolicy {
	if p.Timeout <= 0 {
		p.Timeout = DefaultTimeout
	}
	if p.PollInterval <= 0 {
		p.PollInterval = DefaultPollInterval
	}
	return p
}

// Outcome is the result of a termination request.
type Outcome int

const (
	AlreadyStopped Outcome = iota
	StoppedGracefully
	StoppedForcibly
	Failed
)

func (o Outcome) String() string {
	switch o {
	case AlreadyStopped:
		return "already-stopped"
	case StoppedGracefully:
		return "stopped-gracefully"
	case StoppedForcibly:
		return "stopped-forcibly"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Stopped reports whether this call actually stopped the process.
func (o Outcome) Stopped() bool { return o == StoppedGracefully || o == StoppedForcibly }

func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }
