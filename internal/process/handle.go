package process

import (
	"sync"
	"time"

	"github.com/loykin/procguard/internal/detector"
)

// Handle identifies a spawned process. Liveness is not stored here; ask the
// Controller.
type Handle struct {
	PID        int       `json:"pid"`
	RunID      string    `json:"run_id"`
	Command    string    `json:"command"`
	Args       []string  `json:"args,omitempty"`
	WorkDir    string    `json:"work_dir"`
	OutputPath string    `json:"output_path,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	// StartUnix is the OS-reported start time, 0 when unavailable.
	StartUnix int64 `json:"start_unix,omitempty"`

	done    chan struct{}
	mu      sync.Mutex
	exitErr error
}

func newHandle() *Handle { return &Handle{done: make(chan struct{})} }

// Done is closed once the child has exited and been reaped by this process.
func (h *Handle) Done() <-chan struct{} { return h.done }

// ExitErr returns the error from waiting on the child. Valid after Done.
func (h *Handle) ExitErr() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.exitErr
}

func (h *Handle) finish(err error) {
	h.mu.Lock()
	h.exitErr = err
	h.mu.Unlock()
	close(h.done)
}

// Detector returns a PID detector that rejects a recycled PID.
func (h *Handle) Detector() detector.PIDDetector {
	return detector.PIDDetector{PID: h.PID, StartUnix: h.StartUnix}
}
