//go:build windows

package process

import (
	"errors"

	"golang.org/x/sys/windows"
)

// osSignaler uses console control events for the graceful request. They only
// reach processes sharing our console, so Terminate escalates when the event
// cannot be delivered.
type osSignaler struct{}

func (osSignaler) Interrupt(pid int) error {
	return windows.GenerateConsoleCtrlEvent(windows.CTRL_BREAK_EVENT, uint32(pid))
}

func (osSignaler) Kill(pid int) error {
	h, err := windows.OpenProcess(windows.PROCESS_TERMINATE, false, uint32(pid))
	if err != nil {
		return err
	}
	defer func() { _ = windows.CloseHandle(h) }()
	return windows.TerminateProcess(h, 1)
}

// isNoProcess reports whether err means the target already exited.
// OpenProcess fails with ERROR_INVALID_PARAMETER for unknown PIDs.
func isNoProcess(err error) bool { return errors.Is(err, windows.ERROR_INVALID_PARAMETER) }
