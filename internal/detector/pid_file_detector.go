package detector

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrEmptyPIDFile is returned when a PID file exists but holds no identifier.
var ErrEmptyPIDFile = errors.New("empty pid file")

// ReadPIDFile returns the decimal PID stored on the first line of path.
func ReadPIDFile(path string) (int, error) {
	b, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return 0, err
	}
	first, _, _ := strings.Cut(strings.ReplaceAll(string(b), "\r\n", "\n"), "\n")
	first = strings.TrimSpace(first)
	if first == "" {
		return 0, fmt.Errorf("%s: %w", path, ErrEmptyPIDFile)
	}
	pid, err := strconv.Atoi(first)
	if err != nil {
		return 0, fmt.Errorf("invalid pid in %s: %w", path, err)
	}
	return pid, nil
}

// PIDFileDetector detects a process via a PID file.
type PIDFileDetector struct {
	PIDFile string
}

// Alive reports false with a nil error when the file does not exist, and an
// error when its content is not a PID.
func (d PIDFileDetector) Alive() (bool, error) {
	pid, err := ReadPIDFile(d.PIDFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return PIDAlive(pid), nil
}

func (d PIDFileDetector) Describe() string { return "pidfile:" + d.PIDFile }
