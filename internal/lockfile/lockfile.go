// Package lockfile implements PID-stamped lock files for single-instance
// execution.
//
// A lock file holds the decimal PID of its holder. A file naming a dead
// process, or holding anything that is not a PID, is stale and is reclaimed
// by the next acquirer.
//
// The default protocol is read, check, then write. Two callers racing on a
// fresh path can both succeed. Set Locker.Exclusive to create the file with
// O_EXCL instead, in which case the loser of such a race sees contention.
package lockfile

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/loykin/procguard/internal/detector"
	"github.com/loykin/procguard/internal/metrics"
)

// ErrLockContention matches any *ContentionError via errors.Is.
var ErrLockContention = errors.New("lock held by a live process")

// ContentionError reports a lock held by a live process.
type ContentionError struct {
	Path      string
	HolderPID int
}

func (e *ContentionError) Error() string {
	return fmt.Sprintf("lock %s held by pid %d", e.Path, e.HolderPID)
}

func (e *ContentionError) Is(target error) bool { return target == ErrLockContention }

// Locker acquires and releases lock files. The zero value stamps locks with
// the current process's PID.
type Locker struct {
	// PID written into acquired locks. Zero means os.Getpid().
	PID int
	// Exclusive creates lock files with O_EXCL.
	Exclusive bool
	// Alive overrides the liveness check of the recorded holder.
	Alive func(pid int) bool
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

func (l Locker) pid() int {
	if l.PID > 0 {
		return l.PID
	}
	return os.Getpid()
}

func (l Locker) alive(pid int) bool {
	if pid <= 0 {
		return false
	}
	if l.Alive != nil {
		return l.Alive(pid)
	}
	return detector.PIDAlive(pid)
}

func (l Locker) log() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return slog.Default()
}

// Holder reads the PID recorded in path and whether that process is alive.
func (l Locker) Holder(path string) (int, bool, error) {
	pid, err := detector.ReadPIDFile(path)
	if err != nil {
		return 0, false, err
	}
	return pid, l.alive(pid), nil
}

// Acquire takes the lock at path. A live holder, including this Locker's own
// PID, yields a *ContentionError. Parent directories are created.
func (l Locker) Acquire(path string) error {
	holder, err := detector.ReadPIDFile(path)
	reclaimed := false
	var pe *fs.PathError
	switch {
	case err == nil && l.alive(holder):
		metrics.IncLock(metrics.LockContended)
		l.log().Debug("lock contended", "path", path, "holder", holder)
		return &ContentionError{Path: path, HolderPID: holder}
	case errors.Is(err, fs.ErrNotExist):
	case errors.As(err, &pe):
		// Unreadable, not merely invalid: refuse rather than clobber it.
		metrics.IncLock(metrics.LockError)
		return fmt.Errorf("read lock: %w", err)
	default:
		if rerr := os.Remove(path); rerr != nil && !errors.Is(rerr, fs.ErrNotExist) {
			metrics.IncLock(metrics.LockError)
			return fmt.Errorf("remove stale lock: %w", rerr)
		}
		reclaimed = true
		l.log().Info("reclaimed stale lock", "path", path, "holder", holder)
	}

	if err := l.write(path); err != nil {
		var ce *ContentionError
		if errors.As(err, &ce) {
			metrics.IncLock(metrics.LockContended)
		} else {
			metrics.IncLock(metrics.LockError)
		}
		return err
	}
	if reclaimed {
		metrics.IncLock(metrics.LockReclaimed)
	} else {
		metrics.IncLock(metrics.LockAcquired)
	}
	l.log().Debug("lock acquired", "path", path, "pid", l.pid())
	return nil
}

func (l Locker) write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create lock dir: %w", err)
	}
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if l.Exclusive {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}
	f, err := os.OpenFile(filepath.Clean(path), flags, 0o644)
	if err != nil {
		if l.Exclusive && errors.Is(err, fs.ErrExist) {
			holder, _ := detector.ReadPIDFile(path)
			return &ContentionError{Path: path, HolderPID: holder}
		}
		return fmt.Errorf("create lock: %w", err)
	}
	_, werr := f.WriteString(strconv.Itoa(l.pid()) + "\n")
	cerr := f.Close()
	if err := errors.Join(werr, cerr); err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("write lock: %w", err)
	}
	return nil
}

// TryAcquire is Acquire reduced to a boolean. Errors other than contention
// are logged.
func (l Locker) TryAcquire(path string) bool {
	err := l.Acquire(path)
	if err != nil && !errors.Is(err, ErrLockContention) {
		l.log().Warn("lock acquire failed", "path", path, "error", err)
	}
	return err == nil
}

// Release removes the lock file. Missing files and removal errors are ignored.
func (l Locker) Release(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		l.log().Debug("lock release failed", "path", path, "error", err)
	}
}

// WithLock runs fn while holding the lock at path.
func (l Locker) WithLock(path string, fn func() error) error {
	if err := l.Acquire(path); err != nil {
		return err
	}
	defer l.Release(path)
	return fn()
}

// Acquire takes path for the current process.
func Acquire(path string) error { return Locker{}.Acquire(path) }

// TryAcquire takes path for the current process and reports success.
func TryAcquire(path string) bool { return Locker{}.TryAcquire(path) }

// Release removes path, ignoring errors.
func Release(path string) { Locker{}.Release(path) }
