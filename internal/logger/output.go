package logger

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// StderrTag prefixes stderr lines when OutputConfig.TagStderr is set.
const StderrTag = "[stderr] "

// OutputConfig describes where a child's stdout and stderr are captured.
// Both streams go to the same file, interleaved.
//
// A plain config (no tagging, no rotation) hands the open file to the child,
// so capture outlives the caller. Tagging or rotation needs an in-process
// pump, and capture then stops when the caller exits.
type OutputConfig struct {
	Path       string
	TagStderr  bool
	MaxSizeMB  int // > 0 enables lumberjack rotation
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

func (c OutputConfig) Rotating() bool { return c.MaxSizeMB > 0 }

// Direct reports whether the child can write to the file descriptor itself.
func (c OutputConfig) Direct() bool { return !c.TagStderr && !c.Rotating() }

// Output is an opened capture sink.
type Output struct {
	Stdout io.Writer
	Stderr io.Writer

	closers []io.Closer
}

// Open creates directories and opens the sink in append mode.
func (c OutputConfig) Open() (*Output, error) {
	if c.Path == "" {
		return nil, errors.New("output path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(c.Path), 0o750); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var base io.WriteCloser
	if c.Rotating() {
		base = FileConfig{
			MaxSizeMB:  c.MaxSizeMB,
			MaxBackups: c.MaxBackups,
			MaxAgeDays: c.MaxAgeDays,
			Compress:   c.Compress,
		}.rotating(c.Path)
	} else {
		f, err := os.OpenFile(filepath.Clean(c.Path), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
		if err != nil {
			return nil, fmt.Errorf("open output: %w", err)
		}
		if c.Direct() {
			return &Output{Stdout: f, Stderr: f, closers: []io.Closer{f}}, nil
		}
		base = f
	}

	shared := &lockedWriter{w: base}
	out := &Output{Stdout: shared, Stderr: shared}
	if c.TagStderr {
		pw := &prefixWriter{w: shared, prefix: []byte(StderrTag), atStart: true}
		out.Stderr = pw
		out.closers = append(out.closers, pw)
	}
	out.closers = append(out.closers, base)
	return out, nil
}

// Close flushes partial tagged lines and closes the file. Safe to call twice.
func (o *Output) Close() error {
	var errs []error
	for _, c := range o.closers {
		if err := c.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			errs = append(errs, err)
		}
	}
	o.closers = nil
	return errors.Join(errs...)
}

// lockedWriter serializes writes from the stdout and stderr copy goroutines.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// prefixWriter writes prefix at the start of every line. Complete lines are
// written in one call so they do not interleave with the other stream.
type prefixWriter struct {
	mu      sync.Mutex
	w       io.Writer
	prefix  []byte
	buf     bytes.Buffer
	atStart bool
}

func (p *prefixWriter) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := len(b)
	for len(b) > 0 {
		if p.atStart {
			p.buf.Write(p.prefix)
			p.atStart = false
		}
		i := bytes.IndexByte(b, '\n')
		if i < 0 {
			p.buf.Write(b)
			break
		}
		p.buf.Write(b[:i+1])
		b = b[i+1:]
		p.atStart = true
		if err := p.flushLocked(); err != nil {
			return 0, err
		}
	}
	return n, nil
}

func (p *prefixWriter) flushLocked() error {
	if p.buf.Len() == 0 {
		return nil
	}
	_, err := p.w.Write(p.buf.Bytes())
	p.buf.Reset()
	return err
}

// Close writes out an unterminated last line.
func (p *prefixWriter) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.flushLocked()
}
