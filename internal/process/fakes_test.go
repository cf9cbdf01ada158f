package process

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/loykin/procguard/internal/detector"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

// fakeClock advances only when slept on.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps int
}

func newFakeClock() *fakeClock { return &fakeClock{now: time.Unix(1_700_000_000, 0)} }

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.sleeps++
	f.mu.Unlock()
	return nil
}

// fakeProc simulates one process reacting to signals on fake time.
type fakeProc struct {
	clock *fakeClock

	exists bool
	// exitAfterInterrupt < 0 means graceful requests are ignored.
	exitAfterInterrupt time.Duration
	// exitAt > 0 makes the process exit on its own at that offset from creation.
	exitAt      time.Duration
	created     time.Time
	ignoreKill  bool
	interruptFn func() error
	killErr     error

	interrupts    int
	kills         int
	interruptedAt time.Time
	killed        bool
}

func newFakeProc(c *fakeClock) *fakeProc {
	return &fakeProc{clock: c, exists: true, created: c.Now()}
}

func (p *fakeProc) Alive(int) bool {
	now := p.clock.Now()
	switch {
	case !p.exists:
		return false
	case p.killed && !p.ignoreKill:
		return false
	case p.exitAt > 0 && !now.Before(p.created.Add(p.exitAt)):
		return false
	case p.interrupts > 0 && p.exitAfterInterrupt >= 0 && !now.Before(p.interruptedAt.Add(p.exitAfterInterrupt)):
		return false
	}
	return true
}

func (p *fakeProc) Interrupt(int) error {
	p.interrupts++
	p.interruptedAt = p.clock.Now()
	if p.interruptFn != nil {
		return p.interruptFn()
	}
	return nil
}

func (p *fakeProc) Kill(int) error {
	p.kills++
	p.killed = true
	return p.killErr
}

func fakeController(c *fakeClock, p *fakeProc, opts ...Option) *Controller {
	base := []Option{WithClock(c), WithProber(p), WithSignaler(p), WithLogger(quiet)}
	return NewController(append(base, opts...)...)
}

type fakeLister struct {
	procs []detector.ProcessInfo
	err   error
}

func (l fakeLister) List(context.Context) ([]detector.ProcessInfo, error) {
	return l.procs, l.err
}

var errBoom = errors.New("boom")
