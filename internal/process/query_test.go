package process

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/loykin/procguard/internal/detector"
	"github.com/stretchr/testify/assert"
)

func TestFindByPattern(t *testing.T) {
	lister := fakeLister{procs: []detector.ProcessInfo{
		{PID: 10, Name: "nginx", Cmdline: "nginx -g daemon off;"},
		{PID: 11, Name: "worker", Cmdline: "/usr/bin/worker --queue=a[b"},
		{PID: 12, Name: "bash", Cmdline: "bash -c nginx-reload"},
		{PID: os.Getpid(), Name: "nginx-test", Cmdline: "nginx-test"},
	}}
	ctl := NewController(WithLister(lister), WithLogger(quiet))
	ctx := context.Background()

	assert.ElementsMatch(t, []int{10}, ctl.FindByPattern(ctx, "nginx", false), "self is excluded")
	assert.ElementsMatch(t, []int{10, 12}, ctl.FindByPattern(ctx, "nginx", true))
	assert.ElementsMatch(t, []int{10}, ctl.FindByPattern(ctx, "^ngi.x$", false))
	assert.ElementsMatch(t, []int{11}, ctl.FindByPattern(ctx, "a[b", true), "invalid regex falls back to literal")
	assert.Empty(t, ctl.FindByPattern(ctx, "nonexistent-xyz123", true))
	assert.Empty(t, ctl.FindByPattern(ctx, "", false))
}

func TestFindByPattern_QueryErrorIsEmpty(t *testing.T) {
	ctl := NewController(WithLister(fakeLister{err: errBoom}), WithLogger(quiet))
	assert.Empty(t, ctl.FindByPattern(context.Background(), ".*", true))
}

func TestIsRunning_RejectsNonPositive(t *testing.T) {
	called := false
	ctl := NewController(WithProber(ProberFunc(func(int) bool { called = true; return true })), WithLogger(quiet))
	assert.False(t, ctl.IsRunning(0))
	assert.False(t, ctl.IsRunning(-7))
	assert.False(t, called)
	assert.True(t, ctl.IsRunning(9))
}

func TestTerminateAllMatching_CountsOnlyActiveStops(t *testing.T) {
	c := newFakeClock()
	procs := map[int]*fakeProc{
		1: newFakeProc(c), // exits on request
		2: newFakeProc(c), // ignores everything
		3: newFakeProc(c), // already gone
		4: newFakeProc(c), // needs the kill
	}
	procs[2].exitAfterInterrupt = -1
	procs[2].ignoreKill = true
	procs[3].exists = false
	procs[4].exitAfterInterrupt = -1

	ctl := NewController(
		WithClock(c),
		WithLogger(quiet),
		WithProber(ProberFunc(func(pid int) bool { return procs[pid].Alive(pid) })),
		WithSignaler(multiSignaler(procs)),
		WithLister(fakeLister{procs: []detector.ProcessInfo{
			{PID: 1, Name: "svc"}, {PID: 2, Name: "svc"}, {PID: 3, Name: "svc"}, {PID: 4, Name: "svc"},
			{PID: 5, Name: "other"},
		}}),
	)

	n := ctl.TerminateAllMatching(context.Background(), "svc", TerminationPolicy{Timeout: time.Second, PollInterval: time.Second})
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, procs[2].kills, "failure on one match does not stop later ones")
	assert.Equal(t, 1, procs[4].kills)
	assert.Zero(t, procs[3].interrupts)
}

func TestTerminateAllMatchingFull(t *testing.T) {
	c := newFakeClock()
	p := newFakeProc(c)
	ctl := fakeController(c, p, WithLister(fakeLister{procs: []detector.ProcessInfo{
		{PID: 1, Name: "python3", Cmdline: "python3 app.py --port 80"},
	}}))
	assert.Zero(t, ctl.TerminateAllMatching(context.Background(), "app.py", TerminationPolicy{}))
	assert.Equal(t, 1, ctl.TerminateAllMatchingFull(context.Background(), "app.py", TerminationPolicy{}))
}

type multiSignaler map[int]*fakeProc

func (m multiSignaler) Interrupt(pid int) error { return m[pid].Interrupt(pid) }
func (m multiSignaler) Kill(pid int) error      { return m[pid].Kill(pid) }
