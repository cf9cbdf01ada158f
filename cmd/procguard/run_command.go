package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/loykin/procguard"
	"github.com/spf13/cobra"
)

// createRunCommand creates the run subcommand
func createRunCommand(a *app, f *RunFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [flags] -- COMMAND [ARGS...]",
		Short: "Run a command in the foreground, optionally under a lock",
		Long: `Run COMMAND and wait for it. With --lock only one instance runs at a time;
a second invocation exits 1 while the first is alive. SIGINT and SIGTERM are
forwarded as a graceful stop that escalates after --timeout. The exit status
is the child's.

Examples:
  procguard run --lock=/run/sync.lock -- rsync -a src/ dst/
  procguard run --output=/var/log/job.out --tag-stderr --output-max-size=50 -- ./job
  procguard run --metrics-addr=:9100 --timeout=30s -- ./server`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, *f, args)
		},
	}
	cmd.Flags().SetInterspersed(false)
	addSpawnFlags(cmd, &f.SpawnFlags)
	addPolicyFlags(cmd, &f.PolicyFlags)
	cmd.Flags().StringVar(&f.Lock, "lock", "", "lock file guarding single-instance execution")
	cmd.Flags().BoolVar(&f.Exclusive, "exclusive", false, "create the lock with O_EXCL")
	cmd.Flags().BoolVar(&f.TagStderr, "tag-stderr", false, "prefix stderr lines in --output with [stderr]")
	cmd.Flags().IntVar(&f.MaxSizeMB, "output-max-size", 0, "rotate --output at this size in MB (0 disables)")
	cmd.Flags().StringVar(&f.MetricsAddr, "metrics-addr", "", "serve Prometheus /metrics on this address")
	return cmd
}

func (a *app) run(cmd *cobra.Command, f RunFlags, args []string) error {
	spec, err := spawnSpec(f.SpawnFlags, args)
	if err != nil {
		return err
	}
	if spec.Output == nil && (f.TagStderr || f.MaxSizeMB > 0) {
		return errors.New("--tag-stderr and --output-max-size require --output")
	}
	if spec.Output != nil {
		spec.Output.TagStderr = f.TagStderr
		spec.Output.MaxSizeMB = f.MaxSizeMB
	}

	if f.Lock != "" {
		l := procguard.Locker{Exclusive: a.cfg.Lock.Exclusive || f.Exclusive, Logger: a.log}
		if err := l.Acquire(f.Lock); err != nil {
			if errors.Is(err, procguard.ErrLockContention) {
				return fail("%v", err)
			}
			return err
		}
		defer l.Release(f.Lock)
	}

	addr := a.cfg.Metrics.Addr
	if cmd.Flags().Changed("metrics-addr") {
		addr = f.MetricsAddr
	}
	if addr != "" {
		stopMetrics, err := a.serveMetrics(addr)
		if err != nil {
			return err
		}
		defer stopMetrics()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	h, err := a.ctl.Spawn(ctx, spec)
	if err != nil {
		return err
	}
	if f.JSON {
		if err := printJSON(a.out, h); err != nil {
			return err
		}
	}

	select {
	case <-h.Done():
	case <-ctx.Done():
		a.log.Info("stopping child", "pid", h.PID, "run_id", h.RunID)
		if outcome := a.ctl.Terminate(context.Background(), h.PID, a.policy(cmd, f.PolicyFlags)); outcome == procguard.Failed {
			return fail("pid %d survived termination", h.PID)
		}
		<-h.Done()
	}
	return childExit(h.ExitErr())
}

func (a *app) serveMetrics(addr string) (func(), error) {
	if err := procguard.RegisterMetricsDefault(); err != nil {
		return nil, err
	}
	srv := procguard.NewMetricsServer(addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("metrics server stopped", "addr", addr, "error", err)
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}

// childExit maps the child's wait error onto this process's exit status.
func childExit(err error) error {
	if err == nil {
		return nil
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		code := ee.ExitCode()
		if code <= 0 {
			code = 1
		}
		return &exitError{code: code}
	}
	return err
}
