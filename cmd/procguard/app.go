package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/loykin/procguard"
	"github.com/loykin/procguard/internal/config"
	"github.com/loykin/procguard/internal/env"
	"github.com/loykin/procguard/internal/logger"
	"github.com/spf13/cobra"
)

// app carries state built once per invocation by the root pre-run hook.
type app struct {
	flags *GlobalFlags
	out   io.Writer

	cfg    *config.Config
	log    *slog.Logger
	ctl    *procguard.Controller
	closer io.Closer
}

func (a *app) setup(cmd *cobra.Command) error {
	c, err := config.Load(a.flags.ConfigPath)
	if err != nil {
		return err
	}
	if a.flags.LogLevel != "" {
		c.Log.Level = a.flags.LogLevel
	}
	if a.flags.LogFormat != "" {
		c.Log.Format = a.flags.LogFormat
	}
	l, closer, err := logger.New(c.Logger(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.cfg, a.log, a.closer = c, l, closer
	a.ctl = procguard.New(procguard.WithLogger(l), procguard.WithWaitInterval(c.Wait.PollInterval))
	return nil
}

func (a *app) close() error {
	if a.closer == nil {
		return nil
	}
	err := a.closer.Close()
	a.closer = nil
	return err
}

// policy applies flags the user set over the configured policy.
func (a *app) policy(cmd *cobra.Command, f PolicyFlags) procguard.TerminationPolicy {
	p := a.cfg.Policy()
	if cmd.Flags().Changed("force") {
		p.Force = f.Force
	}
	if cmd.Flags().Changed("timeout") {
		p.Timeout = f.Timeout
	}
	if cmd.Flags().Changed("poll") {
		p.PollInterval = f.Poll
	}
	return p
}

func addPolicyFlags(cmd *cobra.Command, f *PolicyFlags) {
	cmd.Flags().BoolVar(&f.Force, "force", false, "skip the graceful signal and kill immediately")
	cmd.Flags().DurationVar(&f.Timeout, "timeout", 0, "graceful shutdown timeout (default from config, 5s)")
	cmd.Flags().DurationVar(&f.Poll, "poll", 0, "liveness poll interval (default from config, 1s)")
}

func addSpawnFlags(cmd *cobra.Command, f *SpawnFlags) {
	cmd.Flags().StringVar(&f.WorkDir, "dir", "", "working directory (default current)")
	cmd.Flags().StringVar(&f.Output, "output", "", "file capturing stdout and stderr (default discard)")
	cmd.Flags().StringArrayVar(&f.Env, "env", nil, "KEY=VALUE added to the child environment (repeatable)")
	cmd.Flags().StringArrayVar(&f.EnvFiles, "env-file", nil, "file of KEY=VALUE lines added to the environment (repeatable)")
	cmd.Flags().BoolVar(&f.JSON, "json", false, "print the process handle as JSON")
}

// spawnSpec builds a SpawnSpec from args. Env files apply first, then --env.
func spawnSpec(f SpawnFlags, args []string) (procguard.SpawnSpec, error) {
	spec := procguard.SpawnSpec{Command: args[0], Args: args[1:], WorkDir: f.WorkDir}
	for _, p := range f.EnvFiles {
		kvs, err := env.LoadFile(p)
		if err != nil {
			return spec, fmt.Errorf("env file: %w", err)
		}
		spec.Env = append(spec.Env, kvs...)
	}
	spec.Env = append(spec.Env, f.Env...)
	if f.Output != "" {
		spec.Output = &procguard.OutputConfig{Path: f.Output}
	}
	return spec, nil
}

// pidArg parses a positive PID.
func pidArg(s string) (int, error) {
	pid, err := strconv.Atoi(s)
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid pid %q", s)
	}
	return pid, nil
}

func defaultLockPID() int {
	if ppid := os.Getppid(); ppid > 1 {
		return ppid
	}
	return os.Getpid()
}
