package process

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/loykin/procguard/internal/detector"
	"github.com/loykin/procguard/internal/env"
	"github.com/loykin/procguard/internal/logger"
	"github.com/loykin/procguard/internal/metrics"
)

// SpawnSpec describes a process to launch.
type SpawnSpec struct {
	Command string
	Args    []string
	// WorkDir defaults to the caller's current directory.
	WorkDir string
	// Env entries override the caller's environment; ${VAR} expands.
	Env []string
	// Output captures stdout and stderr; nil discards both.
	Output *logger.OutputConfig
}

// Spawn launches spec detached from the caller and returns without waiting.
// A background goroutine reaps the child and closes in-process sinks.
func (c *Controller) Spawn(ctx context.Context, spec SpawnSpec) (*Handle, error) {
	h, err := c.spawn(ctx, spec)
	if err != nil {
		var se *SpawnError
		if errors.As(err, &se) {
			metrics.IncSpawnFailure(se.Op)
		}
		c.log.Warn("spawn failed", "command", spec.Command, "error", err)
		return nil, err
	}
	metrics.IncSpawn()
	c.log.Info("process spawned", "pid", h.PID, "run_id", h.RunID, "command", h.Command, "work_dir", h.WorkDir)
	return h, nil
}

func (c *Controller) spawn(ctx context.Context, spec SpawnSpec) (*Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fail := func(op string, err error) error {
		return &SpawnError{Op: op, Command: spec.Command, Err: err}
	}
	if strings.TrimSpace(spec.Command) == "" {
		return nil, fail(OpLookup, errors.New("empty command"))
	}
	path, err := exec.LookPath(spec.Command)
	if err != nil {
		return nil, fail(OpLookup, err)
	}

	dir := spec.WorkDir
	if dir != "" {
		fi, err := os.Stat(dir)
		if err != nil {
			return nil, fail(OpWorkDir, err)
		}
		if !fi.IsDir() {
			return nil, fail(OpWorkDir, fmt.Errorf("%s is not a directory", dir))
		}
	} else if wd, err := os.Getwd(); err == nil {
		dir = wd
	}

	// The child must not die with ctx; it is detached by contract.
	// #nosec G204
	cmd := exec.Command(path, spec.Args...)
	cmd.Dir = dir
	if len(spec.Env) > 0 {
		cmd.Env = env.WithOS(spec.Env)
	}
	configureSysProcAttr(cmd)

	var out *logger.Output
	if spec.Output != nil {
		out, err = spec.Output.Open()
		if err != nil {
			return nil, fail(OpOutput, err)
		}
		cmd.Stdout = out.Stdout
		cmd.Stderr = out.Stderr
	}

	if err := cmd.Start(); err != nil {
		if out != nil {
			_ = out.Close()
		}
		return nil, fail(OpStart, err)
	}

	h := newHandle()
	h.PID = cmd.Process.Pid
	h.RunID = uuid.NewString()
	h.Command = spec.Command
	h.Args = append([]string(nil), spec.Args...)
	h.WorkDir = dir
	h.StartedAt = time.Now()
	h.StartUnix = detector.ProcStartUnix(h.PID)
	if spec.Output != nil {
		h.OutputPath = spec.Output.Path
		if spec.Output.Direct() {
			// The child has its own descriptor now.
			_ = out.Close()
			out = nil
		}
	}

	go c.reap(cmd, h, out)
	return h, nil
}

func (c *Controller) reap(cmd *exec.Cmd, h *Handle, out *logger.Output) {
	err := cmd.Wait()
	if out != nil {
		if cerr := out.Close(); cerr != nil {
			c.log.Debug("close output", "pid", h.PID, "error", cerr)
		}
	}
	c.log.Debug("process reaped", "pid", h.PID, "run_id", h.RunID, "exit", err)
	h.finish(err)
}
