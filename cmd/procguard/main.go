package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := buildRoot(os.Stdout, os.Stderr)
	if err := root.Execute(); err != nil {
		os.Exit(exitCode(err, os.Stderr))
	}
}

// exitError ends the command with a status code. An empty msg exits quietly.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string {
	if e.msg == "" {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.msg
}

func fail(format string, args ...any) error {
	return &exitError{code: 1, msg: fmt.Sprintf(format, args...)}
}

var errQuiet = &exitError{code: 1}

// exitCode prints err unless it is a quiet exitError and returns the status.
func exitCode(err error, w io.Writer) int {
	var ee *exitError
	if errors.As(err, &ee) {
		if ee.msg != "" {
			_, _ = fmt.Fprintln(w, ee.msg)
		}
		return ee.code
	}
	_, _ = fmt.Fprintln(w, err)
	return 1
}

// buildRoot creates the root command and all subcommands writing to out.
func buildRoot(out, errOut io.Writer) *cobra.Command {
	globalFlags := &GlobalFlags{}
	a := &app{flags: globalFlags, out: out}

	root := createRootCommand(a, globalFlags)
	root.SetOut(out)
	root.SetErr(errOut)
	root.AddCommand(
		createSpawnCommand(a, &SpawnFlags{}),
		createRunningCommand(a),
		createFindCommand(a, &FindFlags{}),
		createStopCommand(a, &StopFlags{}),
		createStopAllCommand(a, &StopAllFlags{}),
		createWaitCommand(a, &WaitFlags{}),
		createLockCommand(a, &LockFlags{}),
		createRunCommand(a, &RunFlags{}),
	)
	return root
}

// createRootCommand creates the root command with persistent flags
func createRootCommand(a *app, flags *GlobalFlags) *cobra.Command {
	root := &cobra.Command{
		Use:   "procguard",
		Short: "Spawn, find, stop and lock processes on this host",
		Long: `Procguard spawns detached processes, finds them by name or command line,
stops them gracefully with escalation to a forced kill, and guards
single-instance execution with PID lock files.

Examples:
  procguard spawn --output=/var/log/app.out -- ./app --port 8080
  procguard find --full 'app --port 8080'
  procguard stop --timeout=10s 4242
  procguard run --lock=/run/app.lock -- ./app`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	root.PersistentFlags().StringVar(&flags.ConfigPath, "config", "", "path to config file, TOML/YAML/JSON (optional)")
	root.PersistentFlags().StringVar(&flags.LogLevel, "log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&flags.LogFormat, "log-format", "", "log format: text, json, color, auto")

	return root
}
