package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/loykin/procguard"
	"github.com/spf13/cobra"
)

// createSpawnCommand creates the spawn subcommand
func createSpawnCommand(a *app, f *SpawnFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spawn [flags] -- COMMAND [ARGS...]",
		Short: "Start a detached process and print its PID",
		Long: `Start COMMAND detached from this terminal and print its PID.
The process keeps running, and keeps writing to --output, after procguard exits.

Examples:
  procguard spawn -- sleep 60
  procguard spawn --dir=/srv/app --output=/var/log/app.out --env=PORT=8080 -- ./app`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := spawnSpec(*f, args)
			if err != nil {
				return err
			}
			h, err := a.ctl.Spawn(cmd.Context(), spec)
			if err != nil {
				return err
			}
			if f.JSON {
				return printJSON(a.out, h)
			}
			_, err = fmt.Fprintln(a.out, h.PID)
			return err
		},
	}
	cmd.Flags().SetInterspersed(false)
	addSpawnFlags(cmd, f)
	return cmd
}

// createRunningCommand creates the running subcommand
func createRunningCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "running PID",
		Short: "Exit 0 if PID is alive, 1 otherwise",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := pidArg(args[0])
			if err != nil {
				return err
			}
			if !a.ctl.IsRunning(pid) {
				_, _ = fmt.Fprintln(a.out, "not running")
				return errQuiet
			}
			_, err = fmt.Fprintln(a.out, "running")
			return err
		},
	}
}

// createFindCommand creates the find subcommand
func createFindCommand(a *app, f *FindFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "find PATTERN",
		Short: "Print PIDs of processes whose name matches PATTERN",
		Long: `Print the PID of every process whose name, or full command line with --full,
matches the regular expression PATTERN. A PATTERN that is not a valid
expression is matched literally. Exits 1 when nothing matches.

Examples:
  procguard find nginx
  procguard find --full 'python .*worker.py'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pids := a.ctl.FindByPattern(cmd.Context(), args[0], f.Full)
			if len(pids) == 0 {
				return errQuiet
			}
			for _, pid := range pids {
				if _, err := fmt.Fprintln(a.out, pid); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&f.Full, "full", false, "match the full command line instead of the name")
	return cmd
}

// createStopCommand creates the stop subcommand
func createStopCommand(a *app, f *StopFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stop PID",
		Short: "Stop a process, escalating to a forced kill",
		Long: `Ask PID to exit, wait up to --timeout, then kill it. Prints the outcome:
already-stopped, stopped-gracefully, stopped-forcibly or failed.
Exits 1 only when the process survived.

Examples:
  procguard stop 4242
  procguard stop --timeout=30s --poll=500ms 4242
  procguard stop --force 4242`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := pidArg(args[0])
			if err != nil {
				return err
			}
			outcome := a.ctl.Terminate(cmd.Context(), pid, a.policy(cmd, f.PolicyFlags))
			_, _ = fmt.Fprintln(a.out, outcome)
			if outcome == procguard.Failed {
				return errQuiet
			}
			return nil
		},
	}
	addPolicyFlags(cmd, &f.PolicyFlags)
	return cmd
}

// createStopAllCommand creates the stopall subcommand
func createStopAllCommand(a *app, f *StopAllFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stopall PATTERN",
		Short: "Stop every process matching PATTERN and print how many stopped",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := a.policy(cmd, f.PolicyFlags)
			var n int
			if f.Full {
				n = a.ctl.TerminateAllMatchingFull(cmd.Context(), args[0], p)
			} else {
				n = a.ctl.TerminateAllMatching(cmd.Context(), args[0], p)
			}
			_, err := fmt.Fprintln(a.out, n)
			return err
		},
	}
	addPolicyFlags(cmd, &f.PolicyFlags)
	cmd.Flags().BoolVar(&f.Full, "full", false, "match the full command line instead of the name")
	return cmd
}

// createWaitCommand creates the wait subcommand
func createWaitCommand(a *app, f *WaitFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wait PID",
		Short: "Block until PID exits; exit 1 on timeout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := pidArg(args[0])
			if err != nil {
				return err
			}
			if !a.ctl.WaitForExit(cmd.Context(), pid, f.Timeout) {
				return fail("pid %d still running", pid)
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&f.Timeout, "timeout", 0, "give up after this long (0 waits forever)")
	return cmd
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
