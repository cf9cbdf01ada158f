package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/loykin/procguard"
	"github.com/spf13/cobra"
)

// createLockCommand creates the lock command group
func createLockCommand(a *app, f *LockFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lock",
		Short: "Manage PID lock files",
		Long: `Take, inspect and drop PID lock files from shell scripts.

A lock is held while the PID written into it is alive. By default the lock is
stamped with the PID of the shell that runs procguard, so it is released
implicitly when that script exits.

Examples:
  procguard lock acquire /run/backup.lock || exit 0
  procguard lock status /run/backup.lock
  procguard lock release /run/backup.lock`,
	}
	cmd.AddCommand(
		createLockAcquireCommand(a, f),
		createLockStatusCommand(a),
		createLockReleaseCommand(a),
	)
	return cmd
}

func createLockAcquireCommand(a *app, f *LockFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "acquire PATH",
		Short: "Take the lock; exit 1 if a live process holds it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l := procguard.Locker{PID: f.PID, Exclusive: a.cfg.Lock.Exclusive, Logger: a.log}
			if cmd.Flags().Changed("exclusive") {
				l.Exclusive = f.Exclusive
			}
			err := l.Acquire(args[0])
			if errors.Is(err, procguard.ErrLockContention) {
				return fail("%v", err)
			}
			return err
		},
	}
	cmd.Flags().IntVar(&f.PID, "pid", defaultLockPID(), "PID to record as holder (default the parent shell)")
	cmd.Flags().BoolVar(&f.Exclusive, "exclusive", false, "create the lock with O_EXCL so concurrent acquirers cannot both win")
	return cmd
}

func createLockStatusCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status PATH",
		Short: "Print the holder PID; exit 1 if the lock is free or stale",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l := procguard.Locker{Logger: a.log}
			pid, alive, err := l.Holder(args[0])
			switch {
			case errors.Is(err, fs.ErrNotExist):
				_, _ = fmt.Fprintln(a.out, "free")
				return errQuiet
			case err != nil:
				return err
			case !alive:
				_, _ = fmt.Fprintf(a.out, "stale %d\n", pid)
				return errQuiet
			}
			_, err = fmt.Fprintf(a.out, "held %d\n", pid)
			return err
		},
	}
}

func createLockReleaseCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "release PATH",
		Short: "Remove the lock file",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			procguard.Locker{Logger: a.log}.Release(args[0])
		},
	}
}
