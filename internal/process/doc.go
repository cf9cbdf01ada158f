// Package process spawns, finds and terminates OS processes.
//
// A Controller is stateless apart from its collaborators: liveness is always
// queried from the OS, never cached. Waits are sleep-then-repoll loops driven
// by a Clock, so tests can run the termination state machine without real
// time passing.
//
//	c := process.NewController()
//	h, err := c.Spawn(ctx, process.SpawnSpec{Command: "sleep", Args: []string{"60"}})
//	if err != nil {
//	    return err
//	}
//	switch c.Terminate(ctx, h.PID, process.TerminationPolicy{Timeout: 2 * time.Second}) {
//	case process.StoppedGracefully, process.StoppedForcibly:
//	}
package process
