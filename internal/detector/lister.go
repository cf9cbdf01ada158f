package detector

import (
	"context"
	"fmt"

	gopsproc "github.com/shirou/gopsutil/v4/process"
)

// ProcessInfo is one row of a process table snapshot.
type ProcessInfo struct {
	PID     int
	Name    string
	Cmdline string
}

// Lister takes a one-shot snapshot of the process table.
type Lister interface {
	List(ctx context.Context) ([]ProcessInfo, error)
}

// TableLister lists processes through gopsutil.
// Rows whose name cannot be read (exited mid-scan, access denied) are skipped.
type TableLister struct{}

func (TableLister) List(ctx context.Context) ([]ProcessInfo, error) {
	procs, err := gopsproc.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}
	out := make([]ProcessInfo, 0, len(procs))
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}
		// Kernel threads and protected processes have no readable command line.
		cmdline, _ := p.CmdlineWithContext(ctx)
		if cmdline == "" {
			cmdline = name
		}
		out = append(out, ProcessInfo{PID: int(p.Pid), Name: name, Cmdline: cmdline})
	}
	return out, nil
}
