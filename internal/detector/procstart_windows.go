//go:build windows

package detector

import gopsproc "github.com/shirou/gopsutil/v4/process"

// ProcStartUnix returns the process creation time as Unix seconds, or 0 on error.
func ProcStartUnix(pid int) int64 {
	if pid <= 0 {
		return 0
	}
	p, err := gopsproc.NewProcess(int32(pid))
	if err != nil {
		return 0
	}
	ms, err := p.CreateTime()
	if err != nil || ms <= 0 {
		return 0
	}
	return ms / 1000
}
