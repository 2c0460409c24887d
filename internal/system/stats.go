package system

import (
	"fmt"
	"os"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// Snapshot is the memory picture included in performance reports.
type Snapshot struct {
	ProcessRSS      uint64
	SystemAvailable uint64
	SystemUsedPct   float64
}

// TakeSnapshot reads the current process RSS and system memory usage.
func TakeSnapshot() (Snapshot, error) {
	var s Snapshot

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return s, fmt.Errorf("process handle: %w", err)
	}
	info, err := p.MemoryInfo()
	if err != nil {
		return s, fmt.Errorf("process memory: %w", err)
	}
	s.ProcessRSS = info.RSS

	vm, err := mem.VirtualMemory()
	if err != nil {
		return s, fmt.Errorf("system memory: %w", err)
	}
	s.SystemAvailable = vm.Available
	s.SystemUsedPct = vm.UsedPercent

	return s, nil
}

func (s Snapshot) String() string {
	return fmt.Sprintf("RSS %.1f MiB | system used %.1f%% | available %.1f MiB",
		mib(s.ProcessRSS), s.SystemUsedPct, mib(s.SystemAvailable))
}

func mib(b uint64) float64 {
	return float64(b) / (1 << 20)
}
