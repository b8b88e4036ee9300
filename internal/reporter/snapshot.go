package reporter

import (
	"log"
	"os"

	"github.com/shirou/gopsutil/v3/process"
)

// Snapshot is a point-in-time view of this process's resource usage.
type Snapshot struct {
	CPUPercent float64
	MemoryMB   float64
}

// TakeSnapshot samples the current process. Failures degrade to a zero
// snapshot; resource accounting is best-effort and never blocks a run.
func TakeSnapshot() Snapshot {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		log.Printf("reporter: resource snapshot unavailable: %v", err)
		return Snapshot{}
	}

	var snap Snapshot
	if cpu, err := proc.CPUPercent(); err == nil {
		snap.CPUPercent = cpu
	}
	if mem, err := proc.MemoryInfo(); err == nil {
		snap.MemoryMB = float64(mem.RSS) / 1024 / 1024
	}
	return snap
}
