package builder

import (
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// defaultWorkerCount mirrors the host-aware sizing the teacher's memory
// monitor applies to upload concurrency (internal/utils/memory), adapted
// here to pick a worker count instead of a chunk size: logical CPU count,
// capped downward when available memory is tight, since each worker holds
// at least one full-resolution decode buffer in flight.
func defaultWorkerCount() int {
	n := runtime.NumCPU()
	if counted, err := cpu.Counts(true); err == nil && counted > 0 {
		n = counted
	}
	if n > 16 {
		n = 16
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		return n
	}
	availableMB := int64(vm.Available) / 1024 / 1024
	switch {
	case availableMB < 512:
		return 1
	case availableMB < 1024:
		if n > 2 {
			return 2
		}
	case availableMB < 2048:
		if n > 4 {
			return 4
		}
	}
	return n
}
