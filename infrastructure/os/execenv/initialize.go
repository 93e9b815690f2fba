package execenv

import (
	"runtime"
	"runtime/debug"
)

// Initialize initializes the execution environment required to run tangled
func Initialize(gcPercent int) {
	// Use all processor cores.
	runtime.GOMAXPROCS(runtime.NumCPU())

	// Confirmation and pruning allocate in bursts
	if gcPercent > 0 {
		debug.SetGCPercent(gcPercent)
	}
}
