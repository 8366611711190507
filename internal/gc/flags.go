package gc

import "sync/atomic"

// processFlags holds the process-wide single-writer/many-reader state
// described in spec §3: worldStopped (collector is the sole writer) and
// barrierEnabled (written only while the world is stopped). Both are read
// with Relaxed semantics on mutator fast paths; correctness follows from
// the phase discipline in collector.go, not from the memory ordering of
// these loads (spec §5).
type processFlags struct {
	worldStopped    atomic.Bool
	barrierEnabled  atomic.Bool
	registeredCount atomic.Int64
	suspendedCount  atomic.Int64
}

func (f *processFlags) isWorldStopped() bool {
	return f.worldStopped.Load()
}

func (f *processFlags) setWorldStopped(b bool) {
	f.worldStopped.Store(b)
}

func (f *processFlags) isBarrierEnabled() bool {
	return f.barrierEnabled.Load()
}

func (f *processFlags) setBarrierEnabled(b bool) {
	f.barrierEnabled.Store(b)
}
