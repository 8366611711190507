package gc

import "time"

// suspensionPollInterval is how often a parked mutator re-checks
// worldStopped, and how often the collector polls for full suspension
// (spec §4.4: "~100µs").
const suspensionPollInterval = 100 * time.Microsecond

// Safepoint implements gc.safepoint: a yield point a compiler emits at
// every back-edge and call return. The fast path returns immediately when
// the world is not stopped; on a stop request it marks itself suspended
// and parks until the collector clears the flag.
func Safepoint() {
	f := flags()

	if !f.isWorldStopped() {
		return
	}

	f.suspendedCount.Add(1)
	for f.isWorldStopped() {
		time.Sleep(suspensionPollInterval)
	}
	f.suspendedCount.Add(-1)
}

// EnterSaferegion implements gc.enterSaferegion: the caller promises not
// to touch managed references until ExitSaferegion. It never blocks —
// entering a safe region treats the caller as suspended without the
// caller actually parking.
func EnterSaferegion() {
	flags().suspendedCount.Add(1)
}

// ExitSaferegion implements gc.exitSaferegion: blocks until any in-progress
// STW clears, then un-suspends the caller.
func ExitSaferegion() {
	f := flags()

	for f.isWorldStopped() {
		time.Sleep(suspensionPollInterval)
	}

	f.suspendedCount.Add(-1)
}

// waitForSuspension busy-waits until every registered mutator is suspended
// (parked at a safepoint or inside a safe region). Called by the collector
// at the top of STW-Scan and STW-Final (spec §4.5).
func waitForSuspension() {
	f := flags()
	for f.suspendedCount.Load() != f.registeredCount.Load() {
		time.Sleep(suspensionPollInterval)
	}
}
