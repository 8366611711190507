package gc

import (
	"testing"
	"time"
)

func TestSafepointFastPathWhenWorldRunning(t *testing.T) {
	f := flags()
	f.setWorldStopped(false)

	done := make(chan struct{})
	go func() {
		Safepoint()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Safepoint blocked while world was running")
	}
}

func TestSafepointParksUntilWorldResumes(t *testing.T) {
	f := flags()
	f.registeredCount.Add(1)
	defer f.registeredCount.Add(-1)

	f.setWorldStopped(true)
	defer f.setWorldStopped(false)

	parked := make(chan struct{})
	resumed := make(chan struct{})
	go func() {
		close(parked)
		Safepoint()
		close(resumed)
	}()

	<-parked
	time.Sleep(5 * suspensionPollInterval)

	select {
	case <-resumed:
		t.Fatal("Safepoint returned before world resumed")
	default:
	}

	if f.suspendedCount.Load() == 0 {
		t.Fatal("suspendedCount was not incremented while parked")
	}

	f.setWorldStopped(false)

	select {
	case <-resumed:
	case <-time.After(time.Second):
		t.Fatal("Safepoint did not return after world resumed")
	}
}

func TestSaferegionNeverBlocksEntry(t *testing.T) {
	f := flags()
	f.setWorldStopped(true)
	defer f.setWorldStopped(false)

	done := make(chan struct{})
	go func() {
		EnterSaferegion()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("EnterSaferegion blocked despite world being stopped")
	}

	f.suspendedCount.Add(-1) // undo EnterSaferegion's increment for the next test.
}

func TestWaitForSuspensionConverges(t *testing.T) {
	f := flags()
	f.registeredCount.Add(2)
	defer f.registeredCount.Add(-2)

	f.suspendedCount.Add(1)
	defer f.suspendedCount.Add(-1)

	converged := make(chan struct{})
	go func() {
		waitForSuspension()
		close(converged)
	}()

	time.Sleep(5 * suspensionPollInterval)
	select {
	case <-converged:
		t.Fatal("waitForSuspension returned before all registered mutators were suspended")
	default:
	}

	f.suspendedCount.Add(1)
	select {
	case <-converged:
	case <-time.After(time.Second):
		t.Fatal("waitForSuspension did not converge once counts matched")
	}
	f.suspendedCount.Add(-1)
}
