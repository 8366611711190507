package gc

import (
	"testing"
	"time"
)

// withCollector starts a fresh Collector for the duration of fn and stops
// it afterward, restoring whatever collector (if any) was active before.
func withCollector(t *testing.T, opts []Option, fn func(c *Collector)) {
	t.Helper()

	prev := activeCollector()

	c := NewCollector(opts...)
	c.Start()
	defer func() {
		c.Stop()
		activeMu.Lock()
		collector = prev
		activeMu.Unlock()
	}()

	fn(c)
}

// TestCollectorFreesUnreachableCycle is spec §8 scenario 1: a two-node
// cycle with no root reaches it is freed by a single collection.
func TestCollectorFreesUnreachableCycle(t *testing.T) {
	ThreadPrologue()
	defer ThreadEpilogue()

	withCollector(t, []Option{WithWorkers(2)}, func(c *Collector) {
		before := c.HeapObjects()

		a := Allocate(8, 8)
		b := Allocate(8, 8)

		aSlot := (**ObjectHead)(a.Payload())
		bSlot := (**ObjectHead)(b.Payload())
		WriteBarrier00(aSlot, b)
		WriteBarrier00(bSlot, a)

		if got := c.HeapObjects(); got != before+2 {
			t.Fatalf("HeapObjects() = %d, want %d before collection", got, before+2)
		}

		EnterSaferegion()
		c.Collect()
		ExitSaferegion()

		if got := c.HeapObjects(); got != before {
			t.Fatalf("HeapObjects() after Collect() = %d, want %d (cycle freed)", got, before)
		}
	})
}

// TestCollectorKeepsRootedObjectAlive is spec §8 scenario 2: an object
// reachable through a thread-local root survives a collection, and a
// safe-region-held reference does too (the "hidden root" case), since the
// mutator is simply treated as suspended rather than having its roots
// dropped.
func TestCollectorKeepsRootedObjectAlive(t *testing.T) {
	ThreadPrologue()
	defer ThreadEpilogue()

	withCollector(t, []Option{WithWorkers(2)}, func(c *Collector) {
		before := c.HeapObjects()

		obj := Allocate(8, 8)
		var slotVar *ObjectHead = obj
		PushLocal(&slotVar)
		defer PopLocal()

		EnterSaferegion()
		c.Collect()
		ExitSaferegion()

		if got := c.HeapObjects(); got != before+1 {
			t.Fatalf("HeapObjects() after Collect() = %d, want %d (rooted object survives)", got, before+1)
		}
	})
}

// TestCollectorYuasaBranchKeepsOverwrittenReferentAlive is spec §8 scenario
// 3: a mutator overwrites the only root-reachable slot pointing at an
// object mid-cycle; the Yuasa half of the barrier must shade the
// overwritten referent Gray, which is what lets it survive the cycle it was
// dropped in. The test checks that shade directly and runs no collection.
func TestCollectorYuasaBranchKeepsOverwrittenReferentAlive(t *testing.T) {
	ThreadPrologue()
	defer ThreadEpilogue()

	// Allocated before the barrier is enabled, so both start White and any
	// Gray seen below comes from the barrier, not from being born Gray.
	dropped := Allocate(8, 8)
	replacement := Allocate(8, 8)

	f := flags()
	f.setBarrierEnabled(true)
	defer f.setBarrierEnabled(false)

	var slotVar *ObjectHead = dropped
	WriteBarrier11(&slotVar, replacement)

	if dropped.loadColor() != Gray {
		t.Fatalf("dropped referent color = %v, want Gray (Yuasa shade)", dropped.loadColor())
	}

	// The barrier queued both objects; take them back off the gray queue
	// before freeing them so no later cycle traces freed memory.
	grayChan().tryPop()
	grayChan().tryPop()

	Deallocate(dropped)
	Deallocate(replacement)
}

// TestCollectorDijkstraBranchEnqueuesBornGrayObject is spec §8 scenario 4:
// an object allocated while marking is in progress is shaded Gray and
// queued at birth, so it is traced in the same cycle it was born into.
func TestCollectorDijkstraBranchEnqueuesBornGrayObject(t *testing.T) {
	f := flags()
	f.setBarrierEnabled(true)
	defer f.setBarrierEnabled(false)

	before := grayChan().len()

	n := Allocate(8, 8)
	defer Deallocate(n)

	if n.loadColor() != Gray {
		t.Fatalf("color = %v, want Gray", n.loadColor())
	}
	if got := grayChan().len(); got != before+1 {
		t.Fatalf("gray queue len = %d, want %d (N enqueued at birth)", got, before+1)
	}

	obj, ok := grayChan().tryPop()
	if !ok || obj != n {
		t.Fatalf("tryPop() = (%p, %v), want (%p, true)", obj, ok, n)
	}
}

// TestCollectorSurvivesThreadBornDuringMark is spec §8 scenario 5: a
// goroutine started alongside a collection, so that its ThreadPrologue may
// land while the cycle is in flight, must not cause live objects to be
// freed; its roots are picked up normally because ThreadPrologue registers
// into the live thread-root set immediately.
func TestCollectorSurvivesThreadBornDuringMark(t *testing.T) {
	ThreadPrologue()
	defer ThreadEpilogue()

	withCollector(t, []Option{WithWorkers(2)}, func(c *Collector) {
		before := c.HeapObjects()

		done := make(chan struct{})
		go func() {
			defer close(done)
			ThreadPrologue()
			defer ThreadEpilogue()

			obj := Allocate(8, 8)
			var slotVar *ObjectHead = obj
			PushLocal(&slotVar)
			defer PopLocal()

			time.Sleep(2 * suspensionPollInterval)
		}()

		EnterSaferegion()
		c.Collect()
		ExitSaferegion()
		<-done

		if got := c.HeapObjects(); got < before {
			t.Fatalf("HeapObjects() = %d, want >= %d (no object wrongly freed)", got, before)
		}
	})
}

func TestCollectorStatsAccumulate(t *testing.T) {
	ThreadPrologue()
	defer ThreadEpilogue()

	withCollector(t, nil, func(c *Collector) {
		before := c.Stats().Cycles

		EnterSaferegion()
		c.Collect()
		c.Collect()
		ExitSaferegion()

		after := c.Stats().Cycles
		if after < before+2 {
			t.Fatalf("Cycles = %d, want >= %d after two Collect() calls", after, before+2)
		}
	})
}
