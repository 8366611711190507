package gc

import (
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// GCStats reports cumulative collector activity, exposed over
// StartDebugHTTP (see debug.go) and by Collector.Stats.
type GCStats struct {
	Cycles        uint64
	ObjectsMarked uint64
	ObjectsFreed  uint64
	LastPauseNs   int64
}

// Collector drives the stop-the-world root snapshot / concurrent mark /
// stop-the-world final mark / concurrent sweep phase machine described in
// spec §4.5, as a single dedicated goroutine. Grounded directly on the
// original runtime's gc_thread_start (rt/gc.rs): same phase order, same
// default 4-worker pool (here golang.org/x/sync/errgroup instead of
// rayon::ThreadPool, matching the teacher's own use of errgroup for
// fan-out work in cmd/orizon/main.go and internal/packagemanager).
type Collector struct {
	cfg *Config

	statsMu sync.Mutex
	stats   GCStats

	triggerCh chan struct{}
	stopCh    chan struct{}
	doneCh    chan struct{}
}

var (
	activeMu  sync.Mutex
	collector *Collector
)

func activeCollector() *Collector {
	activeMu.Lock()
	defer activeMu.Unlock()
	return collector
}

// Active returns the process's currently-started collector, or nil if none
// has been started yet. Exposed for diagnostics/embedding callers (e.g.
// StartDebugHTTP callers, the smoke-test CLI) that don't otherwise hold a
// reference to the *Collector returned by NewCollector.
func Active() *Collector {
	return activeCollector()
}

// NewCollector builds a Collector from the given options, without starting
// its goroutine.
func NewCollector(opts ...Option) *Collector {
	cfg := defaultConfig()
	for _, o := range opts {
		o(cfg)
	}

	return &Collector{
		cfg:       cfg,
		triggerCh: make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start registers c as the process's active collector and starts its
// dedicated goroutine. Only one collector should be active at a time.
func (c *Collector) Start() {
	activeMu.Lock()
	collector = c
	activeMu.Unlock()

	go c.loop()
}

// Stop asks the collector goroutine to exit after any in-progress cycle
// completes.
func (c *Collector) Stop() {
	close(c.stopCh)
	<-c.doneCh
}

// Collect triggers a collection and blocks until the cycle it triggered
// (or a concurrently-triggered one) completes. Supplements the watermark
// policy in recordAllocation for tests and manual invocation (spec's
// end-to-end scenarios all "signal GC" and then observe post-cycle state).
//
// A cycle can only stop the world once every registered mutator is
// suspended, so a registered caller must wait inside a safe region
// (EnterSaferegion/ExitSaferegion); otherwise Collect never returns.
func (c *Collector) Collect() {
	c.statsMu.Lock()
	target := c.stats.Cycles + 1
	c.statsMu.Unlock()

	select {
	case c.triggerCh <- struct{}{}:
	default:
	}

	for {
		c.statsMu.Lock()
		done := c.stats.Cycles >= target
		c.statsMu.Unlock()
		if done {
			return
		}
		time.Sleep(suspensionPollInterval)
	}
}

// Stats returns a snapshot of cumulative collector statistics.
func (c *Collector) Stats() GCStats {
	c.statsMu.Lock()
	defer c.statsMu.Unlock()
	return c.stats
}

// HeapObjects returns the number of objects currently tracked in the heap
// slab. Exposed for diagnostics/embedding callers that want a live count
// without standing up StartDebugHTTP.
func (c *Collector) HeapObjects() int {
	return heap().len()
}

func (c *Collector) loop() {
	defer close(c.doneCh)

	for {
		select {
		case <-c.stopCh:
			return
		case <-c.triggerCh:
			c.runCycle()
		case <-allocSignal():
			c.runCycle()
		}
	}
}

// runCycle executes one full Idle->STW-Scan->Concurrent-Mark->STW-Final->
// Concurrent-Sweep pass (spec §4.5).
func (c *Collector) runCycle() {
	start := time.Now()

	rootObjects, bornDuringMark := c.stwScan()
	marked := c.concurrentMark(rootObjects)
	heapObjects, finalMarked := c.stwFinal(bornDuringMark)
	marked += finalMarked
	freed := c.concurrentSweep(heapObjects)

	c.statsMu.Lock()
	c.stats.Cycles++
	c.stats.ObjectsMarked += marked
	c.stats.ObjectsFreed += freed
	c.stats.LastPauseNs = time.Since(start).Nanoseconds()
	c.statsMu.Unlock()
}

// stwScan implements spec §4.5 step 2 (STW-Scan). It returns the snapshot
// of every reachable root object and the goroutine ids announced on
// threadEnablingChan since the previous STW-Scan (goroutines that
// registered while the barrier was enabled, i.e. during an earlier cycle's
// marking). Draining them here keeps the channel from filling up.
func (c *Collector) stwScan() ([]*ObjectHead, []int64) {
	f := flags()

	f.setWorldStopped(true)
	waitForSuspension()
	f.setBarrierEnabled(true) // safe: no mutator is running.

	var rootObjects []*ObjectHead
	for _, tr := range roots().snapshot() {
		rootObjects = append(rootObjects, tr.locals.snapshot()...)
	}

	var bornDuringMark []int64
	for {
		select {
		case gid := <-threadEnablingChan():
			bornDuringMark = append(bornDuringMark, gid)
			continue
		default:
		}
		break
	}

	f.setWorldStopped(false) // mutators parked in Safepoint notice on their next poll.

	return rootObjects, bornDuringMark
}

// concurrentMark implements spec §4.5 step 3: a worker pool shades every
// root gray, then drains the gray queue until it is empty and no worker is
// mid-trace.
func (c *Collector) concurrentMark(rootObjects []*ObjectHead) uint64 {
	var g errgroup.Group

	n := c.cfg.Workers
	if n < 1 {
		n = 1
	}

	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			for j := i; j < len(rootObjects); j += n {
				markGray(rootObjects[j])
			}
			return nil
		})
	}
	_ = g.Wait()

	var marked uint64
	var g2 errgroup.Group
	var mu sync.Mutex

	for i := 0; i < n; i++ {
		g2.Go(func() error {
			local := uint64(0)
			for {
				obj, ok := grayChan().tryPop()
				if !ok {
					if grayChan().drained() {
						break
					}
					time.Sleep(time.Microsecond)
					continue
				}

				grayChan().beginTrace()
				obj.storeColor(Black)
				if obj.MarkFn != nil {
					obj.MarkFn(obj)
				}
				grayChan().endTrace()
				local++
			}

			mu.Lock()
			marked += local
			mu.Unlock()

			return nil
		})
	}
	_ = g2.Wait()

	return marked
}

// stwFinal implements spec §4.5 step 4 (STW-Final): disables the barrier,
// drains any gray objects left over from concurrent marking serially ("the
// queue is small"), snapshots the heap slab, and clears the world-stopped
// flag. Draining must happen before the heap snapshot so every surviving
// object is already Black by the time sweep inspects it. bornDuringMark
// (the ids stwScan drained) needs no wake-up action here, since Go
// mutators self-poll worldStopped rather than being explicitly woken.
func (c *Collector) stwFinal(bornDuringMark []int64) ([]indexed[*ObjectHead], uint64) {
	f := flags()

	f.setWorldStopped(true)
	waitForSuspension()
	f.setBarrierEnabled(false)

	marked := c.drainGraySerially()
	heapObjects := heap().snapshot()

	f.setWorldStopped(false)

	_ = bornDuringMark // unused: no separate wake action needed under polling safepoints.

	return heapObjects, marked
}

// drainGraySerially drains any gray objects remaining after concurrent
// marking (spec §4.5 step 4: "serial is sufficient — the queue is small").
func (c *Collector) drainGraySerially() uint64 {
	var marked uint64
	for {
		obj, ok := grayChan().tryPop()
		if !ok {
			break
		}
		obj.storeColor(Black)
		if obj.MarkFn != nil {
			obj.MarkFn(obj)
		}
		marked++
	}
	return marked
}

// concurrentSweep implements spec §4.5 step 5: for every heap object, a
// finalizer pass over survivors, then the Black->White survival CAS;
// failures (observed White) are removed from the heap slab and freed.
func (c *Collector) concurrentSweep(heapObjects []indexed[*ObjectHead]) uint64 {
	n := c.cfg.Workers
	if n < 1 {
		n = 1
	}

	if c.cfg.OnSweepSurvivor != nil {
		var g errgroup.Group
		for i := 0; i < n; i++ {
			i := i
			g.Go(func() error {
				for j := i; j < len(heapObjects); j += n {
					obj := heapObjects[j].val
					if obj.loadColor() != White {
						c.cfg.OnSweepSurvivor(obj)
					}
				}
				return nil
			})
		}
		_ = g.Wait()
	}

	var freed uint64
	var mu sync.Mutex
	var g errgroup.Group

	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			local := uint64(0)
			for j := i; j < len(heapObjects); j += n {
				entry := heapObjects[j]
				if entry.val.casColor(Black, White) {
					continue // survives
				}
				// observed White: unreachable, free it.
				heap().remove(entry.idx)
				Deallocate(entry.val)
				local++
			}

			mu.Lock()
			freed += local
			mu.Unlock()

			return nil
		})
	}
	_ = g.Wait()

	return freed
}
