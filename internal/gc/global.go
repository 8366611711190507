package gc

import "sync"

// Process-wide singletons, lazily constructed on first use. This mirrors
// the original Rust runtime's heap()/gc_root()/gray_chan()/thread_root_set()
// OnceLock-backed accessors in rt/gc.rs: one heap slab, one thread-root
// set, one gray queue, one flag pair per process.
var (
	heapOnce     sync.Once
	heapInstance *heapSlab

	rootsOnce     sync.Once
	rootsInstance *threadRootSet

	grayOnce     sync.Once
	grayInstance *grayQueue

	flagsOnce     sync.Once
	flagsInstance *processFlags

	enablingOnce sync.Once
	enablingChan chan int64

	registryMu sync.Mutex
	registry   map[int64]*mutator
)

func heap() *heapSlab {
	heapOnce.Do(func() { heapInstance = newHeapSlab() })
	return heapInstance
}

func roots() *threadRootSet {
	rootsOnce.Do(func() { rootsInstance = newThreadRootSet() })
	return rootsInstance
}

func grayChan() *grayQueue {
	grayOnce.Do(func() { grayInstance = newGrayQueue() })
	return grayInstance
}

func flags() *processFlags {
	flagsOnce.Do(func() { flagsInstance = &processFlags{} })
	return flagsInstance
}

// threadEnablingChan announces mutators that registered while the barrier
// was already enabled ("born inside a mark phase"). The collector drains it
// at the start of each STW-Scan (spec §3, §4.7).
func threadEnablingChan() chan int64 {
	enablingOnce.Do(func() { enablingChan = make(chan int64, 256) })
	return enablingChan
}

func init() {
	registry = make(map[int64]*mutator)
}
