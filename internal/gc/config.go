package gc

import (
	"sync"
	"sync/atomic"
)

// Config configures the collector. Grounded on
// internal/allocator/runtime.go's RuntimeOption functional-options pattern
// in the teacher repo.
type Config struct {
	// Workers is the size of the mark and sweep worker pools (spec §4.5:
	// "design default: 4 workers").
	Workers int

	// HeapThreshold is the cumulative bytes-allocated watermark that
	// triggers a collection (spec §9: GC trigger policy, left as an
	// open TODO in the original — this runtime's chosen policy).
	HeapThreshold uintptr

	// OnSweepSurvivor, if non-nil, runs during the sweep phase's
	// finalizer pass (spec §4.5 step 5a) for every object that survives
	// (color != White at the start of sweep). This is the seam spec §9
	// reserves for a future finalizer execution model; it is not itself
	// a finalizer ordering guarantee.
	OnSweepSurvivor func(*ObjectHead)
}

// Option configures a Config.
type Option func(*Config)

// WithWorkers sets the mark/sweep worker pool size.
func WithWorkers(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.Workers = n
		}
	}
}

// WithHeapThreshold sets the bytes-allocated watermark that triggers a
// collection.
func WithHeapThreshold(bytes uintptr) Option {
	return func(c *Config) {
		c.HeapThreshold = bytes
	}
}

// WithSweepSurvivorHook installs the sweep-phase finalizer-pass extension
// point (spec §4.5 step 5a, §9).
func WithSweepSurvivorHook(fn func(*ObjectHead)) Option {
	return func(c *Config) {
		c.OnSweepSurvivor = fn
	}
}

func defaultConfig() *Config {
	return &Config{
		Workers:       4,
		HeapThreshold: 32 * 1024 * 1024, // 32MB default, as in allocator/runtime.go
	}
}

var (
	bytesAllocated  atomic.Uint64
	allocSignalOnce sync.Once
	allocSignalChan chan struct{}
)

func allocSignal() chan struct{} {
	allocSignalOnce.Do(func() { allocSignalChan = make(chan struct{}, 1) })
	return allocSignalChan
}

// recordAllocation adds n to the cumulative-bytes-allocated counter and,
// once the active collector's threshold is crossed, nudges it awake. It is
// a no-op (aside from counting) if no collector has been started yet.
func recordAllocation(n uintptr) {
	total := bytesAllocated.Add(uint64(n))

	c := activeCollector()
	if c == nil {
		return
	}

	if uintptr(total) >= c.cfg.HeapThreshold {
		select {
		case allocSignal() <- struct{}{}:
		default:
		}
	}
}
