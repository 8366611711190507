package gc

import (
	"sync"
	"sync/atomic"
)

// grayQueue is the unbounded, multi-producer multi-consumer queue of
// objects shaded Gray but not yet traced (spec §3). Producers are mutators
// (via write barriers) and mark workers (via tracer callbacks); consumers
// are mark workers during the concurrent and final mark phases. The queue
// is drained to empty, not reset, between cycles.
//
// API shape is grounded on the teacher's own internal/runtime/channels
// Channel[T] (Send/TryRecv/Close/Len), but the backing storage is a
// growable slice guarded by a plain mutex instead of a fixed-capacity
// native Go channel, because a native channel cannot be unbounded without
// guessing a capacity up front — and the number of objects shaded gray in
// one cycle is unbounded by spec.
type grayQueue struct {
	mu   sync.Mutex
	data []*ObjectHead

	// inFlight counts mark workers currently tracing an object popped
	// from this queue but not yet finished with it. Workers only exit
	// the drain loop when the queue is empty *and* inFlight is zero
	// (spec §4.5 step 3, §9 "Gray queue" design note).
	inFlight atomic.Int64
}

func newGrayQueue() *grayQueue {
	return &grayQueue{}
}

// push enqueues obj. Never blocks.
func (q *grayQueue) push(obj *ObjectHead) {
	q.mu.Lock()
	q.data = append(q.data, obj)
	q.mu.Unlock()
}

// tryPop attempts to dequeue without blocking.
func (q *grayQueue) tryPop() (*ObjectHead, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.data) == 0 {
		return nil, false
	}

	obj := q.data[0]
	q.data = q.data[1:]

	return obj, true
}

// len reports the number of objects currently queued.
func (q *grayQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.data)
}

// beginTrace records that a worker is about to run a tracer over a popped
// object.
func (q *grayQueue) beginTrace() {
	q.inFlight.Add(1)
}

// endTrace records that a worker has finished tracing.
func (q *grayQueue) endTrace() {
	q.inFlight.Add(-1)
}

// drained reports whether the queue is empty and no worker is mid-trace:
// the termination condition for a mark worker pool (spec §4.5 step 3).
func (q *grayQueue) drained() bool {
	return q.len() == 0 && q.inFlight.Load() == 0
}
