package gc

import "sync"

// slabShardSize is the number of slots per inner shard. Growing the slab
// appends a new shard rather than reallocating existing ones, so slot
// addresses (for types stored by value) and the shards backing them are
// stable for the life of the slab.
const slabShardSize = 1024

// slab is a concurrent, append-with-index container: insert returns a
// fresh index, remove clears a slot by index, and snapshot yields every
// currently-occupied slot once to a single reader. It is the generic
// engine behind both the heap slab (index -> *ObjectHead) and the
// thread-root set (root_index -> *threadRoot).
//
// Grounded on the growable-slice-of-shards, RWMutex-guarded Store in the
// fmstephe-memorymanager offheap/pointerstore reference implementation.
// insert and remove always take the write lock; get, len and the
// snapshots take the read lock.
type slab[T any] struct {
	mu     sync.RWMutex
	shards [][]T
	used   [][]bool
	free   []uint64 // recycled indices, LIFO
	next   uint64   // next never-used index if free is empty
}

func newSlab[T any]() *slab[T] {
	return &slab[T]{}
}

// insert adds v and returns its fresh index.
func (s *slab[T]) insert(v T) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var idx uint64
	if n := len(s.free); n > 0 {
		idx = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		idx = s.next
		s.next++
	}

	shardIdx := idx / slabShardSize
	offset := idx % slabShardSize

	for uint64(len(s.shards)) <= shardIdx {
		s.shards = append(s.shards, make([]T, slabShardSize))
		s.used = append(s.used, make([]bool, slabShardSize))
	}

	s.shards[shardIdx][offset] = v
	s.used[shardIdx][offset] = true

	return idx
}

// remove clears the slot at idx, making it eligible for reuse. It is a
// no-op if idx is out of range or already empty.
func (s *slab[T]) remove(idx uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	shardIdx := idx / slabShardSize
	offset := idx % slabShardSize

	if shardIdx >= uint64(len(s.shards)) || !s.used[shardIdx][offset] {
		return
	}

	var zero T
	s.shards[shardIdx][offset] = zero
	s.used[shardIdx][offset] = false
	s.free = append(s.free, idx)
}

// get returns the value at idx and whether the slot is occupied.
func (s *slab[T]) get(idx uint64) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var zero T
	shardIdx := idx / slabShardSize
	offset := idx % slabShardSize

	if shardIdx >= uint64(len(s.shards)) || !s.used[shardIdx][offset] {
		return zero, false
	}

	return s.shards[shardIdx][offset], true
}

// len reports the number of occupied slots.
func (s *slab[T]) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, used := range s.used {
		for _, u := range used {
			if u {
				n++
			}
		}
	}

	return n
}

// snapshot returns every currently-occupied value. Intended to be called
// only when the slab is quiescent for inserts (spec §5: after STW-Final for
// the heap slab, during STW-Scan for the thread-root set), so it takes the
// read lock rather than requiring true external quiescence.
func (s *slab[T]) snapshot() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]T, 0, s.lenLocked())
	for shardIdx, used := range s.used {
		for offset, u := range used {
			if u {
				out = append(out, s.shards[shardIdx][offset])
			}
		}
	}

	return out
}

// indexed pairs a slab slot's index with its value, for callers (sweep)
// that must later call remove(idx) on survivors/victims.
type indexed[T any] struct {
	idx uint64
	val T
}

// snapshotIndexed is snapshot but retains each value's slab index.
func (s *slab[T]) snapshotIndexed() []indexed[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]indexed[T], 0, s.lenLocked())
	for shardIdx, used := range s.used {
		for offset, u := range used {
			if u {
				idx := uint64(shardIdx)*slabShardSize + uint64(offset)
				out = append(out, indexed[T]{idx: idx, val: s.shards[shardIdx][offset]})
			}
		}
	}

	return out
}

func (s *slab[T]) lenLocked() int {
	n := 0
	for _, used := range s.used {
		for _, u := range used {
			if u {
				n++
			}
		}
	}
	return n
}
