package gc

// heapSlab owns every live object. The allocator inserts; remove is called
// by the collector during sweep and by Deallocate.
type heapSlab struct {
	s slab[*ObjectHead]
}

func newHeapSlab() *heapSlab {
	return &heapSlab{}
}

func (h *heapSlab) insert(obj *ObjectHead) uint64 {
	return h.s.insert(obj)
}

func (h *heapSlab) remove(idx uint64) {
	h.s.remove(idx)
}

// len reports the number of live objects. Used by tests and diagnostics.
func (h *heapSlab) len() int {
	return h.s.len()
}

// snapshot returns every live object together with its slab index, for the
// STW-Final phase (spec §4.5 step 4: "Snapshots the heap slab into
// heap_objects").
func (h *heapSlab) snapshot() []indexed[*ObjectHead] {
	return h.s.snapshotIndexed()
}
