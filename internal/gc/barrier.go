package gc

// markGray compare-and-swaps an object's color White->Gray; on success it
// pushes the object onto the gray queue. On failure (already Gray or
// Black) it is a no-op. This CAS is the single linearization point for
// tri-color marking (spec §4.3).
func markGray(obj *ObjectHead) {
	if obj == nil {
		return
	}
	if obj.casColor(White, Gray) {
		grayChan().push(obj)
	}
}

// MarkGray is markGray exported for per-type tracers (MarkFn
// implementations, supplied by the code generator per spec §3/§9): a
// tracer calls MarkGray on every managed reference field it enumerates.
func MarkGray(obj *ObjectHead) {
	markGray(obj)
}

// WriteBarrier00 implements gc.writeBarrier_00: *slot may be null, new may
// be null.
func WriteBarrier00(slot Slot, new *ObjectHead) {
	if flags().isBarrierEnabled() {
		if old := *slot; old != nil {
			markGray(old) // Yuasa: shade the overwritten referent.
		}
		if new != nil {
			markGray(new) // Dijkstra: shade the new referent.
		}
	}
	*slot = new
}

// WriteBarrier01 implements gc.writeBarrier_01: *slot may be null, new is
// non-null.
func WriteBarrier01(slot Slot, new *ObjectHead) {
	if flags().isBarrierEnabled() {
		if old := *slot; old != nil {
			markGray(old)
		}
		markGray(new)
	}
	*slot = new
}

// WriteBarrier10 implements gc.writeBarrier_10: *slot is non-null, new may
// be null.
func WriteBarrier10(slot Slot, new *ObjectHead) {
	if flags().isBarrierEnabled() {
		markGray(*slot)
		if new != nil {
			markGray(new)
		}
	}
	*slot = new
}

// WriteBarrier11 implements gc.writeBarrier_11: *slot is non-null, new is
// non-null.
func WriteBarrier11(slot Slot, new *ObjectHead) {
	if flags().isBarrierEnabled() {
		markGray(*slot)
		markGray(new)
	}
	*slot = new
}
