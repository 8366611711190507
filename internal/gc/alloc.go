package gc

import "unsafe"

// Allocate implements gc.allocate: acquires raw memory for
// [ObjectHead | padding | payload], installs the header with
// Color = barrierEnabled ? Gray : White (spec §4.6: objects born while
// marking is in progress survive the current cycle), and inserts the
// object into the heap slab. MarkFn is left nil; the compiler-emitted
// prologue is responsible for installing it and for filling the payload
// before the object can be safely traced.
//
// align must be a positive power of two (ErrInvalidAlignment otherwise).
// Failure to acquire memory or to insert into the heap slab is fatal
// (ErrAllocationFailure), matching spec §7's "the runtime treats this as
// fatal".
func Allocate(size, align uintptr) *ObjectHead {
	if !isPowerOfTwo(align) {
		Fatal(ErrInvalidAlignment(align))
	}

	effectiveAlign := align
	if effectiveAlign < headerAlign {
		effectiveAlign = headerAlign
	}

	offset := offsetOfPayload(effectiveAlign)
	total := offset + size

	raw, err := rawAlloc(total)
	if err != nil {
		Fatal(ErrAllocationFailure(size, align, err))
	}

	h := (*ObjectHead)(raw)
	h.Align = effectiveAlign
	h.ObjectSize = size
	h.Index = SENTINEL
	h.RootIndex = SENTINEL
	h.MarkFn = nil

	bornGray := flags().isBarrierEnabled()
	if bornGray {
		h.storeColor(Gray)
	} else {
		h.storeColor(White)
	}

	idx := heap().insert(h)
	h.Index = idx

	if bornGray {
		// Resolves spec §9's "born-Gray enqueue" open question: the
		// object is queued for tracing immediately, the same cycle it
		// is born into (spec §8 scenario 4, "N was enqueued at
		// birth"). MarkFn and the payload are not installed yet at
		// this instant; a mark worker that pops this object before
		// the compiler-emitted prologue finishes installing MarkFn
		// simply sees it as a leaf (MarkFn == nil) and traces nothing
		// further, which is safe because the payload cannot yet hold
		// any managed reference the collector needs to discover.
		grayChan().push(h)
	}

	recordAllocation(total)

	return h
}

// Deallocate frees an object's backing memory directly, bypassing the
// sweep phase. It removes h from the heap slab first, so a subsequent
// collection cycle can never snapshot a dangling index. Provided for
// integration/tests per spec §4.6; production code should let sweep
// reclaim unreachable objects.
func Deallocate(h *ObjectHead) {
	if h.Index != SENTINEL {
		heap().remove(h.Index)
	}

	total := offsetOfPayload(h.Align) + h.ObjectSize
	_ = rawFree(unsafe.Pointer(h), total)
}
