package gc

import (
	"sync/atomic"
	"unsafe"
)

// SENTINEL marks an index field as unassigned: an object with no slab index
// yet, or a thread registry with no root-set entry yet.
const SENTINEL = ^uint64(0)

// Color is the tri-color marking state of an object.
type Color uint8

const (
	// White objects are candidates for collection.
	White Color = iota
	// Gray objects have been reached but not yet traced.
	Gray
	// Black objects have been reached and fully traced.
	Black
)

func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Gray:
		return "gray"
	case Black:
		return "black"
	default:
		return "unknown"
	}
}

// MarkFunc is the per-type tracer a code generator emits for every managed
// type: given an object's address it calls markGray on every managed
// reference field.
type MarkFunc func(obj *ObjectHead)

// ObjectHead is the fixed-size prefix written ahead of every managed
// object's payload. Once installed, Align, ObjectSize, and MarkFn are
// immutable for the object's lifetime; Color transitions White->Gray->Black
// monotonically within a cycle and Black->White atomically at end of sweep.
type ObjectHead struct {
	// color is accessed with Relaxed atomics; see spec §4.3/§4.5 for why
	// that is sufficient.
	color atomic.Uint32

	// MarkFn traces the object's managed reference fields. Absent (nil)
	// only for leaf (reference-free) types.
	MarkFn MarkFunc

	// Align is the payload's alignment, as chosen by the allocator
	// (always >= alignof(ObjectHead)).
	Align uintptr

	// ObjectSize is the payload size in bytes, excluding header and
	// padding.
	ObjectSize uintptr

	// Index is this object's slot in the heap slab.
	Index uint64

	// RootIndex is this object's slot in the thread-root set, or
	// SENTINEL if the object is not itself root-registered.
	RootIndex uint64
}

// loadColor reads the object's color with Relaxed semantics.
func (h *ObjectHead) loadColor() Color {
	return Color(h.color.Load())
}

// storeColor unconditionally stores the object's color with Relaxed
// semantics. Used for the initial color at allocation and the final
// Gray->Black transition during marking; the sweep-survivor Black->White
// flip goes through casColor instead.
func (h *ObjectHead) storeColor(c Color) {
	h.color.Store(uint32(c))
}

// casColor compare-and-swaps the object's color. This is the single
// linearization point for tri-color marking (see markGray in barrier.go)
// and for the sweep decision (see collector.go).
func (h *ObjectHead) casColor(old, new Color) bool {
	return h.color.CompareAndSwap(uint32(old), uint32(new))
}

// Payload returns the address of the object's payload, i.e. the address a
// compiler-generated accessor would use to read/write fields. Header and
// payload share one allocation (see alloc.go); the offset is recomputed
// from Align rather than stored, since it is a pure function of it.
func (h *ObjectHead) Payload() unsafe.Pointer {
	base := uintptr(unsafe.Pointer(h))
	return unsafe.Pointer(base + offsetOfPayload(h.Align))
}

// headerAlign is the alignment requirement of ObjectHead itself; every
// payload offset must additionally be a multiple of this.
const headerAlign = unsafe.Alignof(ObjectHead{})

// headerSize is sizeof(ObjectHead).
const headerSize = unsafe.Sizeof(ObjectHead{})

// offsetOfPayload returns the smallest offset k such that k >= sizeof(ObjectHead)
// and k is a multiple of max(align, alignof(ObjectHead)). align must be a
// power of two; callers are responsible for validating that (Allocate
// checks isPowerOfTwo) since this function is total: it never fails,
// it is only ever called once align is known to be a valid power of two.
//
// |Align|Align|Align|Align|
// |Head---------|            -> offset = 3*align
// |Head-------------|        -> offset = 3*align (rounds up)
func offsetOfPayload(align uintptr) uintptr {
	if align < headerAlign {
		align = headerAlign
	}

	offset := (headerSize / align) * align
	if offset != headerSize {
		offset += align
	}

	return offset
}

// isPowerOfTwo reports whether align is a positive power of two.
func isPowerOfTwo(align uintptr) bool {
	return align > 0 && align&(align-1) == 0
}
