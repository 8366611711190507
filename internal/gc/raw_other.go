//go:build !(linux || darwin)

package gc

import "unsafe"

// rawAlloc is the portability fallback for platforms without
// golang.org/x/sys/unix mmap support: a plain Go allocation. The object
// header and payload still live at a stable address for the object's
// lifetime (Go does not move heap allocations), so every invariant in
// spec §3/§8 still holds; the only difference from the unix path is that
// this memory is visible to (and kept alive by) Go's own collector rather
// than living entirely outside it.
func rawAlloc(n uintptr) (unsafe.Pointer, error) {
	b := make([]byte, n)
	return unsafe.Pointer(&b[0]), nil
}

// rawFree is a no-op here: ordinary Go-allocated memory is reclaimed by
// the host collector once nothing references it, which happens once the
// heap slab drops the object (see Deallocate).
func rawFree(ptr unsafe.Pointer, n uintptr) error {
	return nil
}
