// Package gc implements Orizon's concurrent tri-color mark-sweep garbage
// collector: object header layout, the heap and thread-root slabs, the
// allocator, the four write-barrier variants, the safepoint/saferegion
// protocol, and the collector's phase machine.
//
// This package is the ABI boundary a compiler's code generator targets: it
// exports the same ten entry points the generated code calls on every
// allocation, reference store, scope boundary, back-edge, and blocking
// syscall. See the package-level function docs for the symbol each
// implements.
package gc
