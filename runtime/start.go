// Package runtime implements the host-language bootstrap entry point,
// lang.start: registering the main mutator, starting the collector, and
// invoking user main. Everything beyond that (loading the user program,
// wiring argv, compiler-side bootstrap) is out of this spec's scope; see
// spec.md §1.
package runtime

import (
	"github.com/orizon-lang/orizon-gcruntime/internal/gc"
)

// Start implements lang.start: registers the calling goroutine as the main
// mutator, starts the collector, invokes mainFn, and returns its status.
// It never returns before mainFn returns (spec §6).
//
// opts configure the collector (worker count, heap-bytes trigger
// threshold); see internal/gc.Option.
func Start(mainFn func() int, argc int, argv []string, opts ...gc.Option) int {
	gc.ThreadPrologue()

	c := gc.NewCollector(opts...)
	c.Start()

	status := mainFn()

	// No epilogue: spec §6 documents lang.start as never returning before
	// mainFn does, and the process is expected to exit shortly after —
	// matching the original's own "no epilogue, we are ending here".
	return status
}

// Collector aliases gc.Collector, the type of the collector Start launches.
// Start does not return that collector; callers reach it through
// gc.Active(), as the smoke-test CLI does.
type Collector = gc.Collector
