// Command orizon-gc-smoke is a diagnostic CLI that exercises the GC
// runtime end to end: it registers a mutator, allocates a small cyclic
// object graph, forces a collection, and reports the resulting heap-slab
// size. Modeled on the teacher repo's own cmd/orizon-smoke-test diagnostic
// tooling (not a demonstration program in the product sense, which
// spec.md §1 places out of scope).
package main

import (
	"flag"
	"fmt"
	"os"
	"unsafe"

	"github.com/orizon-lang/orizon-gcruntime/internal/gc"
	orzruntime "github.com/orizon-lang/orizon-gcruntime/runtime"
)

// pair is a tiny managed type with one reference field, used to build the
// unreachable two-node cycle from spec §8 scenario 1.
type pair struct {
	next *gc.ObjectHead
}

func pairMarkFn(obj *gc.ObjectHead) {
	p := (*pair)(obj.Payload())
	if p.next != nil {
		gc.MarkGray(p.next)
	}
}

func main() {
	addr := flag.String("debug-addr", "", "if set, serve GC diagnostics at this address (e.g. :6060)")
	flag.Parse()

	status := orzruntime.Start(func() int {
		if *addr != "" {
			shutdown, err := gc.StartDebugHTTP(gc.Active(), *addr)
			if err != nil {
				fmt.Fprintf(os.Stderr, "debug http: %v\n", err)
			} else {
				defer shutdown(nil)
			}
		}

		a := gc.Allocate(unsafe.Sizeof(pair{}), unsafe.Alignof(pair{}))
		a.MarkFn = pairMarkFn
		b := gc.Allocate(unsafe.Sizeof(pair{}), unsafe.Alignof(pair{}))
		b.MarkFn = pairMarkFn

		aPayload := (*pair)(a.Payload())
		bPayload := (*pair)(b.Payload())

		gc.WriteBarrier01(&aPayload.next, b)
		gc.WriteBarrier01(&bPayload.next, a)

		fmt.Printf("allocated cyclic pair: heap has %d live objects\n", gc.Active().HeapObjects())

		gc.EnterSaferegion()
		gc.Active().Collect()
		gc.ExitSaferegion()

		fmt.Printf("collection complete: heap now has %d live objects\n", gc.Active().HeapObjects())

		return 0
	}, len(os.Args), os.Args)

	os.Exit(status)
}
