package gc

import (
	"bytes"
	"runtime"
	"strconv"
)

// mutator is the Go-side registration record for one goroutine acting as a
// mutator thread: its thread-root-set index and its owned local root
// stack. It is the analog of the original runtime's thread_local! REGISTRY.
type mutator struct {
	rootIndex uint64
	locals    *localStack
}

// goroutineID extracts the calling goroutine's id by parsing the
// "goroutine N [...]" header off a short runtime.Stack dump. Go has no
// built-in thread-local storage; this is the standard trick for emulating
// one, and is the technique the retrieved (name-only) goroutineid package
// in the example pack exists to provide — its own source was filtered out
// of the retrieval, so the trick is reimplemented directly here.
func goroutineID() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := buf[:n]

	const prefix = "goroutine "
	if !bytes.HasPrefix(b, []byte(prefix)) {
		Fatal(ErrPrologueMissing())
	}
	b = b[len(prefix):]

	end := bytes.IndexByte(b, ' ')
	if end < 0 {
		Fatal(ErrPrologueMissing())
	}

	id, err := strconv.ParseInt(string(b[:end]), 10, 64)
	if err != nil {
		Fatal(ErrPrologueMissing())
	}

	return id
}

// currentMutator returns the calling goroutine's registration, or nil if
// ThreadPrologue was never called on it.
func currentMutator() *mutator {
	gid := goroutineID()

	registryMu.Lock()
	defer registryMu.Unlock()

	return registry[gid]
}

// ThreadPrologue implements the registration half of thread_prologue: it
// increments the registered-thread counter, inserts a ThreadRoot into the
// thread-root set, and — if the barrier is already enabled (this goroutine
// was born inside a mark phase) — publishes its id on threadEnablingChan,
// which the collector drains at its next STW-Scan (spec §4.7). No wake-up
// follows: parked mutators poll worldStopped themselves.
func ThreadPrologue() {
	gid := goroutineID()

	flags().registeredCount.Add(1)

	m := &mutator{locals: &localStack{}}
	m.rootIndex = roots().insert(&threadRoot{handle: gid, locals: m.locals, rootIndex: 0})

	registryMu.Lock()
	registry[gid] = m
	registryMu.Unlock()

	if flags().isBarrierEnabled() {
		threadEnablingChan() <- gid
	}
}

// ThreadEpilogue implements thread_epilogue: removes this goroutine's
// thread-root entry and decrements the registered-thread counter. Fatal
// (ErrPrologueMissing) if ThreadPrologue never ran on this goroutine.
func ThreadEpilogue() {
	gid := goroutineID()

	registryMu.Lock()
	m, ok := registry[gid]
	if ok {
		delete(registry, gid)
	}
	registryMu.Unlock()

	if !ok {
		Fatal(ErrPrologueMissing())
	}

	roots().remove(m.rootIndex)
	flags().registeredCount.Add(-1)
}

// PushLocal implements gc.pushLocal: appends slot to the calling
// goroutine's local root stack. Owner-thread-only; non-blocking.
func PushLocal(slot Slot) {
	m := currentMutator()
	if m == nil {
		Fatal(ErrPrologueMissing())
	}
	m.locals.push(slot)
}

// PopLocal implements gc.popLocal: removes the tail of the calling
// goroutine's local root stack. Owner-thread-only; non-blocking.
func PopLocal() {
	m := currentMutator()
	if m == nil {
		Fatal(ErrPrologueMissing())
	}
	m.locals.pop()
}
