package gc

import "testing"

func TestThreadPrologueEpilogueRoundTrip(t *testing.T) {
	before := flags().registeredCount.Load()

	ThreadPrologue()
	if got := flags().registeredCount.Load(); got != before+1 {
		t.Fatalf("registeredCount = %d, want %d", got, before+1)
	}

	if currentMutator() == nil {
		t.Fatal("currentMutator() = nil after ThreadPrologue")
	}

	ThreadEpilogue()
	if got := flags().registeredCount.Load(); got != before {
		t.Fatalf("registeredCount after epilogue = %d, want %d", got, before)
	}
	if currentMutator() != nil {
		t.Fatal("currentMutator() non-nil after ThreadEpilogue")
	}
}

func TestThreadEpilogueWithoutPrologueIsFatal(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("ThreadEpilogue without a prior ThreadPrologue did not panic")
		}
		if _, ok := r.(*StandardError); !ok {
			t.Fatalf("recovered %T, want *StandardError", r)
		}
	}()

	// Ensure this goroutine has no registration (it may already be
	// registered by another subtest sharing the goroutine; run epilogue
	// twice so the second call is guaranteed to observe no registration).
	if currentMutator() != nil {
		ThreadEpilogue()
	}
	ThreadEpilogue()
}

func TestPushPopLocal(t *testing.T) {
	ThreadPrologue()
	defer ThreadEpilogue()

	m := currentMutator()
	if m == nil {
		t.Fatal("currentMutator() = nil")
	}

	obj := &ObjectHead{}
	var slotVar *ObjectHead = obj
	PushLocal(&slotVar)

	snap := m.locals.snapshot()
	if len(snap) != 1 || snap[0] != obj {
		t.Fatalf("locals snapshot = %v, want [%p]", snap, obj)
	}

	PopLocal()
	if got := m.locals.snapshot(); len(got) != 0 {
		t.Fatalf("locals snapshot after PopLocal = %v, want empty", got)
	}
}

func TestPushLocalWithoutPrologueIsFatal(t *testing.T) {
	if currentMutator() != nil {
		t.Skip("this goroutine is already registered from another subtest")
	}

	defer func() {
		if recover() == nil {
			t.Fatal("PushLocal without ThreadPrologue did not panic")
		}
	}()

	var slotVar *ObjectHead
	PushLocal(&slotVar)
}
