package gc

// Slot is the address of a memory location that currently holds a managed
// reference — what spec.md calls "slot*". A compiler emits calls with the
// address of whatever stack/struct location holds the reference; in this
// Go reproduction that location is typed as *ObjectHead, so a Slot is a
// pointer to one.
type Slot = **ObjectHead

// localStack is a per-mutator, owner-only-mutated stack of slot addresses:
// the addresses of locations that currently hold a managed reference
// within the owning goroutine's active scopes. The collector only reads it
// while the owner is suspended (spec §5).
type localStack struct {
	data []Slot
}

func (l *localStack) push(s Slot) {
	l.data = append(l.data, s)
}

func (l *localStack) pop() {
	if n := len(l.data); n > 0 {
		l.data = l.data[:n-1]
	}
}

// snapshot copies out every currently-pushed slot, skipping nils, exactly
// as spec §4.5 step 2 describes for STW-Scan.
func (l *localStack) snapshot() []*ObjectHead {
	out := make([]*ObjectHead, 0, len(l.data))
	for _, slot := range l.data {
		if slot == nil {
			continue
		}
		obj := *slot
		if obj == nil {
			continue
		}
		out = append(out, obj)
	}
	return out
}

// threadRoot is one thread-root-set entry: the mutator's handle (its
// goroutine id) and a pointer to its owned local root stack.
type threadRoot struct {
	handle    int64
	locals    *localStack
	rootIndex uint64
}

// threadRootSet is a slab mapping root_index -> threadRoot. Inserts happen
// only in ThreadPrologue, outside STW; iteration (snapshotting every
// entry's locals) happens only during STW-Scan.
type threadRootSet struct {
	s slab[*threadRoot]
}

func newThreadRootSet() *threadRootSet {
	return &threadRootSet{}
}

func (t *threadRootSet) insert(tr *threadRoot) uint64 {
	return t.s.insert(tr)
}

func (t *threadRootSet) remove(idx uint64) {
	t.s.remove(idx)
}

// snapshot returns every registered thread-root entry. Called only during
// STW-Scan (spec §4.5 step 2), so no mutator is concurrently registering.
func (t *threadRootSet) snapshot() []*threadRoot {
	return t.s.snapshot()
}
