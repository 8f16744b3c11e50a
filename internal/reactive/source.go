package reactive

// dependent is a vertex that must hear about upstream changes.
type dependent interface {
	invalidate()
}

// Source is anything a Computed or Subscription can depend on.
// Implemented by *Cell[T] and *Computed[T].
type Source interface {
	attach(d dependent)
	detach(d dependent)
}

// fanout holds the dependents of one source in attach order.
type fanout struct {
	deps []dependent
}

func (f *fanout) attach(d dependent) {
	f.deps = append(f.deps, d)
}

func (f *fanout) detach(d dependent) {
	for i, existing := range f.deps {
		if existing == d {
			f.deps = append(f.deps[:i:i], f.deps[i+1:]...)
			return
		}
	}
}

// notify invalidates every dependent. Iterates a snapshot so dependents may
// detach during the walk.
func (f *fanout) notify() {
	if len(f.deps) == 0 {
		return
	}
	snapshot := make([]dependent, len(f.deps))
	copy(snapshot, f.deps)
	for _, d := range snapshot {
		d.invalidate()
	}
}

// Dependents returns how many vertices currently depend on the source.
func (f *fanout) Dependents() int {
	return len(f.deps)
}
