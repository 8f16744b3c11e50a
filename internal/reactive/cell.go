package reactive

// Cell is a writable reactive value.
type Cell[T any] struct {
	fanout
	rt    *Runtime
	value T
	equal func(a, b T) bool
}

// NewCell creates a cell gated by ==.
func NewCell[T comparable](rt *Runtime, initial T) *Cell[T] {
	return &Cell[T]{
		rt:    rt,
		value: initial,
		equal: func(a, b T) bool { return a == b },
	}
}

// NewCellFunc creates a cell gated by a custom equality function.
// Use for slices and maps.
func NewCellFunc[T any](rt *Runtime, initial T, equal func(a, b T) bool) *Cell[T] {
	return &Cell[T]{
		rt:    rt,
		value: initial,
		equal: equal,
	}
}

// Get returns the current value.
func (c *Cell[T]) Get() T {
	return c.value
}

// Set stores v and propagates the change.
// Returns false, without propagating, when v equals the current value.
func (c *Cell[T]) Set(v T) bool {
	if c.equal(c.value, v) {
		return false
	}
	c.value = v
	c.rt.propagate(c.notify)
	return true
}
