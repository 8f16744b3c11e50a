package reactive

// Computed is a memoized value derived from explicitly listed sources.
//
// fn must read only the declared sources (and immutable data). A read of an
// undeclared reactive value is not tracked and can go stale.
type Computed[T any] struct {
	fanout
	fn       func() T
	value    T
	dirty    bool
	sources  []Source
	disposed bool
}

// NewComputed creates a computed value over sources.
// The first Get evaluates fn.
func NewComputed[T any](fn func() T, sources ...Source) *Computed[T] {
	c := &Computed[T]{
		fn:      fn,
		dirty:   true,
		sources: sources,
	}
	for _, s := range sources {
		s.attach(c)
	}
	return c
}

// Get returns the cached value, recomputing it first if a source changed.
func (c *Computed[T]) Get() T {
	if c.dirty {
		c.value = c.fn()
		c.dirty = false
	}
	return c.value
}

// Dirty reports whether the next Get will recompute.
func (c *Computed[T]) Dirty() bool {
	return c.dirty
}

// Dispose detaches the computed value from its sources.
// It keeps answering Get but no longer hears about changes.
func (c *Computed[T]) Dispose() {
	if c.disposed {
		return
	}
	for _, s := range c.sources {
		s.detach(c)
	}
	c.sources = nil
	c.disposed = true
}

// invalidate marks the value dirty and forwards to dependents.
// Forwarding happens even when already dirty: a dependent may have been
// attached since the last read.
func (c *Computed[T]) invalidate() {
	c.dirty = true
	c.notify()
}
