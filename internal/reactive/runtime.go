package reactive

// DefaultMaxCascade is the default limit on nested propagations.
// Each effect that writes a cell while another propagation is running adds
// one level.
const DefaultMaxCascade = 1000

// Runtime coordinates propagation for a family of cells.
// All cells, computed values and subscriptions that depend on each other
// must share one Runtime.
type Runtime struct {
	maxCascade int
	depth      int
	pending    []*effect
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithMaxCascade sets the nested propagation limit.
// Values below 1 are ignored.
func WithMaxCascade(n int) Option {
	return func(rt *Runtime) {
		if n > 0 {
			rt.maxCascade = n
		}
	}
}

// NewRuntime creates a Runtime.
func NewRuntime(opts ...Option) *Runtime {
	rt := &Runtime{maxCascade: DefaultMaxCascade}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// Depth returns the current nested propagation depth. Zero when idle.
func (rt *Runtime) Depth() int {
	return rt.depth
}

// Pending returns the number of effects queued but not yet run.
func (rt *Runtime) Pending() int {
	return len(rt.pending)
}

// propagate runs one change through the graph: mark, then flush.
func (rt *Runtime) propagate(mark func()) {
	rt.depth++
	defer func() { rt.depth-- }()

	if rt.depth > rt.maxCascade {
		depth := rt.depth
		for _, e := range rt.pending {
			e.queued = false
		}
		rt.pending = nil
		panic(&CascadeError{Depth: depth, Limit: rt.maxCascade})
	}

	mark()
	rt.flush()
}

// flush runs queued effects in FIFO order until the queue is empty.
// Nested propagations started by an effect drain the same queue.
func (rt *Runtime) flush() {
	for len(rt.pending) > 0 {
		e := rt.pending[0]
		rt.pending = rt.pending[1:]
		e.queued = false
		if !e.disposed {
			e.fn()
		}
	}
}

func (rt *Runtime) enqueue(e *effect) {
	e.queued = true
	rt.pending = append(rt.pending, e)
}
