package reactive

// effect is a callback queued by upstream changes.
type effect struct {
	rt       *Runtime
	fn       func()
	sources  []Source
	queued   bool
	disposed bool
}

func (e *effect) invalidate() {
	if e.disposed || e.queued {
		return
	}
	e.rt.enqueue(e)
}

// Subscription is the handle returned by Subscribe.
type Subscription struct {
	e *effect
}

// Subscribe runs fn after every propagation that reaches any of sources.
// fn is not run at subscription time.
func Subscribe(rt *Runtime, fn func(), sources ...Source) *Subscription {
	e := &effect{rt: rt, fn: fn, sources: sources}
	for _, s := range sources {
		s.attach(e)
	}
	return &Subscription{e: e}
}

// Unsubscribe detaches the effect. A queued run is dropped.
// Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s.e.disposed {
		return
	}
	for _, src := range s.e.sources {
		src.detach(s.e)
	}
	s.e.sources = nil
	s.e.disposed = true
}

// Active reports whether the subscription still receives changes.
func (s *Subscription) Active() bool {
	return !s.e.disposed
}
