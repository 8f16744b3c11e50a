// Package reactive implements the dependency-tracked cells that keep the
// production network's derived values current.
//
// ARCHITECTURE:
//
// Three kinds of vertex:
//   - Cell: a writable value guarded by an equality check
//   - Computed: a memoized pure function of explicitly listed sources
//   - Subscription: an effect that re-runs when any of its sources change
//
// Propagation is synchronous and two-phase. A changed Cell first marks every
// transitive Computed dirty and queues every reachable effect; only then are
// the queued effects run, in queue order, each at most once while queued.
// Because marking finishes before any effect runs, an effect never observes
// a stale Computed (no glitches). Computed values recompute lazily on Get.
//
// Effects may write cells. Such a write propagates fully before Set returns,
// so every write is visible everywhere by the time its caller continues.
//
// Termination:
// An unchanged write never propagates (equality gate). Runaway feedback
// (an effect that keeps changing its own sources) is stopped by the
// cascade limit on nested propagations; exceeding it panics with
// *CascadeError, which is a programming error rather than a runtime fault.
//
// Concurrency:
// None. A Runtime and everything created from it must be used from one
// goroutine.
package reactive
