// Package engine implements the reactive production-network engine.
//
// A Network owns a tree of production nodes. Each Node wraps one recipe run
// by some number of parallel units (its capacity) and exposes derived values
// that are always consistent with the node's current recipe, unit, modules,
// capacity and the network's shared cycle length:
//
//   - InputDemand: per-cycle quantities the node consumes
//   - OutputSupply: per-cycle quantities the node produces
//   - Stats: speed, pollution and energy of the configured unit
//   - SupplyRatio: per consumed resource, the fraction of demand met by the
//     registered supplier child (only once children exist)
//
// ARCHITECTURE:
//
// Ownership:
// The Network keeps every live node in an arena keyed by NodeID. A parent
// owns its ordered children slice; a child refers back to its parent only by
// NodeID. There are no strong reference cycles.
//
// Propagation:
// Derived values are reactive.Computed vertices over the node's cells and the
// network's shared cells. Writes (SetCapacity, SetUnit, SetModules,
// SetDesiredOutput, SetCycleLength, scaling toggles) propagate synchronously;
// when the write returns, every derived value and every supply ratio that
// depends on it is current.
//
// Backward solve:
// SetDesiredOutput solves the capacity needed for a desired per-cycle output.
// Capacity is written only when the solved value differs from the current
// one, so repeated or simultaneous output edits never oscillate.
//
// Registration:
// RegisterChild seeds the child's outputs from the parent's current demand
// (once), then subscribes the parent's supply recomputation to both the
// parent's and the child's outputs.
//
// Concurrency:
// None. A Network and its nodes must be used from a single goroutine.
package engine
