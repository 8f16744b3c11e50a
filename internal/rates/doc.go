// Package rates holds the pure formula library the engine calls into.
//
// The Modifier Resolver turns a module configuration into multiplicative
// modifiers; the Rate Function Library turns a recipe, a unit type and
// those modifiers into per-time-unit quantities for one unit at capacity 1,
// and inverts that relation to solve for capacity.
//
// Everything here is stateless. The engine reaches the library through the
// Formulas interface so another rule set can be substituted.
package rates
