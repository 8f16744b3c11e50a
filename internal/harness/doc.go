// Package harness runs YAML scenarios against a live production network.
//
// A scenario names a catalog directory and an inline plan, then lists edit
// steps and expectations:
//
//	name: reduce_parent
//	description: Lowering the parent's capacity doubles the supply ratio.
//	catalog: catalog
//	plan:
//	  name: o1
//	  cycle_length: 60
//	  root:
//	    recipe: o1
//	    capacity: 3
//	    children:
//	      - recipe: r1
//	steps:
//	  - action: set_capacity
//	    node: o1
//	    value: 1.5
//	expect:
//	  - node: o1
//	    supply: { r1: 2 }
//
// Nodes are addressed by the slash-separated recipe path from the root
// ("o1/r1"). Quantities compare within Tolerance; stats compare exactly,
// since they are already rounded to two decimals.
//
// Each step is applied to a real engine.Network built from the plan. A
// step that is expected to fail names the error code in expect_error; any
// other step error fails the scenario.
package harness
