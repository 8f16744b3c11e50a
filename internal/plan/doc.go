// Package plan describes a production tree in YAML and instantiates it.
//
// A plan names a root recipe and, recursively, the supplier nodes under it:
//
//	name: gears
//	cycle_length: 60
//	root:
//	  recipe: iron-gear
//	  unit: assembler-1
//	  target: { iron-gear: 120 }
//	  children:
//	    - recipe: iron-plate
//	      unit: stone-furnace
//
// Build resolves every reference against a catalog and returns a live
// engine.Network. Render snapshots a network into a Report, which renders
// as canonical JSON, a text table or CSV rows.
package plan
