// Package catalog loads recipe, unit and module definitions from CUE.
//
// A catalog directory holds one CUE package with three top-level sections:
//
//	recipe: "iron-gear": { time: 0.5, input: { "iron-plate": 2 }, output: { "iron-gear": 1 } }
//	unit: "assembler-1": { speed: 0.5, pollution: 4, energy: { max: 75, drain: 2.5 } }
//	module: "speed-1": { speed: 0.2, energy: 0.5 }
//
// Load compiles the directory into an *ir.Catalog. Validate checks the
// compiled values (positive craft times and speeds, non-negative
// quantities) and reports E2xx codes.
package catalog
