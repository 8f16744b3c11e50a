package testutil

import "github.com/roach88/prodnet/internal/ir"

// Recipe builds a recipe with a craft time of 1.
func Recipe(id string, input, output ir.Vector) *ir.Recipe {
	return &ir.Recipe{ID: id, Time: 1, Input: input, Output: output}
}

// Unit builds a unit type with no pollution or energy draw.
func Unit(id string, speed float64) *ir.UnitType {
	return &ir.UnitType{ID: id, Speed: speed}
}

// ScenarioCatalog returns a small chain used across packages:
//
//	gear   <- 2 plate
//	plate  <- 1 ore
//	ore    (no inputs)
//	circuit <- 1 plate, 3 cable
//	cable  <- 1 plate (yields 2)
//
// The assembler and furnace units and speed/productivity modules are
// included.
func ScenarioCatalog() *ir.Catalog {
	cat := ir.NewCatalog()
	for _, r := range []*ir.Recipe{
		Recipe("gear", ir.Vector{"plate": 2}, ir.Vector{"gear": 1}),
		Recipe("plate", ir.Vector{"ore": 1}, ir.Vector{"plate": 1}),
		Recipe("ore", nil, ir.Vector{"ore": 1}),
		Recipe("circuit", ir.Vector{"plate": 1, "cable": 3}, ir.Vector{"circuit": 1}),
		Recipe("cable", ir.Vector{"plate": 1}, ir.Vector{"cable": 2}),
	} {
		cat.Recipes[r.ID] = r
	}
	cat.Units["assembler"] = &ir.UnitType{
		ID: "assembler", Speed: 0.75, Pollution: 3,
		Energy: ir.Energy{Max: 150, Drain: 5},
	}
	cat.Units["furnace"] = &ir.UnitType{
		ID: "furnace", Speed: 2, Pollution: 4,
		Energy: ir.Energy{Max: 90, Drain: 3},
	}
	cat.Modules["speed"] = ir.Module{ID: "speed", Speed: 0.2, Energy: 0.5}
	cat.Modules["prod"] = ir.Module{ID: "prod", Speed: -0.05, Productivity: 0.1, Pollution: 0.05, Energy: 0.4}
	return cat
}
