package rates

import (
	"math"

	"github.com/roach88/prodnet/internal/ir"
)

// Modifiers bundles the four modifiers resolved from one module configuration.
type Modifiers struct {
	Speed      float64
	Production float64
	Pollution  float64
	Energy     float64
}

// Formulas is the rate function library consumed by the engine.
// Implementations must be pure: same arguments, same result, no side effects.
type Formulas interface {
	// Resolve computes the modifiers for a module configuration.
	Resolve(cfg ir.ModuleConfig) Modifiers

	// InputPerTime returns per-time-unit input quantities for one unit.
	InputPerTime(recipe *ir.Recipe, unit *ir.UnitType, speedMod float64) ir.Vector

	// OutputPerTime returns per-time-unit output quantities for one unit.
	OutputPerTime(recipe *ir.Recipe, unit *ir.UnitType, speedMod, productionMod float64) ir.Vector

	// InverseCapacity returns the capacity needed to produce desired per cycle
	// at the given per-time-unit rate. The result may be non-finite or
	// negative; callers validate it.
	InverseCapacity(desired, perTimeRate, cycleLength float64) float64
}

// Default is the standard rule set.
type Default struct{}

var _ Formulas = Default{}

// Resolve implements Formulas.
func (Default) Resolve(cfg ir.ModuleConfig) Modifiers {
	return Modifiers{
		Speed:      SpeedModifier(cfg),
		Production: ProductionModifier(cfg),
		Pollution:  PollutionModifier(cfg),
		Energy:     EnergyModifier(cfg),
	}
}

// InputPerTime implements Formulas.
//
// qty × unitSpeed × (1 + speedMod) / recipe.Time for every input. A nil unit
// crafts at speed 1.
func (Default) InputPerTime(recipe *ir.Recipe, unit *ir.UnitType, speedMod float64) ir.Vector {
	return perTime(recipe.Input, recipe.Time, craftSpeed(unit, speedMod))
}

// OutputPerTime implements Formulas.
//
// Same as InputPerTime over the outputs, scaled by (1 + productionMod).
func (Default) OutputPerTime(recipe *ir.Recipe, unit *ir.UnitType, speedMod, productionMod float64) ir.Vector {
	return perTime(recipe.Output, recipe.Time, craftSpeed(unit, speedMod)*(1+productionMod))
}

// InverseCapacity implements Formulas.
func (Default) InverseCapacity(desired, perTimeRate, cycleLength float64) float64 {
	return desired / (perTimeRate * cycleLength)
}

func craftSpeed(unit *ir.UnitType, speedMod float64) float64 {
	base := 1.0
	if unit != nil {
		base = unit.Speed
	}
	return base * (1 + speedMod)
}

func perTime(qty ir.Vector, craftTime, speed float64) ir.Vector {
	out := make(ir.Vector, len(qty))
	if craftTime <= 0 {
		for r := range qty {
			out[r] = 0
		}
		return out
	}
	for r, q := range qty {
		out[r] = q * speed / craftTime
	}
	return out
}

// CapacityPrecision is the number of decimals a solved capacity keeps.
const CapacityPrecision = 4

// RoundCapacity rounds a solved capacity to CapacityPrecision decimals.
// Non-finite input is returned unchanged so callers can reject it.
func RoundCapacity(c float64) float64 {
	if math.IsNaN(c) || math.IsInf(c, 0) {
		return c
	}
	scale := math.Pow10(CapacityPrecision)
	return math.Round(c*scale) / scale
}

// RoundStat rounds a physical stat to two decimals: math.Round(x × 100) / 100.
func RoundStat(x float64) float64 {
	return math.Round(x*100) / 100
}
