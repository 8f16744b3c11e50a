package rates

import (
	"gonum.org/v1/gonum/floats"

	"github.com/roach88/prodnet/internal/ir"
)

// MinModifier is the floor applied to speed, pollution and energy modifiers.
// A unit never runs slower than 20% of its base figures.
const MinModifier = -0.8

// SpeedModifier sums the speed effects of every equipped module.
func SpeedModifier(cfg ir.ModuleConfig) float64 {
	return floor(sum(cfg, func(m ir.Module) float64 { return m.Speed }), MinModifier)
}

// ProductionModifier sums the productivity effects of every equipped module.
// Productivity never goes below zero.
func ProductionModifier(cfg ir.ModuleConfig) float64 {
	return floor(sum(cfg, func(m ir.Module) float64 { return m.Productivity }), 0)
}

// PollutionModifier sums the pollution effects of every equipped module.
func PollutionModifier(cfg ir.ModuleConfig) float64 {
	return floor(sum(cfg, func(m ir.Module) float64 { return m.Pollution }), MinModifier)
}

// EnergyModifier sums the energy effects of every equipped module.
func EnergyModifier(cfg ir.ModuleConfig) float64 {
	return floor(sum(cfg, func(m ir.Module) float64 { return m.Energy }), MinModifier)
}

func sum(cfg ir.ModuleConfig, field func(ir.Module) float64) float64 {
	if len(cfg) == 0 {
		return 0
	}
	vals := make([]float64, len(cfg))
	for i, m := range cfg {
		vals[i] = field(m)
	}
	return floats.Sum(vals)
}

func floor(v, lo float64) float64 {
	if v < lo {
		return lo
	}
	return v
}
