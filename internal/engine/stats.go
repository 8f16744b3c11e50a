package engine

import (
	"gonum.org/v1/gonum/floats"

	"github.com/roach88/prodnet/internal/rates"
)

// Stats are the physical characteristics of a node's unit.
// Every figure is rounded to two decimals.
type Stats struct {
	Speed     float64 `json:"speed"`
	Pollution float64 `json:"pollution"`
	Energy    float64 `json:"energy"`
}

// Stats returns the node's physical stats. Zero when no unit is assigned.
func (n *Node) Stats() Stats { return n.stats.Get() }

func (n *Node) computeStats() Stats {
	u := n.unit.Get()
	if u == nil {
		return Stats{}
	}
	m := n.modifiers.Get()

	scale := 1.0
	if n.net.cycleScaling.Get() {
		scale *= n.net.cycleLength.Get()
	}
	if n.net.capacityScaling.Get() {
		scale *= n.capacity.Get()
	}

	return Stats{
		Speed:     rates.RoundStat(u.Speed * (1 + m.Speed)),
		Pollution: rates.RoundStat(u.Pollution * (1 + m.Pollution) * scale),
		Energy:    rates.RoundStat(u.Energy.Max * (1 + m.Energy) * scale),
	}
}

// TotalEnergy sums the energy stat over the subtree rooted at n.
func (n *Node) TotalEnergy() float64 {
	return n.sumStats(func(s Stats) float64 { return s.Energy })
}

// TotalPollution sums the pollution stat over the subtree rooted at n.
func (n *Node) TotalPollution() float64 {
	return n.sumStats(func(s Stats) float64 { return s.Pollution })
}

func (n *Node) sumStats(field func(Stats) float64) float64 {
	var vals []float64
	n.walk(0, func(c *Node, _ int) bool {
		vals = append(vals, field(c.Stats()))
		return true
	})
	return rates.RoundStat(floats.Sum(vals))
}
