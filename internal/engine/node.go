package engine

import (
	"github.com/roach88/prodnet/internal/ir"
	"github.com/roach88/prodnet/internal/rates"
	"github.com/roach88/prodnet/internal/reactive"
)

// Node is one recipe instance in a production tree.
//
// The recipe never changes. Unit, modules and capacity are writable cells;
// everything else is derived from them and the network's shared cells.
// A node owns its children. Its parent is held as an id only.
type Node struct {
	id     NodeID
	net    *Network
	recipe *ir.Recipe

	unit     *reactive.Cell[*ir.UnitType]
	modules  *reactive.Cell[ir.ModuleConfig]
	capacity *reactive.Cell[float64]

	modifiers    *reactive.Computed[rates.Modifiers]
	inputRate    *reactive.Computed[ir.Vector]
	outputRate   *reactive.Computed[ir.Vector]
	inputDemand  *reactive.Computed[ir.Vector]
	outputSupply *reactive.Computed[ir.Vector]
	stats        *reactive.Computed[Stats]

	supply *reactive.Cell[ir.Ratios]

	// registered maps a child recipe id to the child whose output answers
	// for that resource. With two children of the same recipe the most
	// recently registered one wins.
	registered map[string]*Node
	children   []*Node
	parent     NodeID

	subs     map[NodeID]*reactive.Subscription
	watchers []*reactive.Subscription
	released bool
}

func newNode(net *Network, id NodeID, recipe *ir.Recipe, s nodeSettings) *Node {
	rt := net.rt
	n := &Node{
		id:         id,
		net:        net,
		recipe:     recipe,
		unit:       reactive.NewCell(rt, s.unit),
		modules:    reactive.NewCellFunc(rt, s.modules, ir.ModuleConfig.Equal),
		capacity:   reactive.NewCell(rt, rates.RoundCapacity(s.capacity)),
		supply:     reactive.NewCellFunc(rt, ir.Ratios{}, ir.Ratios.Equal),
		registered: make(map[string]*Node),
		subs:       make(map[NodeID]*reactive.Subscription),
	}

	f := net.formulas
	n.modifiers = reactive.NewComputed(func() rates.Modifiers {
		return f.Resolve(n.modules.Get())
	}, n.modules)
	n.inputRate = reactive.NewComputed(func() ir.Vector {
		return f.InputPerTime(n.recipe, n.unit.Get(), n.modifiers.Get().Speed)
	}, n.unit, n.modifiers)
	n.outputRate = reactive.NewComputed(func() ir.Vector {
		m := n.modifiers.Get()
		return f.OutputPerTime(n.recipe, n.unit.Get(), m.Speed, m.Production)
	}, n.unit, n.modifiers)
	n.inputDemand = reactive.NewComputed(func() ir.Vector {
		return n.inputRate.Get().Scale(n.net.cycleLength.Get() * n.capacity.Get())
	}, n.inputRate, net.cycleLength, n.capacity)
	n.outputSupply = reactive.NewComputed(func() ir.Vector {
		return n.outputRate.Get().Scale(n.net.cycleLength.Get() * n.capacity.Get())
	}, n.outputRate, net.cycleLength, n.capacity)
	n.stats = reactive.NewComputed(n.computeStats,
		n.unit, n.modifiers, n.capacity,
		net.cycleLength, net.cycleScaling, net.capacityScaling)

	return n
}

// ID returns the node's arena id.
func (n *Node) ID() NodeID { return n.id }

// Recipe returns the recipe this node runs.
func (n *Node) Recipe() *ir.Recipe { return n.recipe }

// Unit returns the assigned unit type, or nil.
func (n *Node) Unit() *ir.UnitType { return n.unit.Get() }

// Modules returns a copy of the equipped module configuration.
func (n *Node) Modules() ir.ModuleConfig {
	cfg := n.modules.Get()
	out := make(ir.ModuleConfig, len(cfg))
	copy(out, cfg)
	return out
}

// Modifiers returns the resolved modifiers for the current modules.
func (n *Node) Modifiers() rates.Modifiers { return n.modifiers.Get() }

// Capacity returns the number of units running in parallel.
func (n *Node) Capacity() float64 { return n.capacity.Get() }

// InputRate returns per-time-unit input quantities for one unit.
func (n *Node) InputRate() ir.Vector { return n.inputRate.Get().Clone() }

// OutputRate returns per-time-unit output quantities for one unit.
func (n *Node) OutputRate() ir.Vector { return n.outputRate.Get().Clone() }

// InputDemand returns per-cycle input quantities at the current capacity.
// Empty for a recipe without inputs.
func (n *Node) InputDemand() ir.Vector { return n.inputDemand.Get().Clone() }

// OutputSupply returns per-cycle output quantities at the current capacity.
func (n *Node) OutputSupply() ir.Vector { return n.outputSupply.Get().Clone() }

// Released reports whether the node has been removed from its network.
func (n *Node) Released() bool { return n.released }

// SetUnit assigns a unit type. nil clears it and crafts at base speed.
func (n *Node) SetUnit(u *ir.UnitType) error {
	if err := n.net.checkOwned(n); err != nil {
		return err
	}
	n.unit.Set(u)
	return nil
}

// SetModules replaces the equipped module configuration.
func (n *Node) SetModules(cfg ir.ModuleConfig) error {
	if err := n.net.checkOwned(n); err != nil {
		return err
	}
	own := make(ir.ModuleConfig, len(cfg))
	copy(own, cfg)
	n.modules.Set(own)
	return nil
}
