package engine

import (
	"math"

	"github.com/roach88/prodnet/internal/ir"
	"github.com/roach88/prodnet/internal/reactive"
)

// FullySupplied is the ratio reported when demand for a resource is zero.
const FullySupplied = 1.0

// sufficiencyTolerance absorbs float noise when a solved child meets its
// seeded target exactly.
const sufficiencyTolerance = 1e-9

// RegisterChild attaches child as a supplier of n.
//
// The parent's current demand seeds the child's target output once. After
// that the supply ratios follow both sides live but the child's capacity is
// never re-solved.
func (n *Node) RegisterChild(child *Node) error {
	if err := n.net.checkOwned(n); err != nil {
		return err
	}
	if err := n.net.checkOwned(child); err != nil {
		return err
	}
	switch {
	case child == n:
		return newTreeError(child, "node cannot supply itself")
	case child.parent != "":
		return newTreeError(child, "node already has a parent")
	case n.net.root == child:
		return newTreeError(child, "root cannot become a child")
	case child.isAncestorOf(n):
		return newTreeError(child, "registration would create a cycle")
	}

	n.children = append(n.children, child)
	child.parent = n.id
	n.registered[child.recipe.ID] = child
	n.net.logger.Debug("child registered",
		"parent", n.id,
		"parent_recipe", n.recipe.ID,
		"child", child.id,
		"child_recipe", child.recipe.ID,
	)

	n.seed(child)

	n.subs[child.id] = reactive.Subscribe(n.net.rt, n.recomputeSupply,
		n.outputSupply, child.outputSupply)
	n.recomputeSupply()
	return nil
}

// seed writes the parent's current demand into the child's desired output
// for every resource both sides share. Rejected seeds are skipped.
func (n *Node) seed(child *Node) {
	demand := n.inputDemand.Get()
	for _, res := range demand.Keys() {
		if _, ok := child.outputSupply.Get()[res]; !ok {
			continue
		}
		if _, err := child.SetDesiredOutput(res, demand[res]); err != nil {
			n.net.logger.Warn("seed skipped",
				"parent", n.id,
				"child", child.id,
				"resource", string(res),
				"error", err,
			)
			continue
		}
		n.net.logger.Debug("child seeded",
			"child", child.id,
			"resource", string(res),
			"target", demand[res],
			"capacity", child.capacity.Get(),
		)
	}
}

// recomputeSupply rebuilds the supply ratios from the registered children.
//
// Each child answers only for the resource named after its own recipe.
// Children whose resource n does not consume, or who do not produce it,
// contribute nothing.
func (n *Node) recomputeSupply() {
	if n.released {
		return
	}
	demand := n.inputDemand.Get()
	ratios := make(ir.Ratios, len(n.registered))
	for id, child := range n.registered {
		res := ir.Resource(id)
		need, consumed := demand[res]
		if !consumed {
			continue
		}
		have, produced := child.outputSupply.Get()[res]
		if !produced {
			continue
		}
		if need == 0 {
			ratios[res] = FullySupplied
			continue
		}
		ratios[res] = have / need
	}
	n.supply.Set(ratios)
}

// SupplyRatio returns resource → fraction of demand met by a registered
// child. Empty until a matching child is registered.
func (n *Node) SupplyRatio() ir.Ratios {
	src := n.supply.Get()
	out := make(ir.Ratios, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// Sufficient reports whether every supplied input is fully met.
//
// A recipe without inputs is always sufficient. A recipe with inputs but no
// supply entries is not.
func (n *Node) Sufficient() bool {
	if !n.recipe.HasInputs() {
		return true
	}
	ratios := n.supply.Get()
	if len(ratios) == 0 {
		return false
	}
	for _, r := range ratios {
		if math.IsNaN(r) || r < FullySupplied-sufficiencyTolerance {
			return false
		}
	}
	return true
}

// Unsupplied lists consumed resources with positive demand that no
// registered child covers, sorted lexically.
func (n *Node) Unsupplied() []ir.Resource {
	demand := n.inputDemand.Get()
	ratios := n.supply.Get()
	var out []ir.Resource
	for _, res := range demand.Keys() {
		if demand[res] <= 0 {
			continue
		}
		if _, ok := ratios[res]; ok {
			continue
		}
		out = append(out, res)
	}
	return out
}

// OnSupplyChange calls fn with the new ratios whenever they change.
// The subscription is released with the node.
func (n *Node) OnSupplyChange(fn func(ir.Ratios)) *reactive.Subscription {
	sub := reactive.Subscribe(n.net.rt, func() {
		fn(n.SupplyRatio())
	}, n.supply)
	n.watchers = append(n.watchers, sub)
	return sub
}
