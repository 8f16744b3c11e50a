package plan

import (
	"fmt"
	"sort"

	"github.com/roach88/prodnet/internal/engine"
	"github.com/roach88/prodnet/internal/ir"
)

// BuildError reports a plan node that could not be instantiated.
type BuildError struct {
	Path string
	Err  error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("plan node %s: %v", e.Path, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }

// Build instantiates p against cat.
//
// opts are applied first; the plan's own cycle settings override them.
// Each node is created, registered under its parent (which seeds it from
// the parent's demand), then given its explicit capacity and targets, and
// only then are its own children attached. A target therefore sizes the
// whole chain below it.
func Build(p *Plan, cat *ir.Catalog, opts ...engine.NetworkOption) (*engine.Network, error) {
	if p == nil || p.Root == nil {
		return nil, fmt.Errorf("build: plan has no root")
	}

	netOpts := append([]engine.NetworkOption{}, opts...)
	if p.CycleLength != nil {
		netOpts = append(netOpts, engine.WithCycleLength(*p.CycleLength))
	}
	if p.CycleScaling != nil {
		netOpts = append(netOpts, engine.WithCycleScaling(*p.CycleScaling))
	}
	if p.CapacityScaling != nil {
		netOpts = append(netOpts, engine.WithCapacityScaling(*p.CapacityScaling))
	}

	net, err := engine.NewNetwork(netOpts...)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}

	b := &builder{net: net, cat: cat}
	if err := b.build(p.Root.Recipe, nil, p.Root); err != nil {
		return nil, err
	}
	return net, nil
}

type builder struct {
	net *engine.Network
	cat *ir.Catalog
}

// build creates the node for spec, attaches it under parent (or as root
// when parent is nil) and recurses into its children.
func (b *builder) build(path string, parent *engine.Node, spec *NodeSpec) error {
	n, err := b.node(path, spec)
	if err != nil {
		return err
	}

	if parent == nil {
		err = b.net.SetRoot(n)
	} else {
		err = parent.RegisterChild(n)
	}
	if err != nil {
		return &BuildError{Path: path, Err: err}
	}

	if spec.Capacity != nil {
		if err := n.SetCapacity(*spec.Capacity); err != nil {
			return &BuildError{Path: path, Err: err}
		}
	}
	if err := applyTargets(n, spec.Target); err != nil {
		return &BuildError{Path: path, Err: err}
	}

	for _, cs := range spec.Children {
		if err := b.build(path+"/"+cs.Recipe, n, cs); err != nil {
			return err
		}
	}
	return nil
}

// node creates the detached node for spec.
func (b *builder) node(path string, spec *NodeSpec) (*engine.Node, error) {
	recipe, err := b.cat.Recipe(spec.Recipe)
	if err != nil {
		return nil, &BuildError{Path: path, Err: err}
	}

	var nodeOpts []engine.NodeOption
	if spec.Unit != "" {
		unit, err := b.cat.Unit(spec.Unit)
		if err != nil {
			return nil, &BuildError{Path: path, Err: err}
		}
		nodeOpts = append(nodeOpts, engine.WithUnit(unit))
	}
	if len(spec.Modules) > 0 {
		modules, err := b.cat.ModuleConfig(spec.Modules)
		if err != nil {
			return nil, &BuildError{Path: path, Err: err}
		}
		nodeOpts = append(nodeOpts, engine.WithModules(modules))
	}

	n, err := b.net.NewNode(recipe, nodeOpts...)
	if err != nil {
		return nil, &BuildError{Path: path, Err: err}
	}
	return n, nil
}

// applyTargets solves each target resource in sorted order.
func applyTargets(n *engine.Node, targets map[string]float64) error {
	resources := make([]string, 0, len(targets))
	for res := range targets {
		resources = append(resources, res)
	}
	sort.Strings(resources)
	for _, res := range resources {
		if _, err := n.SetDesiredOutput(ir.Resource(res), targets[res]); err != nil {
			return err
		}
	}
	return nil
}
