package engine

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/roach88/prodnet/internal/ir"
	"github.com/roach88/prodnet/internal/rates"
	"github.com/roach88/prodnet/internal/reactive"
)

// Network owns a tree of production nodes and the cells they share.
//
// INVARIANTS:
//   - Every live node is in the arena exactly once
//   - A node appears in at most one parent's children slice
//   - The root has no parent
//   - cycleLength is always positive and finite
type Network struct {
	rt       *reactive.Runtime
	formulas rates.Formulas
	logger   *slog.Logger
	ids      IDGenerator

	cycleLength     *reactive.Cell[float64]
	cycleScaling    *reactive.Cell[bool]
	capacityScaling *reactive.Cell[bool]

	nodes map[NodeID]*Node
	root  *Node
}

// NewNetwork creates an empty network.
//
// Returns an error if the configured cycle length is invalid.
func NewNetwork(opts ...NetworkOption) (*Network, error) {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}
	if err := validateCycleLength(s.cycleLength); err != nil {
		return nil, err
	}

	rt := reactive.NewRuntime(reactive.WithMaxCascade(s.maxCascade))
	return &Network{
		rt:              rt,
		formulas:        s.formulas,
		logger:          s.logger,
		ids:             s.ids,
		cycleLength:     reactive.NewCell(rt, s.cycleLength),
		cycleScaling:    reactive.NewCell(rt, s.cycleScaling),
		capacityScaling: reactive.NewCell(rt, s.capacityScaling),
		nodes:           make(map[NodeID]*Node),
	}, nil
}

// CycleLength returns the shared cycle length.
func (net *Network) CycleLength() float64 {
	return net.cycleLength.Get()
}

// SetCycleLength changes the shared cycle length and propagates to every node.
func (net *Network) SetCycleLength(length float64) error {
	if err := validateCycleLength(length); err != nil {
		return err
	}
	if net.cycleLength.Set(length) {
		net.logger.Debug("cycle length changed", "cycle_length", length)
	}
	return nil
}

// CycleScaling reports whether stats scale with cycle length.
func (net *Network) CycleScaling() bool {
	return net.cycleScaling.Get()
}

// SetCycleScaling toggles cycle scaling of pollution and energy stats.
func (net *Network) SetCycleScaling(enabled bool) {
	net.cycleScaling.Set(enabled)
}

// CapacityScaling reports whether stats scale with capacity.
func (net *Network) CapacityScaling() bool {
	return net.capacityScaling.Get()
}

// SetCapacityScaling toggles capacity scaling of pollution and energy stats.
func (net *Network) SetCapacityScaling(enabled bool) {
	net.capacityScaling.Set(enabled)
}

// Runtime exposes the propagation runtime so callers can subscribe to
// node values alongside the engine.
func (net *Network) Runtime() *reactive.Runtime {
	return net.rt
}

// Logger returns the network's logger.
func (net *Network) Logger() *slog.Logger {
	return net.logger
}

// NewNode creates a detached node for recipe.
//
// The node lives in the arena until removed. Attach it with SetRoot or
// RegisterChild.
func (net *Network) NewNode(recipe *ir.Recipe, opts ...NodeOption) (*Node, error) {
	if recipe == nil {
		return nil, fmt.Errorf("NewNode: recipe is required")
	}
	s := nodeSettings{capacity: DefaultCapacity}
	for _, opt := range opts {
		opt(&s)
	}
	if err := validateCapacity(s.capacity); err != nil {
		err.Recipe = recipe.ID
		return nil, err
	}

	n := newNode(net, NodeID(net.ids.Generate()), recipe, s)
	net.nodes[n.id] = n
	net.logger.Debug("node created", "node", n.id, "recipe", recipe.ID)
	return n, nil
}

// SetRoot designates node as the tree root.
// The node must be detached and owned by this network. Any previous root
// stays in the arena, detached.
func (net *Network) SetRoot(n *Node) error {
	if err := net.checkOwned(n); err != nil {
		return err
	}
	if n.parent != "" {
		return newTreeError(n, "root must not have a parent")
	}
	net.root = n
	return nil
}

// Root returns the tree root, or nil.
func (net *Network) Root() *Node {
	return net.root
}

// Node looks up a live node by id.
func (net *Network) Node(id NodeID) (*Node, bool) {
	n, ok := net.nodes[id]
	return n, ok
}

// Len returns the number of live nodes, attached or not.
func (net *Network) Len() int {
	return len(net.nodes)
}

// Walk visits the tree depth-first in children order, starting at the root.
// Returning false from fn stops the walk.
func (net *Network) Walk(fn func(n *Node, depth int) bool) {
	if net.root == nil {
		return
	}
	net.root.walk(0, fn)
}

// Remove removes the first node whose recipe id matches, searching from the
// root. When the root itself matches, the whole tree is released.
// Returns false if no node matched.
func (net *Network) Remove(recipeID string) bool {
	if net.root == nil {
		return false
	}
	if net.root.recipe.ID == recipeID {
		root := net.root
		net.root = nil
		root.release()
		net.logger.Debug("root removed", "recipe", recipeID)
		return true
	}
	return net.root.Remove(recipeID)
}

// Detach unhooks n from its parent without destroying it. The subtree stays
// live and may be registered again elsewhere.
func (net *Network) Detach(n *Node) error {
	if err := net.checkOwned(n); err != nil {
		return err
	}
	parent, ok := n.Parent()
	if !ok {
		return newTreeError(n, "node has no parent")
	}
	for i, c := range parent.children {
		if c == n {
			parent.detachChildAt(i)
			return nil
		}
	}
	return newTreeError(n, "parent does not list node as child")
}

func (net *Network) checkOwned(n *Node) error {
	if n == nil {
		return fmt.Errorf("node is nil")
	}
	if n.net != net {
		return newTreeError(n, "node belongs to another network")
	}
	if n.released {
		return newTreeError(n, "node has been removed")
	}
	return nil
}

func validateCycleLength(length float64) error {
	if math.IsNaN(length) || math.IsInf(length, 0) || length <= 0 {
		return &RuntimeError{
			Code:    ErrCodeInvalidCycleLength,
			Message: fmt.Sprintf("cycle length must be positive and finite, got %v", length),
		}
	}
	return nil
}

func validateCapacity(c float64) *RuntimeError {
	if math.IsNaN(c) || math.IsInf(c, 0) || c < 0 {
		return &RuntimeError{
			Code:    ErrCodeInvalidCapacity,
			Message: fmt.Sprintf("capacity must be non-negative and finite, got %v", c),
		}
	}
	return nil
}
