package plan

import (
	"fmt"
	"strings"

	"github.com/roach88/prodnet/internal/config"
	"github.com/roach88/prodnet/internal/engine"
	"github.com/roach88/prodnet/internal/ir"
)

// PathError is returned when a recipe path names no live node.
type PathError struct {
	Path string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("no node at path %q", e.Path)
}

// Lookup resolves a slash-separated recipe path from the root.
// Each segment matches the first child, in registration order, with that
// recipe id.
func Lookup(net *engine.Network, path string) (*engine.Node, error) {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	n := net.Root()
	if n == nil || path == "" || n.Recipe().ID != segments[0] {
		return nil, &PathError{Path: path}
	}
	for _, seg := range segments[1:] {
		var next *engine.Node
		for _, c := range n.Children() {
			if c.Recipe().ID == seg {
				next = c
				break
			}
		}
		if next == nil {
			return nil, &PathError{Path: path}
		}
		n = next
	}
	return n, nil
}

// Attach builds spec as a new subtree registered under the node at path.
func Attach(net *engine.Network, cat *ir.Catalog, path string, spec *NodeSpec) (*engine.Node, error) {
	parent, err := Lookup(net, path)
	if err != nil {
		return nil, err
	}
	if err := config.NewValidator().Validate(spec); err != nil {
		return nil, err
	}
	before := len(parent.Children())
	b := &builder{net: net, cat: cat}
	if err := b.build(strings.Trim(path, "/")+"/"+spec.Recipe, parent, spec); err != nil {
		return nil, err
	}
	return parent.Children()[before], nil
}
