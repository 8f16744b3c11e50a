package engine

// Children returns the node's children in registration order.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// Parent returns the node's parent, resolved through the network arena.
func (n *Node) Parent() (*Node, bool) {
	if n.parent == "" {
		return nil, false
	}
	return n.net.Node(n.parent)
}

// Depth returns the number of parent hops to the top of the node's tree.
func (n *Node) Depth() int {
	d := 0
	for p, ok := n.Parent(); ok; p, ok = p.Parent() {
		d++
	}
	return d
}

// CountNodes returns the size of the subtree rooted at n, n included.
func (n *Node) CountNodes() int {
	count := 1
	for _, c := range n.children {
		count += c.CountNodes()
	}
	return count
}

// Remove removes the first descendant whose recipe id matches.
//
// Direct children are checked first, in order. Otherwise the request is
// forwarded into each child until one reports removal. The removed subtree
// is released: its subscriptions are cancelled and its nodes leave the
// arena.
func (n *Node) Remove(recipeID string) bool {
	if n.released {
		return false
	}
	for i, c := range n.children {
		if c.recipe.ID == recipeID {
			removed := n.detachChildAt(i)
			count := removed.CountNodes()
			removed.release()
			n.net.logger.Debug("node removed",
				"parent", n.id,
				"recipe", recipeID,
				"nodes", count,
			)
			return true
		}
	}
	for _, c := range n.children {
		if c.Remove(recipeID) {
			return true
		}
	}
	return false
}

// detachChildAt unhooks the i-th child and its registration, then
// recomputes supply. The child subtree stays live.
func (n *Node) detachChildAt(i int) *Node {
	child := n.children[i]
	n.children = append(n.children[:i:i], n.children[i+1:]...)
	child.parent = ""

	if sub, ok := n.subs[child.id]; ok {
		sub.Unsubscribe()
		delete(n.subs, child.id)
	}

	id := child.recipe.ID
	if n.registered[id] == child {
		delete(n.registered, id)
		for j := len(n.children) - 1; j >= 0; j-- {
			if n.children[j].recipe.ID == id {
				n.registered[id] = n.children[j]
				break
			}
		}
	}

	n.recomputeSupply()
	return child
}

// release tears down the subtree rooted at n. n must already be detached.
func (n *Node) release() {
	for _, c := range n.children {
		if sub, ok := n.subs[c.id]; ok {
			sub.Unsubscribe()
		}
		c.release()
	}
	for _, w := range n.watchers {
		w.Unsubscribe()
	}
	n.children = nil
	n.subs = nil
	n.watchers = nil
	n.registered = nil

	n.stats.Dispose()
	n.outputSupply.Dispose()
	n.inputDemand.Dispose()
	n.outputRate.Dispose()
	n.inputRate.Dispose()
	n.modifiers.Dispose()

	delete(n.net.nodes, n.id)
	n.released = true
}

// isAncestorOf reports whether n is d or sits above d.
func (n *Node) isAncestorOf(d *Node) bool {
	for p := d; p != nil; {
		if p == n {
			return true
		}
		next, ok := p.Parent()
		if !ok {
			return false
		}
		p = next
	}
	return false
}

func (n *Node) walk(depth int, fn func(*Node, int) bool) bool {
	if !fn(n, depth) {
		return false
	}
	for _, c := range n.children {
		if !c.walk(depth+1, fn) {
			return false
		}
	}
	return true
}
