package ast

// Walk visits the subtree at id in pre-order. Returning false from fn skips
// the node's children. fn may edit the tree around the visited node: the next
// sibling is read after fn returns.
func (t *Tree) Walk(id NodeID, fn func(id NodeID, depth int) bool) {
	t.walk(id, 0, fn)
}

func (t *Tree) walk(id NodeID, depth int, fn func(NodeID, int) bool) {
	if t.Get(id) == nil {
		return
	}
	if !fn(id, depth) {
		return
	}
	for c := t.nodes[id].first; c != NoNodeID; {
		next := t.nodes[c].next
		t.walk(c, depth+1, fn)
		// c may have been detached or had siblings inserted after it
		if t.nodes[c].parent == id {
			next = t.nodes[c].next
		}
		c = next
	}
}

// Preorder returns the ids of the subtree at id in pre-order.
func (t *Tree) Preorder(id NodeID) []NodeID {
	var out []NodeID
	t.Walk(id, func(n NodeID, _ int) bool {
		out = append(out, n)
		return true
	})
	return out
}

// ChildrenFunc returns the children of id accepted by keep.
func (t *Tree) ChildrenFunc(id NodeID, keep func(*Node) bool) []NodeID {
	var out []NodeID
	for _, c := range t.Children(id) {
		if keep(&t.nodes[c]) {
			out = append(out, c)
		}
	}
	return out
}
