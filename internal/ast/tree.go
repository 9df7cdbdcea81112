package ast

import (
	"errors"
	"fmt"

	"fortio.org/safecast"
)

var (
	// ErrInvalidNode: an id that was never allocated.
	ErrInvalidNode = errors.New("invalid node id")
	// ErrAttached: the node already has a parent or siblings.
	ErrAttached = errors.New("node is attached")
	// ErrNoParent: sibling insertion next to a node without a parent.
	ErrNoParent = errors.New("node has no parent")
	// ErrCycle: the edit would make a node its own ancestor.
	ErrCycle = errors.New("edit would create a cycle")
)

// Tree is an arena of nodes with parent/child/sibling links.
// Index 0 is reserved so that NoNodeID never aliases a real node.
type Tree struct {
	nodes []Node
	root  NodeID
	meta  map[NodeID]NodeID
}

// NewTree creates an empty tree.
func NewTree(capHint int) *Tree {
	return &Tree{
		nodes: make([]Node, 1, capHint+1),
		meta:  make(map[NodeID]NodeID),
	}
}

// Len is the number of allocated nodes, detached ones included.
func (t *Tree) Len() int { return len(t.nodes) - 1 }

// Root returns the root id.
func (t *Tree) Root() NodeID { return t.root }

// SetRoot marks id as the root.
func (t *Tree) SetRoot(id NodeID) { t.root = id }

// New allocates a detached node and returns its id.
func (t *Tree) New(n Node) NodeID {
	raw, err := safecast.Conv[uint32](len(t.nodes))
	if err != nil {
		panic(fmt.Errorf("node id overflow: %w", err))
	}
	n.parent, n.first, n.last, n.prev, n.next = NoNodeID, NoNodeID, NoNodeID, NoNodeID, NoNodeID
	t.nodes = append(t.nodes, n)
	return NodeID(raw)
}

// Get returns the node for id, or nil.
func (t *Tree) Get(id NodeID) *Node {
	if id == NoNodeID || int(id) >= len(t.nodes) {
		return nil
	}
	return &t.nodes[id]
}

// Kind is a shortcut for Get(id).Kind; invalid ids give KindInvalid.
func (t *Tree) Kind(id NodeID) Kind {
	if n := t.Get(id); n != nil {
		return n.Kind
	}
	return KindInvalid
}

// SetKind rewrites the kind tag in place.
func (t *Tree) SetKind(id NodeID, k Kind) {
	if n := t.Get(id); n != nil {
		n.Kind = k
	}
}

// Children returns the ordered child ids of id.
func (t *Tree) Children(id NodeID) []NodeID {
	n := t.Get(id)
	if n == nil {
		return nil
	}
	var out []NodeID
	for c := n.first; c != NoNodeID; c = t.nodes[c].next {
		out = append(out, c)
	}
	return out
}

// Append adds a detached child as the last child of parent.
func (t *Tree) Append(parent, child NodeID) error {
	p, c, err := t.pair(parent, child)
	if err != nil {
		return err
	}
	if err := t.checkDetached(child, c); err != nil {
		return err
	}
	if t.isAncestor(child, parent) {
		return fmt.Errorf("append %d under %d: %w", child, parent, ErrCycle)
	}
	c.parent = parent
	c.prev = p.last
	if p.last != NoNodeID {
		t.nodes[p.last].next = child
	} else {
		p.first = child
	}
	p.last = child
	return nil
}

// InsertBefore places a detached node right before sibling.
func (t *Tree) InsertBefore(sibling, node NodeID) error {
	s, n, err := t.pair(sibling, node)
	if err != nil {
		return err
	}
	if err := t.checkDetached(node, n); err != nil {
		return err
	}
	if s.parent == NoNodeID {
		return fmt.Errorf("insert before %d: %w", sibling, ErrNoParent)
	}
	if t.isAncestor(node, s.parent) {
		return fmt.Errorf("insert %d before %d: %w", node, sibling, ErrCycle)
	}
	n.parent = s.parent
	n.next = sibling
	n.prev = s.prev
	if s.prev != NoNodeID {
		t.nodes[s.prev].next = node
	} else {
		t.nodes[s.parent].first = node
	}
	s.prev = node
	return nil
}

// InsertAfter places a detached node right after sibling.
func (t *Tree) InsertAfter(sibling, node NodeID) error {
	s, n, err := t.pair(sibling, node)
	if err != nil {
		return err
	}
	if err := t.checkDetached(node, n); err != nil {
		return err
	}
	if s.parent == NoNodeID {
		return fmt.Errorf("insert after %d: %w", sibling, ErrNoParent)
	}
	if t.isAncestor(node, s.parent) {
		return fmt.Errorf("insert %d after %d: %w", node, sibling, ErrCycle)
	}
	n.parent = s.parent
	n.prev = sibling
	n.next = s.next
	if s.next != NoNodeID {
		t.nodes[s.next].prev = node
	} else {
		t.nodes[s.parent].last = node
	}
	s.next = node
	return nil
}

// Detach unlinks id (with its subtree) from its parent and siblings.
// The node and its id stay valid.
func (t *Tree) Detach(id NodeID) error {
	n := t.Get(id)
	if n == nil {
		return fmt.Errorf("detach %d: %w", id, ErrInvalidNode)
	}
	if n.prev != NoNodeID {
		t.nodes[n.prev].next = n.next
	} else if n.parent != NoNodeID {
		t.nodes[n.parent].first = n.next
	}
	if n.next != NoNodeID {
		t.nodes[n.next].prev = n.prev
	} else if n.parent != NoNodeID {
		t.nodes[n.parent].last = n.prev
	}
	n.parent, n.prev, n.next = NoNodeID, NoNodeID, NoNodeID
	if t.root == id {
		t.root = NoNodeID
	}
	return nil
}

// SetMeta attaches a metadata subtree to owner. The subtree stays detached
// from the main tree, so walks never visit it.
func (t *Tree) SetMeta(owner, meta NodeID) error {
	if t.Get(owner) == nil || t.Get(meta) == nil {
		return fmt.Errorf("set meta %d on %d: %w", meta, owner, ErrInvalidNode)
	}
	t.meta[owner] = meta
	return nil
}

// Meta returns the metadata subtree of owner.
func (t *Tree) Meta(owner NodeID) (NodeID, bool) {
	m, ok := t.meta[owner]
	return m, ok
}

func (t *Tree) pair(a, b NodeID) (*Node, *Node, error) {
	na, nb := t.Get(a), t.Get(b)
	if na == nil || nb == nil || a == b {
		return nil, nil, fmt.Errorf("nodes %d, %d: %w", a, b, ErrInvalidNode)
	}
	return na, nb, nil
}

func (t *Tree) checkDetached(id NodeID, n *Node) error {
	if n.parent != NoNodeID || n.prev != NoNodeID || n.next != NoNodeID || t.root == id {
		return fmt.Errorf("node %d: %w", id, ErrAttached)
	}
	return nil
}

// isAncestor reports whether a is b or an ancestor of b.
func (t *Tree) isAncestor(a, b NodeID) bool {
	for cur := b; cur != NoNodeID; cur = t.nodes[cur].parent {
		if cur == a {
			return true
		}
	}
	return false
}
