package trie

// node is a single trie node. A node is mutated only between its
// construction and its publication as a part of some Trie, after that
// it is frozen: neither the children map nor the value is ever written
// again, which is what makes sharing nodes between versions safe.
type node struct {
	children map[byte]*node
	value    any
	isValue  bool
}

// newValueNode returns a value node holding v on top of the given
// children map. The map is attached as is, not copied: it either comes
// from an already frozen node or belongs exclusively to the caller.
func newValueNode(children map[byte]*node, v any) *node {
	return &node{
		children: children,
		value:    v,
		isValue:  true,
	}
}

// newNode returns a plain (routing) node on top of the given children
// map, dropping any value the previous owner of the map carried.
func newNode(children map[byte]*node) *node {
	return &node{children: children}
}

// clone returns a mutable copy of n: same variant, same value, own copy
// of the children map. The caller rewires the copy and freezes it into
// a new version, the original stays untouched.
func (n *node) clone() *node {
	c := &node{
		value:   n.value,
		isValue: n.isValue,
	}
	if len(n.children) > 0 {
		c.children = make(map[byte]*node, len(n.children))
		for sym, child := range n.children {
			c.children[sym] = child
		}
	}
	return c
}

// setChild links child under sym. Valid only on nodes that are not yet
// published.
func (n *node) setChild(sym byte, child *node) {
	if n.children == nil {
		n.children = make(map[byte]*node)
	}
	n.children[sym] = child
}

// removeChild drops the entry for sym. Valid only on nodes that are not
// yet published.
func (n *node) removeChild(sym byte) {
	delete(n.children, sym)
}

// isDead reports whether n carries neither a value nor children. Dead
// nodes are pruned on delete, only the root is allowed to stay in that
// state (and then only transiently, an all-empty root collapses to the
// absent-root empty trie).
func (n *node) isDead() bool {
	return !n.isValue && len(n.children) == 0
}
