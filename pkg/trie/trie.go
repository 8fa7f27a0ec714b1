package trie

// Trie is an immutable handle to one version of the structure. The zero
// value is the empty trie. Handles are cheap to copy and safe to share,
// all operations leave the receiver's version intact.
type Trie struct {
	root *node
}

// New returns an empty trie.
func New() Trie {
	return Trie{}
}

// IsEmpty reports whether t holds no keys at all.
func (t Trie) IsEmpty() bool {
	return t.root == nil
}

// Get returns the value stored under key in t. The second return value
// is false when the key is absent; a value stored with a different type
// than T is reported as absent too, never as an error.
func Get[T any](t Trie, key []byte) (T, bool) {
	var zero T
	cur := t.root
	if cur == nil {
		return zero, false
	}
	for _, sym := range key {
		child, ok := cur.children[sym]
		if !ok {
			return zero, false
		}
		cur = child
	}
	if !cur.isValue {
		return zero, false
	}
	v, ok := cur.value.(T)
	if !ok {
		return zero, false
	}
	return v, true
}

// Put returns a new trie with value stored under key. The empty key is
// legal and addresses the value slot of the root. t itself and every
// other version derived from it are unaffected; nodes off the updated
// path are shared with the result, not copied.
func Put[T any](t Trie, key []byte, value T) Trie {
	if len(key) == 0 {
		var children map[byte]*node
		if t.root != nil {
			children = t.root.children
		}
		return Trie{root: newValueNode(children, value)}
	}

	var (
		visited []*node
		root    *node
	)
	if t.root == nil {
		root = newNode(nil)
	} else {
		// Record the original nodes along the matched part of the key,
		// stopping at end-of-key or at the first missing child.
		visited = make([]*node, 0, len(key))
		cur := t.root
		for _, sym := range key {
			child, ok := cur.children[sym]
			if !ok {
				break
			}
			cur = child
			visited = append(visited, cur)
		}
		root = t.root.clone()
	}

	// Clone the matched path. On a full match the terminal is not
	// cloned, it is rebuilt below as a value node keeping its subtree.
	parent := root
	clones := len(visited)
	if clones == len(key) {
		clones--
	}
	for i := 0; i < clones; i++ {
		c := visited[i].clone()
		parent.setChild(key[i], c)
		parent = c
	}

	if len(visited) == len(key) {
		old := visited[len(visited)-1]
		parent.setChild(key[len(key)-1], newValueNode(old.children, value))
		return Trie{root: root}
	}

	// Unmatched suffix: fresh plain nodes for every symbol except the
	// last one, which gets the new value node.
	for _, sym := range key[len(visited) : len(key)-1] {
		c := newNode(nil)
		parent.setChild(sym, c)
		parent = c
	}
	parent.setChild(key[len(key)-1], newValueNode(nil, value))
	return Trie{root: root}
}

// Remove returns a new trie without key. Removing an absent key (or a
// key whose node carries no value) is a no-op returning an equal trie.
// Plain nodes left with no children and no value are pruned, so no
// version ever retains dead routing chains; a trie emptied completely
// collapses to the canonical empty (rootless) trie.
func (t Trie) Remove(key []byte) Trie {
	if t.root == nil {
		return Trie{}
	}

	visited := make([]*node, 0, len(key))
	cur := t.root
	for _, sym := range key {
		visited = append(visited, cur)
		child, ok := cur.children[sym]
		if !ok {
			return t
		}
		cur = child
	}
	if !cur.isValue {
		return t
	}

	// Drop the value, then rebuild the path bottom-up, pruning children
	// that became dead weight on the way.
	n := newNode(cur.children)
	for i := len(visited) - 1; i >= 0; i-- {
		parent := visited[i].clone()
		if n.isDead() {
			parent.removeChild(key[i])
		} else {
			parent.setChild(key[i], n)
		}
		n = parent
	}
	if n.isDead() {
		return Trie{}
	}
	return Trie{root: n}
}
