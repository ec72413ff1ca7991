package conversation

// DepthFirstIterator walks a conversation tree in pre-order, visiting the
// children of each message in ascending sibling index. Iterating never
// mutates the tree, and every call to DepthFirst produces a fresh,
// independent iterator.
type DepthFirstIterator struct {
	tree  *ConversationTree
	stack []*Message
}

// DepthFirst returns a new iterator positioned at the root.
func (ct *ConversationTree) DepthFirst() *DepthFirstIterator {
	it := &DepthFirstIterator{tree: ct}
	if root := ct.Root(); root != nil {
		it.stack = append(it.stack, root)
	}
	return it
}

// Next returns the next message of the walk, or false when the tree is
// exhausted. After yielding a message its children are pushed highest index
// first, so the lowest-index child (and its whole subtree) is visited before
// the next sibling.
func (it *DepthFirstIterator) Next() (*Message, bool) {
	if len(it.stack) == 0 {
		return nil, false
	}

	current := it.stack[len(it.stack)-1]
	it.stack = it.stack[:len(it.stack)-1]

	children := it.tree.ChildrenOf(current.ID)
	for i := len(children) - 1; i >= 0; i-- {
		it.stack = append(it.stack, children[i])
	}

	return current, true
}
