package conversation

import (
	"sort"

	"github.com/pkg/errors"
)

// ConversationTree stores all messages of a conversation as a flat arena
// keyed by node id. Parent-child relationships live in the parent id
// back-references of each message; child lists are derived on demand so the
// tree never holds cyclic pointers.
//
// The tree always contains exactly one root (a system message with no
// parent). It is not safe for concurrent mutation; see the package
// documentation for the single-writer contract.
type ConversationTree struct {
	Nodes  map[NodeID]*Message
	RootID NodeID
}

// NewConversationTree creates a tree containing a single system root message.
func NewConversationTree(systemContent string) (*ConversationTree, error) {
	root, err := newMessage(RoleSystem, systemContent, NullNode, 1)
	if err != nil {
		return nil, err
	}

	return &ConversationTree{
		Nodes:  map[NodeID]*Message{root.ID: root},
		RootID: root.ID,
	}, nil
}

// InsertChildren appends one message per content string under parentID, in
// input order, continuing the sibling numbering after any existing children.
// The insert is atomic: all inputs are validated before any message is added,
// so a failed call leaves the tree untouched.
func (ct *ConversationTree) InsertChildren(parentID NodeID, contents []string, role Role) ([]*Message, error) {
	if _, exists := ct.Nodes[parentID]; !exists {
		return nil, errors.Wrapf(ErrNotPartOfConversation, "parent %s", parentID)
	}

	nextIndex := len(ct.ChildrenOf(parentID)) + 1

	inserted := make([]*Message, 0, len(contents))
	for i, content := range contents {
		msg, err := newMessage(role, content, parentID, nextIndex+i)
		if err != nil {
			return nil, err
		}
		inserted = append(inserted, msg)
	}

	for _, msg := range inserted {
		ct.Nodes[msg.ID] = msg
	}

	return inserted, nil
}

// ChildrenOf returns all direct children of the given message, sorted by
// sibling index. A leaf or unknown id yields an empty slice.
func (ct *ConversationTree) ChildrenOf(id NodeID) []*Message {
	var children []*Message
	for _, msg := range ct.Nodes {
		if msg.ParentID == id {
			children = append(children, msg)
		}
	}

	sort.Slice(children, func(i, j int) bool {
		return children[i].SiblingIndex < children[j].SiblingIndex
	})
	return children
}

// SiblingsOf returns all messages sharing a parent with the given message,
// the message itself included. The root has no parent and is its own single
// sibling.
func (ct *ConversationTree) SiblingsOf(id NodeID) ([]*Message, error) {
	msg, exists := ct.Nodes[id]
	if !exists {
		return nil, errors.Wrapf(ErrNotPartOfConversation, "message %s", id)
	}

	if msg.ParentID == NullNode {
		return []*Message{msg}, nil
	}
	return ct.ChildrenOf(msg.ParentID), nil
}

// Root returns the unique system root of the tree.
func (ct *ConversationTree) Root() *Message {
	return ct.Nodes[ct.RootID]
}

// GetMessage looks up a message by id.
func (ct *ConversationTree) GetMessage(id NodeID) (*Message, bool) {
	msg, exists := ct.Nodes[id]
	return msg, exists
}

// Frontier returns the leaves of the tree, i.e. the most recent message of
// every branch. The result is sorted by id so that the order is stable for a
// given tree state.
func (ct *ConversationTree) Frontier() []*Message {
	parents := make(map[NodeID]struct{}, len(ct.Nodes))
	for _, msg := range ct.Nodes {
		if msg.ParentID != NullNode {
			parents[msg.ParentID] = struct{}{}
		}
	}

	var leaves []*Message
	for id, msg := range ct.Nodes {
		if _, isParent := parents[id]; !isParent {
			leaves = append(leaves, msg)
		}
	}

	sort.Slice(leaves, func(i, j int) bool {
		return leaves[i].ID.String() < leaves[j].ID.String()
	})
	return leaves
}

// PathTo returns the single linear conversation view anchored at the given
// message: the chain from the root down to the anchor, continued past the
// anchor by always following the lowest sibling index until a leaf is
// reached. Passing NullNode anchors at the root, yielding the leftmost
// thread of the whole tree.
func (ct *ConversationTree) PathTo(anchorID NodeID) ([]*Message, error) {
	if anchorID == NullNode {
		anchorID = ct.RootID
	}

	anchor, exists := ct.Nodes[anchorID]
	if !exists {
		return nil, errors.Wrapf(ErrNotPartOfConversation, "anchor %s", anchorID)
	}

	// Walk up to the root, then reverse into root -> anchor order.
	var path []*Message
	for current := anchor; ; {
		path = append(path, current)
		if current.ParentID == NullNode {
			break
		}
		parent, exists := ct.Nodes[current.ParentID]
		if !exists {
			return nil, errors.Wrapf(ErrCorruptConversation, "dangling parent %s of message %s", current.ParentID, current.ID)
		}
		current = parent
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	// Continue below the anchor along the lowest-index child.
	for current := anchor; ; {
		children := ct.ChildrenOf(current.ID)
		if len(children) == 0 {
			break
		}
		current = children[0]
		path = append(path, current)
	}

	return path, nil
}

// Thread returns the ancestor chain from the root to the given message,
// inclusive, in root-to-leaf order. This is the exact sequence sent to a
// completion provider; sibling branches are never included.
func (ct *ConversationTree) Thread(id NodeID) ([]*Message, error) {
	msg, exists := ct.Nodes[id]
	if !exists {
		return nil, errors.Wrapf(ErrNotPartOfConversation, "message %s", id)
	}

	var thread []*Message
	for current := msg; ; {
		thread = append([]*Message{current}, thread...)
		if current.ParentID == NullNode {
			break
		}
		parent, exists := ct.Nodes[current.ParentID]
		if !exists {
			return nil, errors.Wrapf(ErrCorruptConversation, "dangling parent %s of message %s", current.ParentID, current.ID)
		}
		current = parent
	}

	return thread, nil
}

// Validate checks the structural invariants of the tree: exactly one root
// with role system, every parent reference resolving within the tree, and
// positive sibling indices. On success the root id is rebound, which makes
// Validate the entry point for trees that were just deserialized.
func (ct *ConversationTree) Validate() error {
	if len(ct.Nodes) == 0 {
		return errors.Wrap(ErrCorruptConversation, "tree has no messages")
	}

	rootID := NullNode
	siblingIndices := map[NodeID]map[int]NodeID{}
	for id, msg := range ct.Nodes {
		if msg.ID != id {
			return errors.Wrapf(ErrCorruptConversation, "message %s stored under key %s", msg.ID, id)
		}
		if err := msg.Role.Validate(); err != nil {
			return err
		}
		if msg.Content == "" {
			return errors.Wrapf(ErrCorruptConversation, "message %s has no content", id)
		}
		if msg.SiblingIndex < 1 {
			return errors.Wrapf(ErrCorruptConversation, "message %s has sibling index %d", id, msg.SiblingIndex)
		}

		if msg.ParentID == NullNode {
			if rootID != NullNode {
				return errors.Wrapf(ErrCorruptConversation, "multiple roots: %s and %s", rootID, id)
			}
			if msg.Role != RoleSystem {
				return errors.Wrapf(ErrCorruptConversation, "root %s has role %s", id, msg.Role)
			}
			rootID = id
			continue
		}

		if _, exists := ct.Nodes[msg.ParentID]; !exists {
			return errors.Wrapf(ErrCorruptConversation, "message %s references unknown parent %s", id, msg.ParentID)
		}

		indices := siblingIndices[msg.ParentID]
		if indices == nil {
			indices = map[int]NodeID{}
			siblingIndices[msg.ParentID] = indices
		}
		if other, taken := indices[msg.SiblingIndex]; taken {
			return errors.Wrapf(ErrCorruptConversation, "messages %s and %s share sibling index %d", other, id, msg.SiblingIndex)
		}
		indices[msg.SiblingIndex] = id
	}

	if rootID == NullNode {
		return errors.Wrap(ErrCorruptConversation, "tree has no root")
	}

	ct.RootID = rootID
	return nil
}
