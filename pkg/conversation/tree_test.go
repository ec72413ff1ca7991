package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConversationTreeHasSingleSystemRoot(t *testing.T) {
	tree, err := NewConversationTree("You are a helpful assistant")
	require.NoError(t, err)

	root := tree.Root()
	require.NotNil(t, root)
	assert.Equal(t, RoleSystem, root.Role)
	assert.Equal(t, "You are a helpful assistant", root.Content)
	assert.Equal(t, NullNode, root.ParentID)

	frontier := tree.Frontier()
	require.Len(t, frontier, 1)
	assert.Equal(t, root, frontier[0])
}

func TestNewConversationTreeRejectsEmptySystemContent(t *testing.T) {
	_, err := NewConversationTree("")
	require.ErrorIs(t, err, ErrEmptyContent)
}

func TestInsertChildrenAssignsConsecutiveSiblingIndices(t *testing.T) {
	tree, err := NewConversationTree("system")
	require.NoError(t, err)

	inserted, err := tree.InsertChildren(tree.RootID, []string{"Q1", "Q2", "Q3"}, RoleUser)
	require.NoError(t, err)
	require.Len(t, inserted, 3)
	for i, msg := range inserted {
		assert.Equal(t, i+1, msg.SiblingIndex)
		assert.Equal(t, RoleUser, msg.Role)
		assert.Equal(t, tree.RootID, msg.ParentID)
	}

	// A later insert continues the numbering after the existing children.
	more, err := tree.InsertChildren(tree.RootID, []string{"Q4"}, RoleUser)
	require.NoError(t, err)
	require.Len(t, more, 1)
	assert.Equal(t, 4, more[0].SiblingIndex)
}

func TestInsertChildrenUnknownParent(t *testing.T) {
	tree, err := NewConversationTree("system")
	require.NoError(t, err)

	_, err = tree.InsertChildren(NewNodeID(), []string{"Q1"}, RoleUser)
	require.ErrorIs(t, err, ErrNotPartOfConversation)
}

func TestInsertChildrenIsAtomicOnEmptyContent(t *testing.T) {
	tree, err := NewConversationTree("system")
	require.NoError(t, err)

	_, err = tree.InsertChildren(tree.RootID, []string{"Q1", "", "Q3"}, RoleUser)
	require.ErrorIs(t, err, ErrEmptyContent)

	// Nothing was inserted, not even Q1.
	assert.Len(t, tree.Nodes, 1)
	assert.Empty(t, tree.ChildrenOf(tree.RootID))
}

func TestChildrenOfSortsBySiblingIndex(t *testing.T) {
	tree, err := NewConversationTree("system")
	require.NoError(t, err)

	_, err = tree.InsertChildren(tree.RootID, []string{"Q1", "Q2", "Q3"}, RoleUser)
	require.NoError(t, err)

	children := tree.ChildrenOf(tree.RootID)
	require.Len(t, children, 3)
	for i, child := range children {
		assert.Equal(t, i+1, child.SiblingIndex)
	}
}

func TestSiblingsOfIncludesSelf(t *testing.T) {
	tree, err := NewConversationTree("system")
	require.NoError(t, err)

	inserted, err := tree.InsertChildren(tree.RootID, []string{"Q1", "Q2"}, RoleUser)
	require.NoError(t, err)

	siblings, err := tree.SiblingsOf(inserted[0].ID)
	require.NoError(t, err)
	require.Len(t, siblings, 2)
	assert.Contains(t, siblings, inserted[0])
	assert.Contains(t, siblings, inserted[1])
}

func TestSiblingsOfRootIsItself(t *testing.T) {
	tree, err := NewConversationTree("system")
	require.NoError(t, err)

	siblings, err := tree.SiblingsOf(tree.RootID)
	require.NoError(t, err)
	require.Len(t, siblings, 1)
	assert.Equal(t, tree.Root(), siblings[0])
}

func TestSiblingsOfUnknownID(t *testing.T) {
	tree, err := NewConversationTree("system")
	require.NoError(t, err)

	_, err = tree.SiblingsOf(NewNodeID())
	require.ErrorIs(t, err, ErrNotPartOfConversation)
}

func TestFrontierNeverContainsParents(t *testing.T) {
	tree, err := NewConversationTree("system")
	require.NoError(t, err)

	queries, err := tree.InsertChildren(tree.RootID, []string{"Q1", "Q2"}, RoleUser)
	require.NoError(t, err)
	_, err = tree.InsertChildren(queries[0].ID, []string{"A1", "A2"}, RoleAssistant)
	require.NoError(t, err)

	frontier := tree.Frontier()
	// Q2, A1, A2 are leaves; the root and Q1 are parents.
	require.Len(t, frontier, 3)

	parents := map[NodeID]struct{}{}
	for _, msg := range tree.Nodes {
		if msg.ParentID != NullNode {
			parents[msg.ParentID] = struct{}{}
		}
	}
	for _, leaf := range frontier {
		_, isParent := parents[leaf.ID]
		assert.Falsef(t, isParent, "frontier contains parent %s", leaf.ID)
	}
}

func TestPathToWalksThroughAnchorToLeftmostLeaf(t *testing.T) {
	tree, err := NewConversationTree("system")
	require.NoError(t, err)

	queries, err := tree.InsertChildren(tree.RootID, []string{"Q1", "Q2"}, RoleUser)
	require.NoError(t, err)
	answers, err := tree.InsertChildren(queries[0].ID, []string{"A1", "A2"}, RoleAssistant)
	require.NoError(t, err)
	_, err = tree.InsertChildren(answers[1].ID, []string{"Q3"}, RoleUser)
	require.NoError(t, err)

	// Anchoring at A2 keeps the anchor on the path even though A1 has the
	// lower sibling index, and continues below it to Q3.
	path, err := tree.PathTo(answers[1].ID)
	require.NoError(t, err)

	var contents []string
	for _, msg := range path {
		contents = append(contents, msg.Content)
	}
	assert.Equal(t, []string{"system", "Q1", "A2", "Q3"}, contents)

	// Consecutive elements are parent -> child.
	for i := 1; i < len(path); i++ {
		assert.Equal(t, path[i-1].ID, path[i].ParentID)
	}
}

func TestPathToWithoutAnchorFollowsLowestIndexChild(t *testing.T) {
	tree, err := NewConversationTree("system")
	require.NoError(t, err)

	queries, err := tree.InsertChildren(tree.RootID, []string{"Q1", "Q2"}, RoleUser)
	require.NoError(t, err)
	_, err = tree.InsertChildren(queries[0].ID, []string{"A1", "A2"}, RoleAssistant)
	require.NoError(t, err)

	path, err := tree.PathTo(NullNode)
	require.NoError(t, err)

	var contents []string
	for _, msg := range path {
		contents = append(contents, msg.Content)
	}
	assert.Equal(t, []string{"system", "Q1", "A1"}, contents)
}

func TestPathToUnknownAnchor(t *testing.T) {
	tree, err := NewConversationTree("system")
	require.NoError(t, err)

	_, err = tree.PathTo(NewNodeID())
	require.ErrorIs(t, err, ErrNotPartOfConversation)
}

func TestThreadReturnsRootToMessageChain(t *testing.T) {
	tree, err := NewConversationTree("system")
	require.NoError(t, err)

	queries, err := tree.InsertChildren(tree.RootID, []string{"Q1", "Q2"}, RoleUser)
	require.NoError(t, err)
	answers, err := tree.InsertChildren(queries[1].ID, []string{"A1"}, RoleAssistant)
	require.NoError(t, err)

	thread, err := tree.Thread(answers[0].ID)
	require.NoError(t, err)

	var contents []string
	for _, msg := range thread {
		contents = append(contents, msg.Content)
	}
	// Sibling branches (Q1) are not part of the thread.
	assert.Equal(t, []string{"system", "Q2", "A1"}, contents)
}

func TestValidateRejectsDanglingParent(t *testing.T) {
	tree, err := NewConversationTree("system")
	require.NoError(t, err)

	orphan := &Message{
		ID:           NewNodeID(),
		ParentID:     NewNodeID(),
		SiblingIndex: 1,
		Role:         RoleUser,
		Content:      "orphan",
	}
	tree.Nodes[orphan.ID] = orphan

	require.ErrorIs(t, tree.Validate(), ErrCorruptConversation)
}

func TestValidateRejectsMultipleRoots(t *testing.T) {
	tree, err := NewConversationTree("system")
	require.NoError(t, err)

	second := &Message{
		ID:           NewNodeID(),
		ParentID:     NullNode,
		SiblingIndex: 1,
		Role:         RoleSystem,
		Content:      "another root",
	}
	tree.Nodes[second.ID] = second

	require.ErrorIs(t, tree.Validate(), ErrCorruptConversation)
}

func TestValidateRejectsDuplicateSiblingIndex(t *testing.T) {
	tree, err := NewConversationTree("system")
	require.NoError(t, err)

	for _, content := range []string{"Q1", "Q2"} {
		msg := &Message{
			ID:           NewNodeID(),
			ParentID:     tree.RootID,
			SiblingIndex: 1,
			Role:         RoleUser,
			Content:      content,
		}
		tree.Nodes[msg.ID] = msg
	}

	require.ErrorIs(t, tree.Validate(), ErrCorruptConversation)
}

func TestValidateRebindsRootID(t *testing.T) {
	tree, err := NewConversationTree("system")
	require.NoError(t, err)

	rootID := tree.RootID
	tree.RootID = NullNode

	require.NoError(t, tree.Validate())
	assert.Equal(t, rootID, tree.RootID)
}
