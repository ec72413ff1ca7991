package conversation

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// NodeID identifies a single message within a conversation tree.
type NodeID uuid.UUID

// NullNode is the zero NodeID, used as the parent of the root message.
var NullNode = NodeID(uuid.Nil)

func NewNodeID() NodeID {
	return NodeID(uuid.New())
}

func ParseNodeID(s string) (NodeID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return NullNode, errors.Wrapf(err, "invalid node id %q", s)
	}
	return NodeID(id), nil
}

func (id NodeID) String() string {
	return uuid.UUID(id).String()
}

// IsZero reports whether the id is NullNode. yaml.v3 uses this for omitempty.
func (id NodeID) IsZero() bool {
	return uuid.UUID(id) == uuid.Nil
}

func (id NodeID) MarshalYAML() (interface{}, error) {
	return id.String(), nil
}

func (id *NodeID) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return errors.Wrapf(err, "invalid node id %q", s)
	}
	*id = NodeID(parsed)
	return nil
}

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

func (r Role) Validate() error {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return nil
	}
	return errors.Wrapf(ErrCorruptConversation, "unknown role %q", string(r))
}

// Message is a single node in the conversation tree. Messages are immutable
// once created; the tree only ever grows by inserting new messages.
type Message struct {
	ID       NodeID `yaml:"id"`
	ParentID NodeID `yaml:"parent_id,omitempty"`

	// SiblingIndex orders messages sharing the same parent. It starts at 1
	// and increases in creation order.
	SiblingIndex int `yaml:"sibling_index"`

	Role    Role   `yaml:"role"`
	Content string `yaml:"content"`
}

// newMessage builds a message and assigns it a fresh id. A missing parent is
// only allowed for the system root.
func newMessage(role Role, content string, parentID NodeID, siblingIndex int) (*Message, error) {
	if content == "" {
		return nil, ErrEmptyContent
	}
	if parentID == NullNode && role != RoleSystem {
		return nil, errors.Wrap(ErrInvalidMessageRole, "only a system message can be the root")
	}

	return &Message{
		ID:           NewNodeID(),
		ParentID:     parentID,
		SiblingIndex: siblingIndex,
		Role:         role,
		Content:      content,
	}, nil
}

func (m *Message) View() string {
	return fmt.Sprintf("[%s]: %s", m.Role, m.Content)
}
