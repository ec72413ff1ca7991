package conversation

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Conversation is the aggregate a caller works with: a message tree plus the
// default completion parameters, a display name, and the file the
// conversation is stored at. The conversation exclusively owns its tree;
// callers only ever see messages looked up through it.
type Conversation struct {
	Tree              *ConversationTree
	DefaultParameters CompletionParameters

	name string
	path string
}

// BuildConversation creates a conversation with a fresh tree seeded by the
// given system message. The name starts empty; the conversation has a path
// but has not been written to disk yet.
func BuildConversation(parameters CompletionParameters, path string, systemContent string) (*Conversation, error) {
	if err := parameters.Validate(); err != nil {
		return nil, err
	}

	tree, err := NewConversationTree(systemContent)
	if err != nil {
		return nil, err
	}

	return &Conversation{
		Tree:              tree,
		DefaultParameters: parameters,
		path:              path,
	}, nil
}

func (c *Conversation) Name() string {
	return c.name
}

// SetName replaces the conversation name and returns the previous one, so a
// caller can restore it if a later step fails.
func (c *Conversation) SetName(name string) string {
	previous := c.name
	c.name = name
	return previous
}

func (c *Conversation) Path() string {
	return c.path
}

// AddQueries appends one user message per query under the given parent, in
// input order. The parent must be a system or assistant message: rejecting
// queries under a user message keeps the roles alternating along every
// branch.
func (c *Conversation) AddQueries(parentID NodeID, queries []string) ([]*Message, error) {
	parent, exists := c.Tree.GetMessage(parentID)
	if !exists {
		return nil, errors.Wrapf(ErrNotPartOfConversation, "parent %s", parentID)
	}

	if parent.Role != RoleSystem && parent.Role != RoleAssistant {
		return nil, errors.Wrapf(ErrInvalidMessageRole, "cannot add queries under a %s message", parent.Role)
	}

	inserted, err := c.Tree.InsertChildren(parentID, queries, RoleUser)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("parent_id", parentID.String()).
		Int("count", len(inserted)).
		Msg("added queries to conversation")

	return inserted, nil
}

// Complete sends the thread ending at the given user message to the provider
// and inserts every returned sample as an assistant child of that message.
// A nil sampleCount uses the conversation defaults.
//
// The provider call is the only suspend point; the tree must not be mutated
// while it is outstanding. On any failure nothing is inserted, so the same
// call can be retried.
func (c *Conversation) Complete(ctx context.Context, messageID NodeID, provider Provider, sampleCount *int) ([]*Message, error) {
	msg, exists := c.Tree.GetMessage(messageID)
	if !exists {
		return nil, errors.Wrapf(ErrNotPartOfConversation, "message %s", messageID)
	}
	if msg.Role != RoleUser {
		return nil, errors.Wrapf(ErrInvalidMessageRole, "can only complete a user message, got %s", msg.Role)
	}

	thread, err := c.Tree.Thread(messageID)
	if err != nil {
		return nil, err
	}

	parameters := c.DefaultParameters
	if sampleCount != nil {
		parameters = parameters.WithN(*sampleCount)
	}

	log.Debug().
		Str("message_id", messageID.String()).
		Int("thread_length", len(thread)).
		Int("n", parameters.N).
		Str("model", string(parameters.Model)).
		Msg("requesting completion")

	responses, err := provider.Complete(ctx, thread, parameters)
	if err != nil {
		return nil, errors.Wrapf(ErrCompletionFailed, "provider call: %v", err)
	}

	// Providers occasionally return choices with no content. Those are
	// dropped rather than turned into empty messages.
	contents := make([]string, 0, len(responses))
	for _, response := range responses {
		if response != "" {
			contents = append(contents, response)
		}
	}
	if len(contents) == 0 {
		return nil, errors.Wrap(ErrCompletionFailed, "no choices returned")
	}

	inserted, err := c.Tree.InsertChildren(messageID, contents, RoleAssistant)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("message_id", messageID.String()).
		Int("response_count", len(inserted)).
		Msg("completion inserted")

	return inserted, nil
}

// LatestMessages returns the frontier of the tree: the most recent message
// of every branch.
func (c *Conversation) LatestMessages() []*Message {
	return c.Tree.Frontier()
}

// MessageList returns the linear conversation view anchored at the given
// message id; NullNode anchors at the root.
func (c *Conversation) MessageList(anchorID NodeID) ([]*Message, error) {
	return c.Tree.PathTo(anchorID)
}

// Siblings returns the messages sharing a parent with the given message,
// itself included.
func (c *Conversation) Siblings(id NodeID) ([]*Message, error) {
	return c.Tree.SiblingsOf(id)
}

// RootMessage returns the system root of the conversation.
func (c *Conversation) RootMessage() *Message {
	return c.Tree.Root()
}

// GetMessage looks up a message by id.
func (c *Conversation) GetMessage(id NodeID) (*Message, bool) {
	return c.Tree.GetMessage(id)
}

// DepthFirst returns a fresh pre-order iterator over the whole tree.
func (c *Conversation) DepthFirst() *DepthFirstIterator {
	return c.Tree.DepthFirst()
}

// conversationDocument is the persisted layout of a conversation. The path
// is deliberately not part of it: files move, so the path is rebound on load.
type conversationDocument struct {
	DefaultParameters CompletionParameters `yaml:"default_parameters"`
	Interactions      map[string]*Message  `yaml:"interactions"`
	Name              string               `yaml:"name,omitempty"`
}

// Save serializes the conversation to its path as YAML.
func (c *Conversation) Save() error {
	doc := conversationDocument{
		DefaultParameters: c.DefaultParameters,
		Interactions:      make(map[string]*Message, len(c.Tree.Nodes)),
		Name:              c.name,
	}
	for id, msg := range c.Tree.Nodes {
		doc.Interactions[id.String()] = msg
	}

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return errors.Wrapf(err, "could not serialize conversation %q", c.name)
	}

	if err := os.WriteFile(c.path, data, 0644); err != nil {
		return errors.Wrapf(err, "could not write conversation to %s", c.path)
	}

	log.Debug().
		Str("path", c.path).
		Int("message_count", len(c.Tree.Nodes)).
		Msg("saved conversation")

	return nil
}

// LoadConversation reads a conversation from the given path. The loaded
// aggregate is validated before it is returned: a document without a unique
// system root or with dangling parent references fails with
// ErrCorruptConversation. The in-memory path is bound to the path used here,
// never to a stale persisted value.
func LoadConversation(path string) (*Conversation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read conversation from %s", path)
	}

	var doc conversationDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(ErrCorruptConversation, "could not parse %s: %v", path, err)
	}

	tree := &ConversationTree{Nodes: make(map[NodeID]*Message, len(doc.Interactions))}
	for key, msg := range doc.Interactions {
		id, err := ParseNodeID(key)
		if err != nil {
			return nil, errors.Wrapf(ErrCorruptConversation, "bad interaction key %q", key)
		}
		tree.Nodes[id] = msg
	}

	if err := tree.Validate(); err != nil {
		return nil, err
	}

	if err := doc.DefaultParameters.Validate(); err != nil {
		return nil, errors.Wrapf(ErrCorruptConversation, "bad default parameters: %v", err)
	}

	return &Conversation{
		Tree:              tree,
		DefaultParameters: doc.DefaultParameters,
		name:              doc.Name,
		path:              path,
	}, nil
}
