package conversation

import "github.com/pkg/errors"

var (
	// ErrEmptyContent is returned when a message would be created without content.
	ErrEmptyContent = errors.New("message must have content")

	// ErrInvalidTemperature is returned when completion parameters are built
	// with a temperature outside [0.0, 2.0].
	ErrInvalidTemperature = errors.New("temperature must be between 0.0 and 2.0")

	// ErrUnknownModel is returned when a completion model string does not map
	// to a known model.
	ErrUnknownModel = errors.New("unknown completion model")

	// ErrNotPartOfConversation is returned when a message id does not resolve
	// within the tree.
	ErrNotPartOfConversation = errors.New("message is not part of the conversation")

	// ErrInvalidMessageRole is returned when an operation targets a message
	// with the wrong role, e.g. completing anything but a user message.
	ErrInvalidMessageRole = errors.New("invalid message role for this operation")

	// ErrCompletionFailed is returned when the completion provider fails or
	// returns no choices. No messages are inserted in that case, so the same
	// call can simply be retried.
	ErrCompletionFailed = errors.New("completion failed")

	// ErrCorruptConversation is returned when a loaded conversation violates
	// the tree invariants (no unique root, dangling parents). It is fatal for
	// that conversation instance and is never silently repaired.
	ErrCorruptConversation = errors.New("corrupt conversation")
)
