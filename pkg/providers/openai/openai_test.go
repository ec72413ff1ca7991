package openai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-go-golems/arbor/pkg/conversation"
)

func TestMakeCompletionRequest(t *testing.T) {
	parameters, err := conversation.NewCompletionParameters(
		conversation.WithTemperature(0.5),
		conversation.WithSampleCount(2),
		conversation.WithModel(conversation.ModelGPT4),
		conversation.WithMaxTokens(128),
	)
	require.NoError(t, err)

	tree, err := conversation.NewConversationTree("system prompt")
	require.NoError(t, err)
	queries, err := tree.InsertChildren(tree.RootID, []string{"hello"}, conversation.RoleUser)
	require.NoError(t, err)

	thread, err := tree.Thread(queries[0].ID)
	require.NoError(t, err)

	req := MakeCompletionRequest(thread, parameters)

	assert.Equal(t, "gpt-4", req.Model)
	assert.Equal(t, 2, req.N)
	assert.Equal(t, 128, req.MaxTokens)
	assert.InDelta(t, 0.5, float64(req.Temperature), 1e-6)

	require.Len(t, req.Messages, 2)
	assert.Equal(t, "system", req.Messages[0].Role)
	assert.Equal(t, "system prompt", req.Messages[0].Content)
	assert.Equal(t, "user", req.Messages[1].Role)
	assert.Equal(t, "hello", req.Messages[1].Content)
}
