package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletionParameterDefaults(t *testing.T) {
	p, err := NewCompletionParameters()
	require.NoError(t, err)

	assert.Equal(t, 1.0, p.Temperature)
	assert.Equal(t, 1, p.N)
	assert.Equal(t, ModelGPT35, p.Model)
	assert.Equal(t, 512, p.MaxTokens)
}

func TestCompletionParameterTemperatureRange(t *testing.T) {
	_, err := NewCompletionParameters(WithTemperature(2.1))
	require.ErrorIs(t, err, ErrInvalidTemperature)

	_, err = NewCompletionParameters(WithTemperature(-0.1))
	require.ErrorIs(t, err, ErrInvalidTemperature)

	// The bounds themselves are valid.
	_, err = NewCompletionParameters(WithTemperature(0.0))
	require.NoError(t, err)
	_, err = NewCompletionParameters(WithTemperature(2.0))
	require.NoError(t, err)
}

func TestCompletionParameterUnknownModel(t *testing.T) {
	_, err := NewCompletionParameters(WithModel("gpt-99"))
	require.ErrorIs(t, err, ErrUnknownModel)
}

func TestWithNDoesNotMutateReceiver(t *testing.T) {
	p, err := NewCompletionParameters(WithSampleCount(1))
	require.NoError(t, err)

	override := p.WithN(5)
	assert.Equal(t, 5, override.N)
	assert.Equal(t, 1, p.N)
}
