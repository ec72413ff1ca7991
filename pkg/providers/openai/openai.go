// Package openai implements the conversation.Provider interface on top of
// the OpenAI chat completions API.
package openai

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	go_openai "github.com/sashabaranov/go-openai"

	"github.com/go-go-golems/arbor/pkg/conversation"
)

type Provider struct {
	client *go_openai.Client
}

var _ conversation.Provider = (*Provider)(nil)

type Option func(*go_openai.ClientConfig)

// WithBaseURL points the client at an OpenAI-compatible endpoint.
func WithBaseURL(baseURL string) Option {
	return func(cfg *go_openai.ClientConfig) {
		cfg.BaseURL = baseURL
	}
}

func New(apiKey string, options ...Option) *Provider {
	cfg := go_openai.DefaultConfig(apiKey)
	for _, option := range options {
		option(&cfg)
	}

	return &Provider{
		client: go_openai.NewClientWithConfig(cfg),
	}
}

// MakeCompletionRequest converts a root-to-leaf thread and parameters into a
// chat completion request.
func MakeCompletionRequest(
	thread []*conversation.Message,
	parameters conversation.CompletionParameters,
) go_openai.ChatCompletionRequest {
	msgs := make([]go_openai.ChatCompletionMessage, 0, len(thread))
	for _, msg := range thread {
		msgs = append(msgs, go_openai.ChatCompletionMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	return go_openai.ChatCompletionRequest{
		Model:       string(parameters.Model),
		Messages:    msgs,
		N:           parameters.N,
		MaxTokens:   parameters.MaxTokens,
		Temperature: float32(parameters.Temperature),
	}
}

// Complete sends the thread as a chat completion request and returns the
// content of every choice, in API order.
func (p *Provider) Complete(
	ctx context.Context,
	thread []*conversation.Message,
	parameters conversation.CompletionParameters,
) ([]string, error) {
	req := MakeCompletionRequest(thread, parameters)

	log.Debug().
		Str("model", req.Model).
		Int("n", req.N).
		Int("message_count", len(req.Messages)).
		Msg("sending chat completion request")

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, errors.Wrap(err, "chat completion request failed")
	}

	responses := make([]string, 0, len(resp.Choices))
	for _, choice := range resp.Choices {
		responses = append(responses, choice.Message.Content)
	}

	log.Debug().
		Int("choice_count", len(responses)).
		Msg("received chat completion response")

	return responses, nil
}
