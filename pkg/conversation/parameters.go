package conversation

import (
	"github.com/huandu/go-clone"
	"github.com/pkg/errors"
)

// CompletionModel identifies a chat completion model by its canonical wire
// string, as listed in the OpenAI model endpoint compatibility table.
type CompletionModel string

const (
	ModelGPT35    CompletionModel = "gpt-3.5-turbo"
	ModelGPT3516K CompletionModel = "gpt-3.5-turbo-16k"
	ModelGPT4     CompletionModel = "gpt-4"
	ModelGPT432K  CompletionModel = "gpt-4-32k"
)

func (m CompletionModel) Validate() error {
	switch m {
	case ModelGPT35, ModelGPT3516K, ModelGPT4, ModelGPT432K:
		return nil
	}
	return errors.Wrapf(ErrUnknownModel, "%q", string(m))
}

// CompletionParameters configure a single completion request. They are built
// once, validated on construction, and never mutated in place: per-call
// overrides produce a fresh copy.
type CompletionParameters struct {
	Temperature float64         `yaml:"temperature"`
	N           int             `yaml:"n"`
	Model       CompletionModel `yaml:"model"`
	MaxTokens   int             `yaml:"max_tokens"`
}

type ParameterOption func(*CompletionParameters)

func WithTemperature(temperature float64) ParameterOption {
	return func(p *CompletionParameters) {
		p.Temperature = temperature
	}
}

func WithSampleCount(n int) ParameterOption {
	return func(p *CompletionParameters) {
		p.N = n
	}
}

func WithModel(model CompletionModel) ParameterOption {
	return func(p *CompletionParameters) {
		p.Model = model
	}
}

func WithMaxTokens(maxTokens int) ParameterOption {
	return func(p *CompletionParameters) {
		p.MaxTokens = maxTokens
	}
}

// NewCompletionParameters returns validated parameters. Defaults are
// temperature 1.0, a single sample, gpt-3.5-turbo and 512 output tokens.
func NewCompletionParameters(options ...ParameterOption) (CompletionParameters, error) {
	p := CompletionParameters{
		Temperature: 1.0,
		N:           1,
		Model:       ModelGPT35,
		MaxTokens:   512,
	}
	for _, option := range options {
		option(&p)
	}

	if err := p.Validate(); err != nil {
		return CompletionParameters{}, err
	}
	return p, nil
}

func (p CompletionParameters) Validate() error {
	if p.Temperature < 0.0 || p.Temperature > 2.0 {
		return errors.Wrapf(ErrInvalidTemperature, "got %v", p.Temperature)
	}
	if p.N < 1 {
		return errors.Errorf("sample count must be positive, got %d", p.N)
	}
	if p.MaxTokens < 1 {
		return errors.Errorf("max tokens must be positive, got %d", p.MaxTokens)
	}
	return p.Model.Validate()
}

// Clone returns a deep copy of the parameters.
func (p CompletionParameters) Clone() CompletionParameters {
	return clone.Clone(p).(CompletionParameters)
}

// WithN returns a copy of the parameters with the sample count replaced. The
// receiver is left untouched.
func (p CompletionParameters) WithN(n int) CompletionParameters {
	ret := p.Clone()
	ret.N = n
	return ret
}
