package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

const defaultOllamaModel = "mistral"

// OllamaGenerator runs prompts against a local Ollama server.
type OllamaGenerator struct {
	llm llms.Model
}

func NewOllamaGenerator(model, serverURL string) (*OllamaGenerator, error) {
	if model == "" {
		model = defaultOllamaModel
	}
	opts := []ollama.Option{ollama.WithModel(model)}
	if serverURL != "" {
		opts = append(opts, ollama.WithServerURL(serverURL))
	}
	llm, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: ollama client: %v", ErrGenerationFailed, err)
	}
	return &OllamaGenerator{llm: llm}, nil
}

func (o *OllamaGenerator) Generate(ctx context.Context, prompt string, opts GenerationOptions) (string, error) {
	var callOpts []llms.CallOption
	if opts.Temperature > 0 {
		callOpts = append(callOpts, llms.WithTemperature(opts.Temperature))
	}
	if opts.TopP > 0 {
		callOpts = append(callOpts, llms.WithTopP(opts.TopP))
	}
	if opts.MaxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(opts.MaxTokens))
	}

	out, err := llms.GenerateFromSinglePrompt(ctx, o.llm, prompt, callOpts...)
	if err != nil {
		return "", fmt.Errorf("%w: ollama generate: %v", ErrGenerationFailed, err)
	}
	if strings.TrimSpace(out) == "" {
		return "", ErrEmptyGeneration
	}
	return out, nil
}
