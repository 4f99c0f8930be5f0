package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"datamilo/config"
	"datamilo/logger"
)

var (
	ErrGenerationFailed   = errors.New("GENERATION_FAILED")
	ErrEmptyGeneration    = errors.New("EMPTY_GENERATION")
	ErrValidationRejected = errors.New("VALIDATION_REJECTED")
)

// GenerationOptions are the sampling parameters of one request. Zero
// values leave the provider default in place.
type GenerationOptions struct {
	Temperature float64
	TopP        float64
	MaxTokens   int
}

// Generator turns a prompt into free text. Implementations wrap transport
// failures in ErrGenerationFailed and report blank output as
// ErrEmptyGeneration.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts GenerationOptions) (string, error)
}

// NewGenerator builds the configured provider, or returns nil when text
// generation is disabled.
func NewGenerator(cfg config.LLMConfig, log logger.Logger) (Generator, error) {
	var (
		gen Generator
		err error
	)
	switch cfg.Provider {
	case config.ProviderNone, "":
		return nil, nil
	case config.ProviderHuggingFace:
		gen = NewHuggingFaceGenerator(cfg.APIKey, cfg.Model)
	case config.ProviderOpenAI:
		gen = NewOpenAIGenerator(cfg.APIKey, cfg.Model, cfg.BaseURL)
	case config.ProviderOllama:
		gen, err = NewOllamaGenerator(cfg.Model, cfg.BaseURL)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", config.ErrInvalidConfig, cfg.Provider)
	}

	log.Info("Text generation enabled", map[string]interface{}{
		"provider": cfg.Provider,
		"model":    cfg.Model,
	})
	return WithTimeout(gen, cfg.Timeout), nil
}

type timeoutGenerator struct {
	next    Generator
	timeout time.Duration
}

// WithTimeout bounds every Generate call of next by timeout.
func WithTimeout(next Generator, timeout time.Duration) Generator {
	if timeout <= 0 {
		return next
	}
	return &timeoutGenerator{next: next, timeout: timeout}
}

func (t *timeoutGenerator) Generate(ctx context.Context, prompt string, opts GenerationOptions) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.Generate(ctx, prompt, opts)
}
