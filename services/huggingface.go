package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/go-huggingface"
)

func intPtr(i int) *int {
	return &i
}

func float64Ptr(f float64) *float64 {
	return &f
}

func boolPtr(b bool) *bool {
	return &b
}

// HuggingFaceGenerator calls the Hugging Face inference API.
type HuggingFaceGenerator struct {
	client *huggingface.InferenceClient
	model  string
}

func NewHuggingFaceGenerator(apiKey, model string) *HuggingFaceGenerator {
	return &HuggingFaceGenerator{
		client: huggingface.NewInferenceClient(apiKey),
		model:  model,
	}
}

func (h *HuggingFaceGenerator) Generate(ctx context.Context, prompt string, opts GenerationOptions) (string, error) {
	params := huggingface.TextGenerationParameters{
		TopK:           intPtr(50),
		ReturnFullText: boolPtr(false),
	}
	if opts.MaxTokens > 0 {
		params.MaxNewTokens = intPtr(opts.MaxTokens)
	}
	if opts.Temperature > 0 {
		params.Temperature = float64Ptr(opts.Temperature)
	}
	if opts.TopP > 0 {
		params.TopP = float64Ptr(opts.TopP)
	}

	res, err := h.client.TextGeneration(ctx, &huggingface.TextGenerationRequest{
		Inputs:     prompt,
		Model:      h.model,
		Parameters: params,
	})
	if err != nil {
		return "", fmt.Errorf("%w: text generation error: %v", ErrGenerationFailed, err)
	}
	if len(res) == 0 || strings.TrimSpace(res[0].GeneratedText) == "" {
		return "", ErrEmptyGeneration
	}
	return res[0].GeneratedText, nil
}
