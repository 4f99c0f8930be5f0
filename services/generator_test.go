package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datamilo/config"
	"datamilo/logger"
)

func TestNewGenerator_Disabled(t *testing.T) {
	gen, err := NewGenerator(config.LLMConfig{Provider: config.ProviderNone}, logger.NewNoOpLogger())
	require.NoError(t, err)
	assert.Nil(t, gen)
}

func TestNewGenerator_Providers(t *testing.T) {
	for _, provider := range []string{config.ProviderHuggingFace, config.ProviderOpenAI, config.ProviderOllama} {
		gen, err := NewGenerator(config.LLMConfig{Provider: provider, APIKey: "k", Timeout: time.Second}, logger.NewNoOpLogger())
		require.NoError(t, err, provider)
		assert.IsType(t, &timeoutGenerator{}, gen, provider)
	}

	_, err := NewGenerator(config.LLMConfig{Provider: "bard"}, logger.NewNoOpLogger())
	assert.True(t, errors.Is(err, config.ErrInvalidConfig))
}

type deadlineGenerator struct {
	deadline time.Time
	ok       bool
}

func (d *deadlineGenerator) Generate(ctx context.Context, _ string, _ GenerationOptions) (string, error) {
	d.deadline, d.ok = ctx.Deadline()
	return "x", nil
}

func TestWithTimeout(t *testing.T) {
	inner := &deadlineGenerator{}
	_, err := WithTimeout(inner, time.Minute).Generate(context.Background(), "p", GenerationOptions{})
	require.NoError(t, err)
	assert.True(t, inner.ok)
	assert.WithinDuration(t, time.Now().Add(time.Minute), inner.deadline, 5*time.Second)

	assert.Same(t, inner, WithTimeout(inner, 0))
}

func chatServer(t *testing.T, content string, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-test", req["model"])

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error": map[string]interface{}{"message": "overloaded", "type": "server_error"},
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  "gpt-test",
			"choices": []map[string]interface{}{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]interface{}{"role": "assistant", "content": content},
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAIGenerator(t *testing.T) {
	srv := chatServer(t, "SELECT name FROM dim_users", http.StatusOK)
	gen := NewOpenAIGenerator("test-key", "gpt-test", srv.URL+"/v1")

	out, err := gen.Generate(context.Background(), "prompt", GenerationOptions{Temperature: 0.1, MaxTokens: 200})
	require.NoError(t, err)
	assert.Equal(t, "SELECT name FROM dim_users", out)
}

func TestOpenAIGenerator_Errors(t *testing.T) {
	srv := chatServer(t, "", http.StatusOK)
	_, err := NewOpenAIGenerator("test-key", "gpt-test", srv.URL+"/v1").Generate(context.Background(), "p", GenerationOptions{})
	assert.True(t, errors.Is(err, ErrEmptyGeneration))

	srv = chatServer(t, "", http.StatusInternalServerError)
	gen := NewOpenAIGenerator("test-key", "gpt-test", srv.URL+"/v1")
	_, err = gen.Generate(context.Background(), "p", GenerationOptions{})
	assert.True(t, errors.Is(err, ErrGenerationFailed))
}
