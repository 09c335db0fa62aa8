package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-eventbot/pkg/apperrors"
)

func newOpenAITestServer(t *testing.T, status int, body string, captured *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		if captured != nil {
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, captured)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_GenerateResponse(t *testing.T) {
	var req map[string]any
	srv := newOpenAITestServer(t, http.StatusOK, `{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"choices": [{"index": 0, "message": {"role": "assistant", "content": "SELECT * FROM events LIMIT 10"}, "finish_reason": "stop"}],
		"usage": {"prompt_tokens": 12, "completion_tokens": 8, "total_tokens": 20}
	}`, &req)

	client, err := NewOpenAIClient(&Config{Model: "gpt-4", APIKey: "sk-test", BaseURL: srv.URL + "/v1/"}, zap.NewNop())
	require.NoError(t, err)

	result, err := client.GenerateResponse(context.Background(), "prompt", "system", 0)
	require.NoError(t, err)

	assert.Equal(t, "SELECT * FROM events LIMIT 10", result.Content)
	assert.Equal(t, 12, result.PromptTokens)
	assert.Equal(t, 20, result.TotalTokens)
	assert.Equal(t, "gpt-4", req["model"])

	temp, ok := req["temperature"].(float64)
	require.True(t, ok, "temperature must be sent even when zero")
	assert.Less(t, temp, 1e-6)

	messages, ok := req["messages"].([]any)
	require.True(t, ok)
	assert.Len(t, messages, 2)
}

func TestClient_GenerateResponse_AuthError(t *testing.T) {
	srv := newOpenAITestServer(t, http.StatusUnauthorized,
		`{"error": {"message": "Incorrect API key provided", "type": "invalid_request_error", "code": "invalid_api_key"}}`, nil)

	client, err := NewOpenAIClient(&Config{Model: "gpt-4", APIKey: "bad", BaseURL: srv.URL + "/v1"}, zap.NewNop())
	require.NoError(t, err)

	_, err = client.GenerateResponse(context.Background(), "prompt", "", 0)
	require.Error(t, err)

	var llmErr *Error
	require.True(t, errors.As(err, &llmErr))
	assert.Equal(t, ErrorTypeAuth, llmErr.Type)
	assert.Equal(t, ProviderOpenAI, llmErr.Provider)
	assert.Equal(t, "gpt-4", llmErr.Model)
}

func TestClient_GenerateResponse_EmptyChoices(t *testing.T) {
	srv := newOpenAITestServer(t, http.StatusOK, `{"id": "x", "object": "chat.completion", "choices": []}`, nil)

	client, err := NewOpenAIClient(&Config{Model: "gpt-4", BaseURL: srv.URL + "/v1"}, zap.NewNop())
	require.NoError(t, err)

	_, err = client.GenerateResponse(context.Background(), "prompt", "", 0)
	assert.ErrorIs(t, err, apperrors.ErrEmptyCompletion)
}

func TestAnthropicClient_GenerateResponse(t *testing.T) {
	var req map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &req)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"id": "msg_1", "type": "message", "role": "assistant", "model": "claude-test",
			"content": [{"type": "text", "text": "Here are the events"}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 30, "output_tokens": 5}
		}`)
	}))
	defer srv.Close()

	client, err := NewAnthropicClient(&Config{Model: "claude-test", APIKey: "key", BaseURL: srv.URL + "/v1"}, zap.NewNop())
	require.NoError(t, err)

	result, err := client.GenerateResponse(context.Background(), "prompt", "system", 0.5)
	require.NoError(t, err)

	assert.Equal(t, "Here are the events", result.Content)
	assert.Equal(t, 35, result.TotalTokens)
	assert.Equal(t, "system", req["system"])
	assert.InDelta(t, 0.5, req["temperature"], 1e-6)
	assert.EqualValues(t, defaultAnthropicMaxTokens, req["max_tokens"])
}

func TestNewClient_Factory(t *testing.T) {
	ctx := context.Background()

	client, err := NewClient(ctx, &Config{Provider: ProviderOpenAI, APIKey: "sk-test"}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, client.GetProvider())
	assert.Equal(t, "gpt-4", client.GetModel())
	_, guarded := client.(*GuardedClient)
	assert.True(t, guarded)

	client, err = NewClient(ctx, &Config{Provider: ProviderAnthropic, APIKey: "k", Model: "claude-x",
		CircuitBreaker: &CircuitBreakerConfig{Threshold: 2}}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, ProviderAnthropic, client.GetProvider())
	assert.Equal(t, "claude-x", client.GetModel())

	_, err = NewClient(ctx, &Config{Provider: ProviderAnthropic}, zap.NewNop())
	assert.Error(t, err)

	_, err = NewClient(ctx, &Config{Provider: "cohere", APIKey: "k"}, zap.NewNop())
	assert.ErrorContains(t, err, "unsupported llm provider")
}
