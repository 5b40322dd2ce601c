package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeOpenAI(t *testing.T, content string) *AIService {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)

		var req openai.ChatCompletionRequest
		if assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) && assert.Len(t, req.Messages, 1) {
			assert.Equal(t, "test-model", req.Model)
			assert.Contains(t, req.Messages[0].Content, "ship the beta")
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content}},
			},
		})
	}))
	t.Cleanup(srv.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	return NewAIServiceWithConfig(cfg, "test-model")
}

func TestAIService_SuggestTasks(t *testing.T) {
	ai := newFakeOpenAI(t, `[{"title":"Ship beta","description":"Cut the release branch"}]`)

	tasks, err := ai.SuggestTasks(context.Background(), "we should ship the beta")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Ship beta", tasks[0].Title)
}

func TestAIService_SuggestTasksFencedJSON(t *testing.T) {
	ai := newFakeOpenAI(t, "```json\n[]\n```")

	tasks, err := ai.SuggestTasks(context.Background(), "ship the beta maybe")
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestAIService_SuggestTasksBadJSON(t *testing.T) {
	ai := newFakeOpenAI(t, "Sure! Here are your tasks.")

	_, err := ai.SuggestTasks(context.Background(), "ship the beta")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse AI response")
}

func TestNewAIService_DefaultModel(t *testing.T) {
	ai := NewAIService("key", "")
	assert.Equal(t, openai.GPT4o, ai.model)
}
