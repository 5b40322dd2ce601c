package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// TaskSuggester turns free text into candidate tasks.
type TaskSuggester interface {
	SuggestTasks(ctx context.Context, text string) ([]SuggestedTask, error)
}

type SuggestedTask struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type AIService struct {
	client *openai.Client
	model  string
}

func NewAIService(apiKey, model string) *AIService {
	return NewAIServiceWithConfig(openai.DefaultConfig(apiKey), model)
}

// NewAIServiceWithConfig allows pointing the client at another base URL.
func NewAIServiceWithConfig(cfg openai.ClientConfig, model string) *AIService {
	if model == "" {
		model = openai.GPT4o
	}
	return &AIService{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

const suggestPrompt = `You are a task extraction assistant for a project board. Extract concrete, actionable tasks from the text below.

Text:
%s

Return a JSON array of objects in this shape:
[
  {
    "title": "short task title, 3 to 100 characters",
    "description": "what needs to be done"
  }
]

Rules:
- Return [] if the text contains no tasks
- Return JSON only, with no surrounding prose or code fences`

// SuggestTasks asks the chat model to extract tasks from text
func (s *AIService) SuggestTasks(ctx context.Context, text string) ([]SuggestedTask, error) {
	if s.client == nil {
		return nil, fmt.Errorf("OpenAI client not initialized")
	}

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: fmt.Sprintf(suggestPrompt, text),
				},
			},
			Temperature: 0.3,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := stripCodeFence(resp.Choices[0].Message.Content)

	var tasks []SuggestedTask
	if err := json.Unmarshal([]byte(content), &tasks); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}

	return tasks, nil
}

// stripCodeFence removes a ```json ... ``` wrapper some models add despite the prompt.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
