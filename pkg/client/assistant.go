package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bobby-s-dev/weather-planner/internal/models"
	"go.uber.org/zap"
)

const systemPrompt = "あなたは天気に合わせたスケジュールを提案するアシスタントです。"

type AssistantClient struct {
	*BaseClient
	apiKey  string
	baseURL string
	model   string
}

type AssistantOptions struct {
	APIKey  string
	BaseURL string
	Model   string
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message ChatMessage `json:"message"`
	} `json:"choices"`
}

func NewAssistantClient(opts AssistantOptions, config ClientConfig, logger *zap.Logger) *AssistantClient {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://openrouter.ai/api/v1"
	}
	if opts.Model == "" {
		opts.Model = "gpt-3.5-turbo"
	}
	return &AssistantClient{
		BaseClient: NewBaseClient("assistant", config, logger),
		apiKey:     opts.APIKey,
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		model:      opts.Model,
	}
}

// BuildSuggestionRequest templates the two-message prompt for the given weather.
func BuildSuggestionRequest(model, description string, temperature float64) ChatCompletionRequest {
	return ChatCompletionRequest{
		Model: model,
		Messages: []ChatMessage{
			{Role: "system", Content: systemPrompt},
			{
				Role: "user",
				Content: fmt.Sprintf("今日の天気は「%s」、気温は%s°Cです。適した1日のスケジュールを提案してください。",
					description, models.FormatTemperature(temperature)),
			},
		},
	}
}

func (c *AssistantClient) FetchSuggestion(ctx context.Context, description string, temperature float64) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("%w: assistant API key is not set", models.ErrConfiguration)
	}

	headers := map[string]string{
		"Authorization": "Bearer " + c.apiKey,
	}
	body := BuildSuggestionRequest(c.model, description, temperature)

	data, err := c.PostJSON(ctx, c.baseURL+"/chat/completions", headers, body)
	if err != nil {
		return "", fmt.Errorf("%w: chat completion failed: %v", models.ErrAssistant, err)
	}

	var response ChatCompletionResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return "", fmt.Errorf("%w: failed to parse completion: %v", models.ErrAssistant, err)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("%w: completion has no choices", models.ErrAssistant)
	}

	return response.Choices[0].Message.Content, nil
}
