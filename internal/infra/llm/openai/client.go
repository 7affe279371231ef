package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/yanqian/bible-chat/internal/domain/chat"
	"github.com/yanqian/bible-chat/pkg/metrics"
)

// Sampling penalties sent with every completion request.
const (
	presencePenalty  = 0.1
	frequencyPenalty = 0.1
)

// Client adapts an OpenAI-compatible chat completions endpoint to chat.CompletionClient.
type Client struct {
	client *goopenai.Client
}

// NewClient constructs a client. An empty baseURL targets api.openai.com.
func NewClient(apiKey, baseURL string) *Client {
	clientConfig := goopenai.DefaultConfig(strings.TrimSpace(apiKey))
	if strings.TrimSpace(baseURL) != "" {
		clientConfig.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return &Client{client: goopenai.NewClientWithConfig(clientConfig)}
}

// Complete sends one chat completion and returns the first choice.
func (c *Client) Complete(ctx context.Context, req chat.CompletionRequest) (chat.CompletionResult, error) {
	messages := make([]goopenai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, goopenai.ChatCompletionMessage{
			Role:    goopenai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	for _, turn := range req.Messages {
		role := goopenai.ChatMessageRoleUser
		if turn.Role == chat.RoleAssistant {
			role = goopenai.ChatMessageRoleAssistant
		}
		messages = append(messages, goopenai.ChatCompletionMessage{Role: role, Content: turn.Content})
	}

	resp, err := c.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:            req.Model,
		Messages:         messages,
		MaxTokens:        req.MaxTokens,
		Temperature:      req.Temperature,
		PresencePenalty:  presencePenalty,
		FrequencyPenalty: frequencyPenalty,
	})
	if err != nil {
		return chat.CompletionResult{}, toUpstreamError(err)
	}
	if len(resp.Choices) == 0 {
		return chat.CompletionResult{}, &chat.UpstreamError{Err: errors.New("chat completion has no choices")}
	}
	return chat.CompletionResult{
		Text:  resp.Choices[0].Message.Content,
		Usage: metrics.NewTokenUsage(resp.Usage.PromptTokens, resp.Usage.CompletionTokens),
	}, nil
}

func toUpstreamError(err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return &chat.UpstreamError{StatusCode: apiErr.HTTPStatusCode, Body: apiErr.Message, Err: err}
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		return &chat.UpstreamError{StatusCode: reqErr.HTTPStatusCode, Body: truncate(string(reqErr.Body), 4<<10), Err: err}
	}
	return &chat.UpstreamError{Err: fmt.Errorf("create chat completion: %w", err)}
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
