package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yanqian/bible-chat/internal/domain/chat"
	"github.com/yanqian/bible-chat/pkg/metrics"
)

const (
	defaultBaseURL = "https://api.anthropic.com"
	defaultVersion = "2023-06-01"
	maxErrorBody   = 4 << 10
)

// Message mirrors the Messages API message structure.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// MessagesRequest is the payload sent to the Messages API.
type MessagesRequest struct {
	Model       string    `json:"model"`
	System      string    `json:"system,omitempty"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float32   `json:"temperature"`
}

// MessagesResponse captures the fields the service reads.
type MessagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// Client performs HTTP requests to the Anthropic Messages API.
type Client struct {
	apiKey     string
	baseURL    string
	version    string
	httpClient *http.Client
}

// NewClient constructs a Messages API client. An empty key is accepted; the chat
// service refuses to call the upstream until one is configured.
func NewClient(apiKey, baseURL, version string) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	if strings.TrimSpace(version) == "" {
		version = defaultVersion
	}
	return &Client{
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: strings.TrimRight(baseURL, "/"),
		version: version,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Complete sends one Messages API call and returns the first text block.
func (c *Client) Complete(ctx context.Context, req chat.CompletionRequest) (chat.CompletionResult, error) {
	payload := MessagesRequest{
		Model:       req.Model,
		System:      req.System,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		Messages:    make([]Message, 0, len(req.Messages)),
	}
	for _, turn := range req.Messages {
		payload.Messages = append(payload.Messages, Message{Role: turn.Role, Content: turn.Content})
	}

	out, err := c.CreateMessage(ctx, payload)
	if err != nil {
		return chat.CompletionResult{}, err
	}
	if len(out.Content) == 0 || out.Content[0].Type != "text" {
		return chat.CompletionResult{}, &chat.UpstreamError{Err: errors.New("messages response has no text content")}
	}
	return chat.CompletionResult{
		Text:  out.Content[0].Text,
		Usage: metrics.NewTokenUsage(out.Usage.InputTokens, out.Usage.OutputTokens),
	}, nil
}

// CreateMessage triggers a sync Messages API call.
func (c *Client) CreateMessage(ctx context.Context, req MessagesRequest) (MessagesResponse, error) {
	var out MessagesResponse
	body, err := c.doRequest(ctx, req)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, &chat.UpstreamError{Err: fmt.Errorf("decode messages response: %w", err)}
	}
	return out, nil
}

func (c *Client) doRequest(ctx context.Context, req MessagesRequest) ([]byte, error) {
	httpReq, err := c.newHTTPRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &chat.UpstreamError{Err: fmt.Errorf("request messages: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &chat.UpstreamError{StatusCode: resp.StatusCode, Body: string(payload)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &chat.UpstreamError{StatusCode: resp.StatusCode, Err: fmt.Errorf("read messages response: %w", err)}
	}
	return body, nil
}

func (c *Client) newHTTPRequest(ctx context.Context, req MessagesRequest) (*http.Request, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode messages request: %w", err)
	}
	endpoint := c.baseURL + "/v1/messages"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build messages request: %w", err)
	}
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", c.version)
	httpReq.Header.Set("Content-Type", "application/json")
	return httpReq, nil
}
