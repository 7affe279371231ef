package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	goopenai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/bible-chat/internal/domain/chat"
)

func TestCompleteMapsTurnsAndUsage(t *testing.T) {
	var captured goopenai.ChatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		resp := goopenai.ChatCompletionResponse{
			Choices: []goopenai.ChatCompletionChoice{
				{Message: goopenai.ChatCompletionMessage{Role: goopenai.ChatMessageRoleAssistant, Content: "말씀을 묵상하세요."}},
			},
			Usage: goopenai.Usage{PromptTokens: 30, CompletionTokens: 8, TotalTokens: 38},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	client := NewClient("test-key", srv.URL+"/v1")
	result, err := client.Complete(context.Background(), chat.CompletionRequest{
		Model:  "gpt-4o-mini",
		System: "system prompt",
		Messages: []chat.Turn{
			{Role: chat.RoleUser, Content: "q1"},
			{Role: chat.RoleAssistant, Content: "a1"},
			{Role: chat.RoleUser, Content: "q2"},
		},
		MaxTokens:   300,
		Temperature: 0.3,
	})
	require.NoError(t, err)
	require.Equal(t, "말씀을 묵상하세요.", result.Text)
	require.Equal(t, 38, result.Usage.TotalTokens)

	require.Equal(t, "gpt-4o-mini", captured.Model)
	require.Equal(t, 300, captured.MaxTokens)
	require.InDelta(t, 0.1, captured.PresencePenalty, 0.0001)
	require.InDelta(t, 0.1, captured.FrequencyPenalty, 0.0001)
	require.Len(t, captured.Messages, 4)
	require.Equal(t, goopenai.ChatMessageRoleSystem, captured.Messages[0].Role)
	require.Equal(t, goopenai.ChatMessageRoleAssistant, captured.Messages[2].Role)
}

func TestCompleteReportsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited","type":"requests"}}`))
	}))
	defer srv.Close()

	_, err := NewClient("k", srv.URL+"/v1").Complete(context.Background(), chat.CompletionRequest{Model: "m"})
	var upstream *chat.UpstreamError
	require.ErrorAs(t, err, &upstream)
	require.Equal(t, http.StatusTooManyRequests, upstream.StatusCode)
}

func TestCompleteWithoutChoicesFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	_, err := NewClient("k", srv.URL+"/v1").Complete(context.Background(), chat.CompletionRequest{Model: "m"})
	var upstream *chat.UpstreamError
	require.ErrorAs(t, err, &upstream)
}
