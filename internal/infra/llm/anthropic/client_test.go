package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/bible-chat/internal/domain/chat"
)

func TestCompleteSendsMessagesRequest(t *testing.T) {
	var captured MessagesRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/messages", r.URL.Path)
		require.Equal(t, "test-key", r.Header.Get("x-api-key"))
		require.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"은혜로 구원받습니다."}],"usage":{"input_tokens":50,"output_tokens":12}}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", srv.URL+"/", "")
	result, err := client.Complete(context.Background(), chat.CompletionRequest{
		Model:       "claude-test",
		System:      "system prompt",
		Messages:    []chat.Turn{{Role: chat.RoleUser, Content: "구원이란?"}},
		MaxTokens:   300,
		Temperature: 0.3,
	})
	require.NoError(t, err)
	require.Equal(t, "은혜로 구원받습니다.", result.Text)
	require.Equal(t, 62, result.Usage.TotalTokens)

	require.Equal(t, "claude-test", captured.Model)
	require.Equal(t, "system prompt", captured.System)
	require.Equal(t, 300, captured.MaxTokens)
	require.Equal(t, []Message{{Role: "user", Content: "구원이란?"}}, captured.Messages)
}

func TestCompleteReportsUpstreamStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"authentication_error"}}` + strings.Repeat(" ", 8<<10)))
	}))
	defer srv.Close()

	_, err := NewClient("bad", srv.URL, "").Complete(context.Background(), chat.CompletionRequest{Model: "m"})
	var upstream *chat.UpstreamError
	require.ErrorAs(t, err, &upstream)
	require.Equal(t, http.StatusUnauthorized, upstream.StatusCode)
	require.Contains(t, upstream.Body, "authentication_error")
	require.LessOrEqual(t, len(upstream.Body), maxErrorBody)
	require.NotContains(t, err.Error(), "bad")
}

func TestCompleteRejectsUnexpectedShape(t *testing.T) {
	cases := map[string]string{
		"empty content": `{"content":[]}`,
		"tool use":      `{"content":[{"type":"tool_use"}]}`,
		"not json":      `<html>`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer srv.Close()

			_, err := NewClient("k", srv.URL, "").Complete(context.Background(), chat.CompletionRequest{Model: "m"})
			var upstream *chat.UpstreamError
			require.ErrorAs(t, err, &upstream)
		})
	}
}

func TestCompleteHonoursContextDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := NewClient("k", srv.URL, "").Complete(ctx, chat.CompletionRequest{Model: "m"})
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
