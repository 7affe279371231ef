package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/bible-chat/internal/bootstrap"
)

func TestLazyHandlerReportsInitFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http: [unterminated"), 0o600))
	t.Setenv("CONFIG_PATH", path)

	h := newLazyHandler(bootstrap.InitializeServer, newTestLogger())

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.Contains(t, rec.Header().Get("Content-Type"), "application/json")
		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, false, body["success"])
		require.Equal(t, "configuration_error", body["code"])
		require.NotEmpty(t, body["error"])
	}
}

func TestLazyHandlerServesSharedRouter(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("OTEL_ENABLED", "false")
	t.Setenv("SESSION_REDIS_ENABLED", "false")
	t.Setenv("STATS_POSTGRES_DSN", "")
	t.Setenv("CHAT_HISTORY_TURNS", "0")
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("API_SERVICE", "")

	var calls atomic.Int32
	initServer := func() (*http.Server, func(), error) {
		calls.Add(1)
		return bootstrap.InitializeServer()
	}
	h := newLazyHandler(initServer, newTestLogger())

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, "OK", body["status"])
		require.Contains(t, body, "uptime")
	}
	require.EqualValues(t, 1, calls.Load())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/unknown", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLazyHandlerInitializesOnce(t *testing.T) {
	var calls atomic.Int32
	h := newLazyHandler(func() (*http.Server, func(), error) {
		calls.Add(1)
		return nil, nil, errors.New("boom")
	}, newTestLogger())

	for i := 0; i < 3; i++ {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/health", nil))
	}
	require.EqualValues(t, 1, calls.Load())
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
