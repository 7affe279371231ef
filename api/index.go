// Package handler exposes the chat API as a single serverless function.
package handler

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/yanqian/bible-chat/internal/bootstrap"
	"github.com/yanqian/bible-chat/pkg/logger"
)

const initErrorBody = `{"success":false,"error":"서버 설정 오류가 발생했습니다.","code":"configuration_error"}`

type serverInitializer func() (*http.Server, func(), error)

var defaultHandler = newLazyHandler(bootstrap.InitializeServer, logger.New())

// Handler serves every request through the same router as the long running server.
func Handler(w http.ResponseWriter, r *http.Request) {
	defaultHandler.ServeHTTP(w, r)
}

// lazyHandler builds the server on the first request and reuses it for the
// lifetime of the function instance.
type lazyHandler struct {
	initServer serverInitializer
	logger     *slog.Logger

	once    sync.Once
	server  *http.Server
	initErr error
}

func newLazyHandler(initServer serverInitializer, logger *slog.Logger) *lazyHandler {
	return &lazyHandler{initServer: initServer, logger: logger.With("component", "serverless")}
}

func (h *lazyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.once.Do(func() {
		h.server, _, h.initErr = h.initServer()
		if h.initErr != nil {
			h.logger.Error("failed to wire serverless handler", "error", h.initErr)
		}
	})
	if h.initErr != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(initErrorBody))
		return
	}
	h.server.Handler.ServeHTTP(w, r)
}
