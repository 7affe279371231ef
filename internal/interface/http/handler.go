package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/bible-chat/internal/domain/chat"
	apperrors "github.com/yanqian/bible-chat/pkg/errors"
	"github.com/yanqian/bible-chat/pkg/util"
)

// Handler wires the HTTP transport to the chat service.
type Handler struct {
	chatSvc chat.Service
	logger  *slog.Logger
	started time.Time
	now     func() time.Time
}

// NewHandler constructs the root HTTP handler.
func NewHandler(chatSvc chat.Service, logger *slog.Logger) *Handler {
	return &Handler{
		chatSvc: chatSvc,
		logger:  logger.With("component", "http.handler"),
		started: util.NowUTC(),
		now:     util.NowUTC,
	}
}

type chatEnvelope struct {
	Success bool `json:"success"`
	chat.Response
}

// Chat answers a question.
func (h *Handler) Chat(c *gin.Context) {
	var req chat.Request
	if err := c.ShouldBindJSON(&req); err != nil && !isEmptyBody(err) {
		if isBodyTooLarge(err) {
			abortWithError(c, NewHTTPError(http.StatusRequestEntityTooLarge, "payload_too_large", "요청 본문이 너무 큽니다.", err))
			return
		}
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "요청 형식이 올바르지 않습니다.", err))
		return
	}

	resp, err := h.chatSvc.Ask(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, toHTTPError(err))
		return
	}

	c.JSON(http.StatusOK, chatEnvelope{Success: true, Response: resp})
}

// Debug reports service status without exposing the credential.
func (h *Handler) Debug(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"timestamp": h.timestamp(),
		"message":   "성경 챗봇 API가 정상 작동 중입니다! 📖",
		"debug":     h.chatSvc.Status(),
	})
}

// Health is the liveness check.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"timestamp": h.timestamp(),
		"message":   "서버가 정상 작동 중입니다.",
		"uptime":    h.now().Sub(h.started).Seconds(),
	})
}

// ClearSession drops stored conversation history.
func (h *Handler) ClearSession(c *gin.Context) {
	if err := h.chatSvc.ClearSession(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, toHTTPError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Stats returns per-day outcome counts.
func (h *Handler) Stats(c *gin.Context) {
	days := 0
	if raw := strings.TrimSpace(c.Query("days")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, chat.CodeInvalidInput, "days는 0 이상의 정수여야 합니다.", err))
			return
		}
		days = parsed
	}
	counts, err := h.chatSvc.Stats(c.Request.Context(), days)
	if err != nil {
		abortWithError(c, toHTTPError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "stats": counts})
}

// Echo is a smoke test for deployments.
func (h *Handler) Echo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":   "API 함수가 작동합니다!",
		"timestamp": h.timestamp(),
		"method":    c.Request.Method,
		"url":       c.Request.URL.RequestURI(),
	})
}

// Preflight answers OPTIONS requests that carry no CORS headers.
func (h *Handler) Preflight(c *gin.Context) {
	c.Status(http.StatusOK)
}

func (h *Handler) methodNotAllowed(c *gin.Context) {
	abortWithError(c, NewHTTPError(http.StatusMethodNotAllowed, "method_not_allowed", "허용되지 않는 요청 방식입니다.", nil))
}

func (h *Handler) notFound(c *gin.Context) {
	abortWithError(c, NewHTTPError(http.StatusNotFound, "not_found", "요청한 경로를 찾을 수 없습니다.", nil))
}

func (h *Handler) timestamp() string {
	return h.now().Format(time.RFC3339Nano)
}

func toHTTPError(err error) *HTTPError {
	status := http.StatusInternalServerError
	code := "internal_error"
	switch {
	case apperrors.IsCode(err, chat.CodeInvalidInput):
		status, code = http.StatusBadRequest, chat.CodeInvalidInput
	case apperrors.IsCode(err, chat.CodeConfiguration):
		code = chat.CodeConfiguration
	case apperrors.IsCode(err, chat.CodeSession):
		code = chat.CodeSession
	case apperrors.IsCode(err, chat.CodeStats):
		code = chat.CodeStats
	default:
		return asHTTPError(err)
	}
	return NewHTTPError(status, code, apperrors.MessageOf(err), err)
}
