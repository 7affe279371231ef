package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	"github.com/yanqian/bible-chat/internal/infra/config"
)

var echoMethods = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
}

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler, logger *slog.Logger, tracerProvider trace.TracerProvider) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(
		gin.Recovery(),
		otelgin.Middleware(cfg.Telemetry.ServiceName, otelgin.WithTracerProvider(tracerProvider)),
		requestLogger(logger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		errorHandlingMiddleware(logger),
		bodyLimitMiddleware(),
		rateLimitMiddleware(cfg.HTTP.RateLimit, logger),
	)
	router.NoMethod(handler.methodNotAllowed)
	router.NoRoute(handler.notFound)

	api := router.Group("/api")
	{
		api.POST("/chat", handler.Chat)
		api.GET("/chat", handler.Debug)
		api.DELETE("/chat/sessions/:id", handler.ClearSession)
		api.GET("/health", handler.Health)
		for _, method := range echoMethods {
			api.Handle(method, "/test", handler.Echo)
		}
		preflightPaths := []string{"/chat", "/chat/sessions/:id", "/health", "/test"}
		if secret := cfg.Stats.JWTSecret; secret != "" {
			api.GET("/stats", statsAuthMiddleware([]byte(secret)), handler.Stats)
			preflightPaths = append(preflightPaths, "/stats")
		}
		for _, path := range preflightPaths {
			api.OPTIONS(path, handler.Preflight)
		}
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
