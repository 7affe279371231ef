//go:build wireinject
// +build wireinject

package bootstrap

import (
	"net/http"

	"github.com/google/wire"

	"github.com/yanqian/bible-chat/internal/domain/chat"
	"github.com/yanqian/bible-chat/internal/infra/config"
	httpiface "github.com/yanqian/bible-chat/internal/interface/http"
	"github.com/yanqian/bible-chat/pkg/logger"
)

var serverSet = wire.NewSet(
	config.Load,
	logger.New,
	provideChatConfig,
	provideScreeningFilter,
	provideFallbackSelector,
	provideCompletionClient,
	provideTokenCounter,
	provideSessionStore,
	provideStatsRepository,
	provideTracerProvider,
	chat.NewService,
	httpiface.NewHandler,
	httpiface.NewRouter,
)

// InitializeApp builds the long running server.
func InitializeApp() (*App, func(), error) {
	wire.Build(serverSet, NewApp)
	return nil, nil, nil
}

// InitializeServer builds the HTTP server without the lifecycle wrapper.
func InitializeServer() (*http.Server, func(), error) {
	wire.Build(serverSet)
	return nil, nil, nil
}
