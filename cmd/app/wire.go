//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/seasonal-tarot/internal/bootstrap"
	"github.com/yanqian/seasonal-tarot/internal/domain/admin"
	"github.com/yanqian/seasonal-tarot/internal/infra/config"
	httpiface "github.com/yanqian/seasonal-tarot/internal/interface/http"
	"github.com/yanqian/seasonal-tarot/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideGatewayConfig,
		provideLLMClient,
		provideTokenEstimator,
		provideSealer,
		provideSettingsStore,
		provideUsageRepository,
		provideGatewayService,
		provideAnalysisService,
		provideAdminConfig,
		admin.NewService,
		provideDealer,
		provideHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
