package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/seasonal-tarot/internal/domain/admin"
	"github.com/yanqian/seasonal-tarot/internal/domain/analysis"
	"github.com/yanqian/seasonal-tarot/internal/domain/gateway"
	"github.com/yanqian/seasonal-tarot/internal/domain/tarot"
	"github.com/yanqian/seasonal-tarot/internal/infra/config"
	"github.com/yanqian/seasonal-tarot/internal/infra/configstore"
	"github.com/yanqian/seasonal-tarot/internal/infra/llm"
	"github.com/yanqian/seasonal-tarot/internal/infra/usagelog"
	httpiface "github.com/yanqian/seasonal-tarot/internal/interface/http"
	"github.com/yanqian/seasonal-tarot/pkg/metrics"
)

func provideGatewayConfig(cfg *config.Config) gateway.Config {
	return gateway.Config{
		Provider:    cfg.Gateway.Provider,
		APIKey:      cfg.Gateway.APIKey,
		Model:       cfg.Gateway.Model,
		MaxTokens:   cfg.Gateway.MaxTokens,
		Temperature: cfg.Gateway.Temperature,
		Timeout:     cfg.Gateway.Timeout,
		Relaxed:     cfg.Gateway.RelaxedValidation,
	}
}

func provideLLMClient(cfg *config.Config) *llm.Client {
	return llm.NewClient(cfg.Gateway.BaseURLs, nil)
}

func provideTokenEstimator(cfg *config.Config, logger *slog.Logger) *metrics.Estimator {
	estimator := metrics.NewEstimator(cfg.Gateway.TokenEncoding, logger)
	if estimator.Warm() {
		logger.Info("token estimator ready", "encoding", estimator.Encoding())
	}
	return estimator
}

func provideSealer(cfg *config.Config) (*configstore.Sealer, error) {
	return configstore.NewSealer(cfg.ConfigStore.EncryptionKey)
}

func provideSettingsStore(cfg *config.Config, sealer *configstore.Sealer, logger *slog.Logger) gateway.Store {
	if !cfg.ConfigStore.Valkey.Enabled {
		return configstore.NewMemoryStore()
	}
	opt, err := buildValkeyOptions(cfg.ConfigStore.Valkey.Addr)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
		return configstore.NewMemoryStore()
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory store", "error", err)
		return configstore.NewMemoryStore()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory store", "error", err)
		client.Close()
		return configstore.NewMemoryStore()
	}
	if !sealer.Enabled() {
		logger.Warn("config encryption key not set, api key stored in plaintext")
	}
	logger.Info("gateway settings valkey store enabled", "addr", cfg.ConfigStore.Valkey.Addr)
	return configstore.NewValkeyStore(client, cfg.ConfigStore.Valkey.Prefix, sealer)
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}

func provideUsageRepository(cfg *config.Config, logger *slog.Logger) usagelog.Repository {
	fallback := usagelog.NewMemoryRepository(cfg.UsageLog.MemoryCapacity)
	dsn := strings.TrimSpace(cfg.UsageLog.Postgres.DSN)
	if dsn == "" {
		logger.Info("usage postgres dsn not set, using memory repository")
		return fallback
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory repository", "error", err)
		return fallback
	}
	if cfg.UsageLog.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.UsageLog.Postgres.MaxConns
	}
	if cfg.UsageLog.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.UsageLog.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory repository", "error", err)
		return fallback
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory repository", "error", err)
		pool.Close()
		return fallback
	}
	repo := usagelog.NewPostgresRepository(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Error("usage schema setup failed, using memory repository", "error", err)
		pool.Close()
		return fallback
	}
	logger.Info("usage postgres repository enabled")
	return repo
}

// provideGatewayService builds the gateway and applies persisted settings.
func provideGatewayService(cfg gateway.Config, client *llm.Client, store gateway.Store, usage usagelog.Repository, estimator *metrics.Estimator, logger *slog.Logger) gateway.Service {
	svc := gateway.NewService(cfg, client, store, usage, estimator, logger)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := svc.Restore(ctx); err != nil {
		logger.Warn("restore gateway settings failed, using configured defaults", "error", err)
	}
	return svc
}

func provideAnalysisService(gw gateway.Service, logger *slog.Logger) analysis.Service {
	return analysis.NewService(gw, logger)
}

func provideAdminConfig(cfg *config.Config) admin.Config {
	return admin.Config{
		Enabled:      cfg.Admin.Enabled,
		Username:     cfg.Admin.Username,
		PasswordHash: cfg.Admin.PasswordHash,
		Secret:       cfg.Admin.JWTSecret,
		TokenTTL:     cfg.Admin.TokenTTL,
	}
}

func provideDealer() *tarot.Dealer {
	return tarot.NewDealer(tarot.SystemRNG{})
}

func provideHandler(cfg *config.Config, dealer *tarot.Dealer, analysisSvc analysis.Service, gatewaySvc gateway.Service, adminSvc admin.Service, usage usagelog.Repository, logger *slog.Logger) *httpiface.Handler {
	return httpiface.NewHandler(dealer, analysisSvc, gatewaySvc, adminSvc, usage, cfg.Tarot.ImageBaseURL, logger)
}
