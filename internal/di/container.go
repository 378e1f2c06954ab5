package di

import (
	"context"
	"log/slog"

	analysisGateway "github.com/copilotwatch/reddit-monitor/internal/modules/analysis/gateway"
	analysisRepository "github.com/copilotwatch/reddit-monitor/internal/modules/analysis/repository"
	contentService "github.com/copilotwatch/reddit-monitor/internal/modules/content/service"
	feedService "github.com/copilotwatch/reddit-monitor/internal/modules/feed/service"
	githubClient "github.com/copilotwatch/reddit-monitor/internal/modules/github/client"
	monitorService "github.com/copilotwatch/reddit-monitor/internal/modules/monitor/service"
	"github.com/copilotwatch/reddit-monitor/internal/modules/monitor/session"
	redditClient "github.com/copilotwatch/reddit-monitor/internal/modules/reddit/client"
	"github.com/copilotwatch/reddit-monitor/internal/shared/config"
	httpServer "github.com/copilotwatch/reddit-monitor/internal/transport/http"
	"github.com/copilotwatch/reddit-monitor/internal/transport/telegram"
	"github.com/samber/do/v2"
	"github.com/samber/oops"
)

// Setup initializes the dependency injection container
func Setup() (do.Injector, error) {
	injector := do.New()

	// Register Config
	do.Provide(injector, func(i do.Injector) (*config.Config, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, oops.With("context", "failed to load config").Wrap(err)
		}
		return cfg, nil
	})

	// Register AI Analysis Gateway
	do.Provide(injector, func(i do.Injector) (*analysisGateway.Gateway, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return analysisGateway.New(context.Background(), cfg), nil
	})

	// Register Analysis Repository
	do.Provide(injector, func(i do.Injector) (analysisRepository.Repository, error) {
		cfg := do.MustInvoke[*config.Config](i)

		if cfg.DatabaseURL != "" {
			repo, err := analysisRepository.NewPostgresStorage(context.Background(), cfg.DatabaseURL)
			if err != nil {
				return nil, oops.With("context", "failed to initialize postgres analysis repository").Wrap(err)
			}
			return repo, nil
		}

		repo, err := analysisRepository.NewFileStorage(cfg.StoragePath)
		if err != nil {
			return nil, oops.With("storage_path", cfg.StoragePath, "context", "failed to initialize analysis repository").Wrap(err)
		}
		return repo, nil
	})

	// Register Reddit Client
	do.Provide(injector, func(i do.Injector) (*redditClient.Client, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return redditClient.New(cfg), nil
	})

	// Register GitHub Client
	do.Provide(injector, func(i do.Injector) (*githubClient.Client, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return githubClient.New(cfg), nil
	})

	// Register Content Enrichment Service
	do.Provide(injector, func(i do.Injector) (*contentService.Service, error) {
		gateway := do.MustInvoke[*analysisGateway.Gateway](i)
		return contentService.New(gateway), nil
	})

	// Register Session Registry
	do.Provide(injector, func(i do.Injector) (*session.Registry, error) {
		return session.NewRegistry(), nil
	})

	// Register Monitor Service
	do.Provide(injector, func(i do.Injector) (*monitorService.Service, error) {
		reddit := do.MustInvoke[*redditClient.Client](i)
		enricher := do.MustInvoke[*contentService.Service](i)
		return monitorService.New(reddit, enricher), nil
	})

	// Register Feed Service
	do.Provide(injector, func(i do.Injector) (*feedService.Service, error) {
		registry := do.MustInvoke[*session.Registry](i)
		return feedService.New(registry), nil
	})

	// Register Telegram Notifier (nil when not configured)
	do.Provide(injector, func(i do.Injector) (*telegram.Notifier, error) {
		cfg := do.MustInvoke[*config.Config](i)
		notifier, err := telegram.New(cfg)
		if err != nil {
			return nil, oops.With("context", "failed to create telegram notifier").Wrap(err)
		}
		return notifier, nil
	})

	// Register HTTP Server
	do.Provide(injector, func(i do.Injector) (*httpServer.Server, error) {
		cfg := do.MustInvoke[*config.Config](i)
		registry := do.MustInvoke[*session.Registry](i)
		monitor := do.MustInvoke[*monitorService.Service](i)
		gateway := do.MustInvoke[*analysisGateway.Gateway](i)
		reddit := do.MustInvoke[*redditClient.Client](i)
		github := do.MustInvoke[*githubClient.Client](i)
		analyses := do.MustInvoke[analysisRepository.Repository](i)
		feeds := do.MustInvoke[*feedService.Service](i)
		notifier := do.MustInvoke[*telegram.Notifier](i)

		server := httpServer.New(cfg, registry, monitor, gateway, reddit, github, analyses, feeds, notifier)
		server.SetLogger(slog.Default())
		return server, nil
	})

	return injector, nil
}

// Shutdown gracefully shuts down all services
func Shutdown(injector do.Injector) error {
	// Stop the monitoring loop if it was ever started
	if monitor, err := do.Invoke[*monitorService.Service](injector); err == nil && monitor != nil {
		monitor.Stop()
	}

	return nil
}
