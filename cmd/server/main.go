package main

import (
	"context"
	"net/http"

	"github.com/docuforge/docuforge/internal/api"
	v1 "github.com/docuforge/docuforge/internal/api/v1"
	"github.com/docuforge/docuforge/internal/config"
	"github.com/docuforge/docuforge/internal/docstore"
	"github.com/docuforge/docuforge/internal/logger"
	"github.com/docuforge/docuforge/internal/repository/docstorerepo"
	"github.com/docuforge/docuforge/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		fx.Provide(
			config.NewConfig,
			logger.NewLogger,
			newDocStore,
			newRepositories,
			newServiceParams,
			service.NewValidationService,
			service.NewCleanupService,
			service.NewDispatcherService,
			newHandlers,
			newRouter,
		),
		fx.Invoke(startServer, startWorkers),
	).Run()
}

func newDocStore(cfg *config.Configuration, log *logger.Logger) (docstore.Store, error) {
	switch cfg.DocStore.Backend {
	case "redis":
		return docstore.NewRedisStore(cfg, log)
	default:
		log.Infow("using in-memory document store", "backend", cfg.DocStore.Backend)
		return docstore.NewInMemoryStore(), nil
	}
}

func newRepositories(store docstore.Store, cfg *config.Configuration, log *logger.Logger) *docstorerepo.Repositories {
	return docstorerepo.NewRepositories(store, cfg, log)
}

func newServiceParams(
	cfg *config.Configuration,
	log *logger.Logger,
	store docstore.Store,
	repos *docstorerepo.Repositories,
) service.ServiceParams {
	return service.ServiceParams{
		Logger:            log,
		Config:            cfg,
		DocStore:          store,
		AccessRequestRepo: repos.AccessRequest,
		SubscriptionRepo:  repos.Subscription,
		OverrideRepo:      repos.Override,
		UsageRepo:         repos.Usage,
		ExportUsageRepo:   repos.ExportUsage,
		RateLimitRepo:     repos.RateLimit,
		SecurityEventRepo: repos.SecurityEvent,
		NotificationRepo:  repos.Notification,
		AdminRepo:         repos.Admin,
		TemplateRepo:      repos.Template,
	}
}

func newHandlers(validation service.ValidationService, log *logger.Logger) api.Handlers {
	return api.Handlers{
		Validation: v1.NewValidationHandler(validation, log),
	}
}

func newRouter(handlers api.Handlers, cfg *config.Configuration, log *logger.Logger) *gin.Engine {
	return api.NewRouter(handlers, cfg, log)
}

func startServer(lc fx.Lifecycle, router *gin.Engine, cfg *config.Configuration, log *logger.Logger) {
	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting server", "address", cfg.Server.Address)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatalf("server failed: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down server")
			return server.Shutdown(ctx)
		},
	})
}

func startWorkers(
	lc fx.Lifecycle,
	cleanup service.CleanupService,
	dispatcher service.DispatcherService,
	log *logger.Logger,
) {
	workerCtx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("starting dispatcher and orphan sweep")
			go dispatcher.Run(workerCtx)
			go cleanup.Run(workerCtx)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			return nil
		},
	})
}
