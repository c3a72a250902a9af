package main

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/voice2ticket/internal/classifier"
	"github.com/spec-kit/voice2ticket/internal/config"
	"github.com/spec-kit/voice2ticket/internal/notify"
	"github.com/spec-kit/voice2ticket/internal/observability"
	"github.com/spec-kit/voice2ticket/internal/persistence"
	"github.com/spec-kit/voice2ticket/internal/repository"
	"github.com/spec-kit/voice2ticket/internal/secrets"
	"github.com/spec-kit/voice2ticket/internal/service"
	"github.com/spec-kit/voice2ticket/internal/storage"
	"github.com/spec-kit/voice2ticket/internal/ticketapi"
)

// application holds the process wide client handles and the services built on them.
type application struct {
	cfg      *config.Config
	logger   *zap.Logger
	metrics  *observability.Metrics
	postgres *persistence.Postgres
	redis    *persistence.Redis

	ingestion  *service.IngestionService
	dispatch   *service.DispatchService
	completion *service.CompletionService
	autoClose  *service.AutoCloseService
	tickets    *service.TicketService
}

func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, logger, nil
}

func openPostgres(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*persistence.Postgres, error) {
	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if pg.PoolHandle() == nil {
		return nil, errors.New("POSTGRES_DSN is required")
	}
	return pg, nil
}

func newApplication(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*application, error) {
	pg, err := openPostgres(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), persistence.DefaultMigrationsDir, logger); err != nil {
			pg.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)

	store, err := storage.New(cfg.Storage)
	if err != nil {
		pg.Close()
		redis.Close()
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	rules := classifier.DefaultRules()
	if path := cfg.Pipeline.ClassifierRulesFile; path != "" {
		if rules, err = classifier.LoadRules(path); err != nil {
			pg.Close()
			redis.Close()
			return nil, err
		}
		logger.Info("loaded classifier rules", zap.String("file", path), zap.Int("departments", len(rules)))
	}

	publishers := notify.Fanout{notify.NewRedisPublisher(redis.Client)}
	if cfg.Notification.SlackToken != "" && cfg.Notification.SlackChannel != "" {
		publishers = append(publishers, notify.NewSlackPublisher(cfg.Notification.SlackToken, cfg.Notification.SlackChannel))
	}

	pool := pg.PoolHandle()
	ticketRepo := repository.NewTicketRepository(pool)
	auditRepo := repository.NewTicketAuditRepository(pool)
	jobRepo := repository.NewTranscriptionJobRepository(pool)

	metrics := observability.NewMetrics()
	notifier := service.NewNotificationService(publishers, logger, cfg.Notification)
	resolver := ticketapi.NewResolver(logger,
		ticketapi.NewSecretSource(secrets.NewRedisStore(redis.Client), cfg.TicketAPI.SecretID),
		ticketapi.NewEnvSource(cfg.TicketAPI.FallbackURL, cfg.TicketAPI.FallbackAuthType, cfg.TicketAPI.FallbackAPIKey),
	)

	return &application{
		cfg:      cfg,
		logger:   logger,
		metrics:  metrics,
		postgres: pg,
		redis:    redis,
		ingestion: service.NewIngestionService(service.IngestionDependencies{
			Storage:   store,
			JobRepo:   jobRepo,
			Resolver:  resolver,
			Delivery:  ticketapi.NewClient(logger),
			AuditRepo: auditRepo,
			Logger:    logger,
			Config:    cfg.Pipeline,
		}),
		dispatch: service.NewDispatchService(service.DispatchDependencies{
			JobRepo: jobRepo,
			Logger:  logger,
			Config:  cfg.Pipeline,
		}),
		completion: service.NewCompletionService(service.CompletionDependencies{
			JobRepo:    jobRepo,
			Storage:    store,
			TicketRepo: ticketRepo,
			Classifier: classifier.New(rules),
			Notifier:   notifier,
			Metrics:    metrics,
			Logger:     logger,
		}),
		autoClose: service.NewAutoCloseService(service.AutoCloseDependencies{
			TicketRepo: ticketRepo,
			Notifier:   notifier,
			Metrics:    metrics,
			Logger:     logger,
		}),
		tickets: service.NewTicketService(ticketRepo),
	}, nil
}

// Close releases the client handles.
func (a *application) Close() {
	a.redis.Close()
	a.postgres.Close()
}
