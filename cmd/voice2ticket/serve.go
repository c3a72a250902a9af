package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/voice2ticket/internal/api/http"
	"github.com/spec-kit/voice2ticket/internal/api/http/handlers"
)

// cronParser uses standard 5-field cron expressions (minute, hour, dom, month, dow).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// scheduleOff disables a periodic sweep.
const scheduleOff = "off"

type scheduledSweep struct {
	name string
	spec string
	run  func(ctx context.Context) error
}

func newServeCmd() *cobra.Command {
	var noScheduler bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve trigger endpoints and run the periodic sweeps",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), !noScheduler)
		},
	}

	cmd.Flags().BoolVar(&noScheduler, "no-scheduler", false, "serve HTTP only; sweeps are triggered externally")
	return cmd
}

func runServe(parent context.Context, withScheduler bool) error {
	if parent == nil {
		parent = context.Background()
	}
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	app, err := newApplication(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	server := fiber.New(fiber.Config{AppName: cfg.App.Name, DisableStartupMessage: true})
	httptransport.RegisterMiddlewares(server, logger, app.metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(server, httptransport.RouteConfig{
		Health:  handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, app.postgres, app.redis),
		Events:  handlers.NewEventsHandler(app.ingestion, app.dispatch, logger),
		Sweeps:  handlers.NewSweepsHandler(app.completion, app.autoClose),
		Tickets: handlers.NewTicketsHandler(app.tickets),
		Metrics: handlers.NewMetricsHandler(app.metrics),
	})

	if withScheduler {
		scheduler, err := newScheduler(ctx, logger, []scheduledSweep{
			{name: "completed_jobs", spec: cfg.Schedule.CompletedJobs, run: func(ctx context.Context) error {
				_, err := app.completion.Sweep(ctx)
				return err
			}},
			{name: "inactive_tickets", spec: cfg.Schedule.InactiveTickets, run: func(ctx context.Context) error {
				_, err := app.autoClose.CloseInactive(ctx)
				return err
			}},
		})
		if err != nil {
			return err
		}
		scheduler.Start()
		defer func() { <-scheduler.Stop().Done() }()
	}

	go func() {
		if err := server.Listen(cfg.App.Addr()); err != nil {
			logger.Error("fiber listen", zap.Error(err))
			cancel()
		}
	}()
	logger.Info("voice2ticket listening", zap.String("addr", cfg.App.Addr()))

	waitForShutdown(ctx, logger)
	return server.Shutdown()
}

// newScheduler registers each sweep whose spec is not "off". Overlapping
// runs of the same sweep are skipped.
func newScheduler(ctx context.Context, logger *zap.Logger, sweeps []scheduledSweep) (*cron.Cron, error) {
	scheduler := cron.New(
		cron.WithParser(cronParser),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	for _, sweep := range sweeps {
		if sweep.spec == "" || sweep.spec == scheduleOff {
			logger.Info("sweep not scheduled", zap.String("sweep", sweep.name))
			continue
		}
		_, err := scheduler.AddFunc(sweep.spec, func() {
			if err := sweep.run(ctx); err != nil {
				logger.Error("scheduled sweep failed", zap.String("sweep", sweep.name), zap.Error(err))
			}
		})
		if err != nil {
			return nil, fmt.Errorf("schedule %s %q: %w", sweep.name, sweep.spec, err)
		}
		logger.Info("sweep scheduled", zap.String("sweep", sweep.name), zap.String("spec", sweep.spec))
	}
	return scheduler, nil
}

func waitForShutdown(ctx context.Context, logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case <-ctx.Done():
		logger.Info("shutting down", zap.Error(ctx.Err()))
	}
}
