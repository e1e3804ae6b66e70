package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"
	"github.com/spf13/cobra"

	"github.com/lendoor/lendoor-indexer/internal/api"
	"github.com/lendoor/lendoor-indexer/internal/db"
	"github.com/lendoor/lendoor-indexer/internal/observability/metrics"
	"github.com/lendoor/lendoor-indexer/internal/observability/tracing"
	"github.com/lendoor/lendoor-indexer/internal/queue"
	"github.com/lendoor/lendoor-indexer/internal/services"
)

func StartServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start-server",
		Short: "Consumes the event queue and serves the query api",
		Args:  cobra.ExactArgs(0),
		RunE:  startServer,
	}

	return cmd
}

func startServer(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx = tracing.InjectTraceID(ctx)
	log := log.Ctx(ctx)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(ctx, &cfg.Db)
	if err != nil {
		return err
	}
	defer closeStore()
	dbClient := db.NewDbWithMetrics(store)

	queueManager, err := queue.NewQueueManager(&cfg.Queue)
	if err != nil {
		return err
	}
	defer queueManager.Shutdown()

	service := services.NewService(cfg, dbClient)
	apiServer := api.New(cfg, dbClient)

	// initialize metrics with the metrics port from config
	metrics.Init(cfg.Metrics.GetMetricsPort())

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	var wg conc.WaitGroup
	wg.Go(func() {
		service.StartStatsPoller(ctx)
	})
	wg.Go(func() {
		if err := apiServer.Start(ctx); err != nil {
			cancel(err)
		}
	})
	wg.Go(func() {
		if err := queueManager.Consume(ctx, service.ProcessEventWithRetry); err != nil {
			cancel(err)
		}
	})
	wg.Wait()

	if err := context.Cause(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("Indexer stopped")
		return err
	}

	log.Info().Msg("Indexer stopped")
	return nil
}
