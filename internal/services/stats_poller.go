package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/lendoor/lendoor-indexer/internal/db"
	"github.com/lendoor/lendoor-indexer/internal/observability/metrics"
	"github.com/lendoor/lendoor-indexer/internal/utils/poller"
)

// StartStatsPoller periodically exports the global stats as gauges. It
// blocks until ctx is done.
func (s *Service) StartStatsPoller(ctx context.Context) {
	statsPoller := poller.NewPoller(
		"stats",
		s.cfg.Poller.StatsExportInterval,
		metrics.RecordPollerDuration("stats", s.exportStats),
	)
	statsPoller.Start(ctx)
}

// exportStats reads the global stats and cross checks the unique borrower
// counter against the borrower registry.
func (s *Service) exportStats(ctx context.Context) error {
	log := log.Ctx(ctx)

	stat, err := s.db.GetProtocolStat(ctx)
	if err != nil {
		if db.IsNotFoundError(err) {
			log.Debug().Msg("No protocol stats recorded yet - skipping export")
			return nil
		}
		return fmt.Errorf("failed to get protocol stat: %w", err)
	}

	borrowers, err := s.db.CountBorrowers(ctx)
	if err != nil {
		return fmt.Errorf("failed to count borrowers: %w", err)
	}
	if borrowers != stat.UniqueBorrowers {
		log.Warn().
			Uint64("unique_borrowers", stat.UniqueBorrowers).
			Uint64("borrower_records", borrowers).
			Msg("Unique borrower counter diverges from the borrower registry")
	}

	metrics.RecordProtocolStats(stat.LoansOriginated, stat.UniqueBorrowers)

	log.Debug().
		Uint64("loans_originated", stat.LoansOriginated).
		Uint64("unique_borrowers", stat.UniqueBorrowers).
		Str("principal_originated", stat.PrincipalOriginated.String()).
		Msg("Exported protocol stats")
	return nil
}
