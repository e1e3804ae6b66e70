package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lendoor/lendoor-indexer/internal/observability/metrics"
	"github.com/lendoor/lendoor-indexer/internal/types"
	"github.com/lendoor/lendoor-indexer/pkg"
)

const (
	skipReasonReplay    = "replay"
	skipReasonMalformed = "malformed"
	skipReasonUnknown   = "unknown_kind"
)

// ProcessEvent applies one event exactly once: its mutations and the new
// checkpoint commit in a single unit of work. Events at or before the
// checkpoint are skipped. A malformed event is reported as a validation error
// after its position has been consumed, any other error leaves the store as
// it was before the call.
func (s *Service) ProcessEvent(ctx context.Context, event *types.Event) *types.Error {
	return s.applyEvent(ctx, event, 0)
}

func (s *Service) applyEvent(ctx context.Context, event *types.Event, attempt int) *types.Error {
	startTime := time.Now()
	var (
		malformed *types.Error
		replayed  bool
	)

	txErr := s.db.WithTransaction(ctx, func(ctx context.Context) error {
		// the unit may run more than once on transient commit errors
		malformed, replayed = nil, false

		checkpoint, err := s.db.GetLastProcessedPosition(ctx)
		if err != nil {
			return fmt.Errorf("failed to get last processed position: %w", err)
		}
		if checkpoint != nil && !event.Position().After(*checkpoint) {
			replayed = true
			return nil
		}

		if perr := s.processEvent(ctx, event); perr != nil {
			if perr.ErrorCode != types.ValidationError {
				return perr
			}
			malformed = perr
		}

		if err := s.db.UpdateLastProcessedPosition(ctx, event.Position()); err != nil {
			return fmt.Errorf("failed to update last processed position: %w", err)
		}
		return nil
	})

	logger := log.Ctx(ctx).With().
		Str("kind", event.Kind.String()).
		Str("tx_hash", event.TxHash).
		Uint64("block_number", event.BlockNumber).
		Uint64("log_index", event.LogIndex).
		Logger()

	if txErr != nil {
		metrics.RecordEventProcessingDuration(time.Since(startTime), event.Kind.String(), attempt, true)
		logger.Error().Err(txErr).Msg("Failed to process event")

		var perr *types.Error
		if errors.As(txErr, &perr) {
			return perr
		}
		return types.NewInternalServiceError(txErr)
	}

	metrics.RecordEventProcessingDuration(time.Since(startTime), event.Kind.String(), attempt, false)

	if replayed {
		logger.Debug().Msg("Event already applied, skipping")
		metrics.IncSkippedEvents(event.Kind.String(), skipReasonReplay)
		return nil
	}

	metrics.RecordLastProcessedBlock(event.BlockNumber)
	if malformed != nil {
		logger.Warn().Err(malformed).Msg("Skipping malformed event")
		metrics.IncSkippedEvents(event.Kind.String(), skipReasonMalformed)
		return malformed
	}

	logger.Debug().Msg("Event processed")
	return nil
}

// Entry point for applying a single event, feed records are always written
// before any aggregate is touched
func (s *Service) processEvent(ctx context.Context, event *types.Event) *types.Error {
	handler := s.eventHandler(event.Kind)
	if handler == nil {
		if event.Kind == "" {
			return types.NewValidationFailedError(fmt.Errorf("event at %d:%d has no kind", event.BlockNumber, event.LogIndex))
		}
		// forward compatible with kinds added to the stream later
		log.Ctx(ctx).Debug().Str("kind", event.Kind.String()).Msg("Ignoring unknown event kind")
		metrics.IncSkippedEvents(event.Kind.String(), skipReasonUnknown)
		return nil
	}

	if err := validateEnvelope(event); err != nil {
		return err
	}

	return handler(ctx, event)
}

// eventHandler returns nil for kinds this indexer does not interpret
func (s *Service) eventHandler(kind types.EventKind) func(context.Context, *types.Event) *types.Error {
	switch kind {
	case types.EventDeposit:
		return s.processDepositEvent
	case types.EventWithdraw:
		return s.processWithdrawEvent
	case types.EventBorrow:
		return s.processBorrowEvent
	case types.EventRepay:
		return s.processRepayEvent
	case types.EventVaultStatus:
		return s.processVaultStatusEvent
	case types.EventLoanOpened:
		return s.processLoanOpenedEvent
	case types.EventLoanClosed:
		return s.processLoanClosedEvent
	case types.EventLoanDefaulted:
		return s.processLoanDefaultedEvent
	default:
		return nil
	}
}

// validateEnvelope checks the metadata shared by every recognized kind and
// normalizes the tx hash used in record ids.
func validateEnvelope(event *types.Event) *types.Error {
	txHash, err := pkg.NormalizeTxHash(event.TxHash)
	if err != nil {
		return types.NewValidationFailedError(err)
	}
	event.TxHash = txHash
	return nil
}

func parseEvent[T any, P interface {
	*T
	types.Payload
}](event *types.Event) (P, *types.Error) {
	params := P(new(T))

	if len(bytes.TrimSpace(event.Params)) == 0 {
		return nil, types.NewValidationFailedError(
			fmt.Errorf("no params found in the %s event", event.Kind),
		)
	}

	if err := json.Unmarshal(event.Params, params); err != nil {
		return nil, types.NewValidationFailedError(
			fmt.Errorf("failed to decode %s params: %w", event.Kind, err),
		)
	}

	if err := params.Validate(); err != nil {
		return nil, types.NewValidationFailedError(
			fmt.Errorf("invalid %s event: %w", event.Kind, err),
		)
	}

	return params, nil
}

// asProcessingError turns a store side failure into the processing error of
// the event. A nil error stays nil.
func asProcessingError(err error) *types.Error {
	if err == nil {
		return nil
	}
	return types.NewInternalServiceError(err)
}
