package services

import (
	"context"
	"errors"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"

	"github.com/lendoor/lendoor-indexer/internal/types"
)

// ProcessEventWithRetry retries an event failing on the store side with
// exponential backoff. Validation errors are final. The error of the last
// attempt is returned once the attempts configured for the queue are spent.
func (s *Service) ProcessEventWithRetry(ctx context.Context, event *types.Event) *types.Error {
	cfg := s.cfg.Queue
	attempt := 0

	err := retry.Do(
		func() error {
			defer func() { attempt++ }()
			if perr := s.applyEvent(ctx, event, attempt); perr != nil {
				return perr
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(cfg.MaxRetryAttempts),
		retry.Delay(cfg.RetryInterval),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return !types.IsValidationError(err)
		}),
		retry.OnRetry(func(n uint, err error) {
			log.Ctx(ctx).Warn().
				Uint("attempt", n+1).
				Uint("max_attempts", cfg.MaxRetryAttempts).
				Err(err).
				Str("event", event.String()).
				Msg("Failed to process event, retrying")
		}),
	)
	if err == nil {
		return nil
	}

	var perr *types.Error
	if errors.As(err, &perr) {
		return perr
	}
	// context cancellation while waiting between attempts
	return types.NewInternalServiceError(err)
}
