package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/lendoor/lendoor-indexer/internal/db"
	"github.com/lendoor/lendoor-indexer/internal/db/model"
)

// registerBorrowerIfNew records the first time an account takes a loan. It
// is the only place deciding whether the unique borrower counters move.
func (s *Service) registerBorrowerIfNew(ctx context.Context, account string, ts uint64) (bool, error) {
	_, err := s.db.GetBorrower(ctx, account)
	if err == nil {
		return false, nil
	}
	if !db.IsNotFoundError(err) {
		return false, fmt.Errorf("failed to get borrower: %w", err)
	}

	err = s.db.SaveNewBorrower(ctx, &model.BorrowerDocument{
		ID:        account,
		FirstSeen: ts,
	})
	if err != nil {
		if db.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to save borrower: %w", err)
	}

	log.Ctx(ctx).Debug().Str("account", account).Msg("New borrower registered")
	return true, nil
}
