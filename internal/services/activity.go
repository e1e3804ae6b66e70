package services

import (
	"context"
	"fmt"
	"strings"

	"cosmossdk.io/math"

	"github.com/lendoor/lendoor-indexer/internal/db"
	"github.com/lendoor/lendoor-indexer/internal/db/model"
	"github.com/lendoor/lendoor-indexer/internal/types"
	"github.com/lendoor/lendoor-indexer/internal/utils"
)

// feedError wraps a failed feed insert. Replays never reach the insert, they
// stop at the checkpoint. A record that already exists past the checkpoint
// means earlier writes of the event were lost, so the event fails instead of
// being applied on top of a partial state.
func feedError(what, id string, err error) error {
	if db.IsDuplicateKeyError(err) {
		return fmt.Errorf("%s %s exists past the last processed position: %w", what, id, err)
	}
	return fmt.Errorf("failed to save %s: %w", what, err)
}

func (s *Service) appendVaultActivity(
	ctx context.Context,
	event *types.Event,
	activityType types.VaultActivityType,
	account string,
	counterparty *string,
	assets math.Int,
	shares *math.Int,
) error {
	doc := &model.VaultActivityDocument{
		ID:             utils.BuildID(vaultActivityPrefix(activityType), event.TxHash, event.LogIndex),
		Type:           activityType,
		Account:        account,
		Counterparty:   counterparty,
		Assets:         assets,
		Shares:         shares,
		TxHash:         event.TxHash,
		LogIndex:       event.LogIndex,
		BlockNumber:    event.BlockNumber,
		BlockTimestamp: event.BlockTimestamp,
	}
	if err := s.db.SaveVaultActivity(ctx, doc); err != nil {
		return feedError("vault activity", doc.ID, err)
	}
	return nil
}

// loanAmounts are the optional amounts of a loan feed record
type loanAmounts struct {
	principal *math.Int
	amountDue *math.Int
	paid      *math.Int
	interest  *math.Int
}

func (s *Service) appendLoanActivity(
	ctx context.Context,
	event *types.Event,
	activityType types.LoanActivityType,
	borrower string,
	amounts loanAmounts,
) error {
	doc := &model.LoanActivityDocument{
		ID:             utils.BuildID(loanActivityPrefix(activityType), event.TxHash, event.LogIndex),
		Type:           activityType,
		Borrower:       borrower,
		Principal:      amounts.principal,
		AmountDue:      amounts.amountDue,
		Paid:           amounts.paid,
		Interest:       amounts.interest,
		TxHash:         event.TxHash,
		LogIndex:       event.LogIndex,
		BlockNumber:    event.BlockNumber,
		BlockTimestamp: event.BlockTimestamp,
	}
	if err := s.db.SaveLoanActivity(ctx, doc); err != nil {
		return feedError("loan activity", doc.ID, err)
	}
	return nil
}

func (s *Service) appendVaultStatusSnapshot(ctx context.Context, event *types.Event, params *types.VaultStatusParams) error {
	doc := &model.VaultStatusSnapshotDocument{
		ID:                  utils.BuildID(statusSnapshotPrefix, event.TxHash, event.LogIndex),
		TotalShares:         params.TotalShares,
		TotalBorrows:        params.TotalBorrows,
		AccumulatedFees:     params.AccumulatedFees,
		Cash:                params.Cash,
		InterestAccumulator: params.InterestAccumulator,
		InterestRate:        params.InterestRate,
		VaultTimestamp:      *params.Timestamp,
		TxHash:              event.TxHash,
		LogIndex:            event.LogIndex,
		BlockNumber:         event.BlockNumber,
		BlockTimestamp:      event.BlockTimestamp,
	}
	if err := s.db.SaveVaultStatusSnapshot(ctx, doc); err != nil {
		return feedError("vault status snapshot", doc.ID, err)
	}
	return nil
}

const statusSnapshotPrefix = "status"

// vaultActivityPrefix gives deposit-, withdraw-, borrow- and repay- ids
func vaultActivityPrefix(t types.VaultActivityType) string {
	return strings.ToLower(t.String())
}

// loanActivityPrefix gives lm-open-, lm-close- and lm-default- ids
func loanActivityPrefix(t types.LoanActivityType) string {
	return "lm-" + strings.ToLower(t.String())
}
