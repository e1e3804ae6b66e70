package services

import (
	"context"

	"cosmossdk.io/math"

	"github.com/lendoor/lendoor-indexer/internal/types"
)

func (s *Service) processDepositEvent(ctx context.Context, event *types.Event) *types.Error {
	params, err := parseEvent[types.DepositParams](event)
	if err != nil {
		return err
	}

	return asProcessingError(s.appendVaultActivity(
		ctx, event, types.ActivityDeposit, params.Owner, &params.Sender, params.Assets, &params.Shares,
	))
}

func (s *Service) processWithdrawEvent(ctx context.Context, event *types.Event) *types.Error {
	params, err := parseEvent[types.WithdrawParams](event)
	if err != nil {
		return err
	}

	return asProcessingError(s.appendVaultActivity(
		ctx, event, types.ActivityWithdraw, params.Owner, &params.Receiver, params.Assets, &params.Shares,
	))
}

// processBorrowEvent counts the borrow as an originated loan. The principal
// itself is accounted by the loan manager open, the borrow adds none.
func (s *Service) processBorrowEvent(ctx context.Context, event *types.Event) *types.Error {
	params, err := parseEvent[types.AccountAssetsParams](event)
	if err != nil {
		return err
	}

	if err := s.appendVaultActivity(
		ctx, event, types.ActivityBorrow, params.Account, nil, params.Assets, nil,
	); err != nil {
		return asProcessingError(err)
	}

	isNew, regErr := s.registerBorrowerIfNew(ctx, params.Account, event.BlockTimestamp)
	if regErr != nil {
		return asProcessingError(regErr)
	}

	return asProcessingError(s.recordLoanOpened(ctx, event.BlockTimestamp, math.ZeroInt(), isNew))
}

func (s *Service) processRepayEvent(ctx context.Context, event *types.Event) *types.Error {
	params, err := parseEvent[types.AccountAssetsParams](event)
	if err != nil {
		return err
	}

	return asProcessingError(s.appendVaultActivity(
		ctx, event, types.ActivityRepay, params.Account, nil, params.Assets, nil,
	))
}

func (s *Service) processVaultStatusEvent(ctx context.Context, event *types.Event) *types.Error {
	params, err := parseEvent[types.VaultStatusParams](event)
	if err != nil {
		return err
	}

	return asProcessingError(s.appendVaultStatusSnapshot(ctx, event, params))
}
