package services

import (
	"context"

	"github.com/lendoor/lendoor-indexer/internal/types"
)

func (s *Service) processLoanOpenedEvent(ctx context.Context, event *types.Event) *types.Error {
	params, err := parseEvent[types.LoanOpenedParams](event)
	if err != nil {
		return err
	}

	if err := s.appendLoanActivity(ctx, event, types.LoanActivityOpen, params.User, loanAmounts{
		principal: &params.Principal,
		amountDue: &params.AmountDue,
	}); err != nil {
		return asProcessingError(err)
	}

	start := event.BlockTimestamp
	if params.Start != nil {
		start = *params.Start
	}
	if err := s.openLoan(ctx, params.User, event.BlockTimestamp, loanTerms{
		principal: params.Principal,
		amountDue: params.AmountDue,
		feeBps:    *params.FeeBps,
		start:     start,
		due:       *params.Due,
	}); err != nil {
		return asProcessingError(err)
	}

	isNew, regErr := s.registerBorrowerIfNew(ctx, params.User, event.BlockTimestamp)
	if regErr != nil {
		return asProcessingError(regErr)
	}

	return asProcessingError(s.recordLoanOpened(ctx, event.BlockTimestamp, params.Principal, isNew))
}

// processLoanClosedEvent reads the principal before writing the feed record
// since the record carries the derived interest.
func (s *Service) processLoanClosedEvent(ctx context.Context, event *types.Event) *types.Error {
	params, err := parseEvent[types.LoanClosedParams](event)
	if err != nil {
		return err
	}

	principal, closeErr := s.lastKnownPrincipal(ctx, params.User)
	if closeErr != nil {
		return asProcessingError(closeErr)
	}
	interest := derivedInterest(params.Paid, principal)

	if err := s.appendLoanActivity(ctx, event, types.LoanActivityClose, params.User, loanAmounts{
		principal: &principal,
		paid:      &params.Paid,
		interest:  &interest,
	}); err != nil {
		return asProcessingError(err)
	}

	if err := s.closeLoan(ctx, params.User); err != nil {
		return asProcessingError(err)
	}

	return asProcessingError(s.recordLoanClosed(ctx, event.BlockTimestamp, principal, interest))
}

func (s *Service) processLoanDefaultedEvent(ctx context.Context, event *types.Event) *types.Error {
	params, err := parseEvent[types.LoanDefaultedParams](event)
	if err != nil {
		return err
	}

	if err := s.appendLoanActivity(ctx, event, types.LoanActivityDefault, params.User, loanAmounts{}); err != nil {
		return asProcessingError(err)
	}

	return asProcessingError(s.defaultLoan(ctx, params.User))
}
