package services

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	"github.com/rs/zerolog/log"

	"github.com/lendoor/lendoor-indexer/internal/db"
	"github.com/lendoor/lendoor-indexer/internal/observability/metrics"
)

// loanTerms are the values installed on the account's loan record by an open
type loanTerms struct {
	principal math.Int
	amountDue math.Int
	feeBps    uint64
	start     uint64
	due       uint64
}

// openLoan makes the account's loan active with the new terms. One loan per
// account is assumed: an open for an account whose loan is still active
// replaces the previous terms.
func (s *Service) openLoan(ctx context.Context, account string, ts uint64, terms loanTerms) error {
	loans := s.activeLoans()
	loan, err := loans.loadOrCreate(ctx, account, ts)
	if err != nil {
		return err
	}

	if loan.Active {
		log.Ctx(ctx).Warn().
			Str("account", account).
			Str("previous_principal", loan.Principal.String()).
			Str("new_principal", terms.principal.String()).
			Msg("Loan opened while the previous one is still active, overwriting")
		metrics.IncOpenWhileActive()
	}

	loan.Principal = terms.principal
	loan.AmountDue = terms.amountDue
	loan.FeeBps = terms.feeBps
	loan.Start = terms.start
	loan.Due = terms.due
	loan.Active = true

	return loans.store(ctx, loan)
}

// lastKnownPrincipal is the principal of the account's latest loan, zero
// when the open was never observed.
func (s *Service) lastKnownPrincipal(ctx context.Context, account string) (math.Int, error) {
	loan, err := s.db.GetActiveLoan(ctx, account)
	if err != nil {
		if db.IsNotFoundError(err) {
			log.Ctx(ctx).Debug().Str("account", account).Msg("Loan closed without a known open, principal is zero")
			return math.ZeroInt(), nil
		}
		return math.Int{}, fmt.Errorf("failed to get active loan: %w", err)
	}
	return loan.Principal, nil
}

// closeLoan deactivates the account's loan. Without a loan record nothing is
// written.
func (s *Service) closeLoan(ctx context.Context, account string) error {
	return s.deactivateLoan(ctx, account)
}

// defaultLoan deactivates the account's loan, amounts stay as last known.
func (s *Service) defaultLoan(ctx context.Context, account string) error {
	return s.deactivateLoan(ctx, account)
}

func (s *Service) deactivateLoan(ctx context.Context, account string) error {
	loan, err := s.db.GetActiveLoan(ctx, account)
	if err != nil {
		if db.IsNotFoundError(err) {
			return nil
		}
		return fmt.Errorf("failed to get active loan: %w", err)
	}

	loan.Active = false
	return s.activeLoans().store(ctx, loan)
}
