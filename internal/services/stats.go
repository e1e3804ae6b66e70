package services

import (
	"context"
	"fmt"

	"cosmossdk.io/math"

	"github.com/lendoor/lendoor-indexer/internal/db/model"
	"github.com/lendoor/lendoor-indexer/internal/utils"
)

// recordLoanOpened counts a new loan in the global and daily stats.
func (s *Service) recordLoanOpened(ctx context.Context, ts uint64, principal math.Int, isNewBorrower bool) error {
	return s.updateStats(ctx, ts, func(c *model.StatCounters) error {
		c.LoansOriginated++
		if isNewBorrower {
			c.UniqueBorrowers++
		}
		sum, err := c.PrincipalOriginated.SafeAdd(principal)
		if err != nil {
			return fmt.Errorf("principal originated overflow: %w", err)
		}
		c.PrincipalOriginated = sum
		return nil
	})
}

// recordLoanClosed adds a repayment to the global and daily stats.
func (s *Service) recordLoanClosed(ctx context.Context, ts uint64, principal, interest math.Int) error {
	return s.updateStats(ctx, ts, func(c *model.StatCounters) error {
		repaid, err := c.PrincipalRepaid.SafeAdd(principal)
		if err != nil {
			return fmt.Errorf("principal repaid overflow: %w", err)
		}
		earned, err := c.InterestRepaid.SafeAdd(interest)
		if err != nil {
			return fmt.Errorf("interest repaid overflow: %w", err)
		}
		c.PrincipalRepaid = repaid
		c.InterestRepaid = earned
		return nil
	})
}

// updateStats applies the same mutation to the global stats and to the
// bucket of ts, so both always move together.
func (s *Service) updateStats(ctx context.Context, ts uint64, mutate func(c *model.StatCounters) error) error {
	globalStats := s.protocolStats()
	global, err := globalStats.loadOrCreate(ctx, model.GlobalStatsID, ts)
	if err != nil {
		return err
	}

	bucketStats := s.dailyStats()
	daily, err := bucketStats.loadOrCreate(ctx, utils.DayID(ts), ts)
	if err != nil {
		return err
	}

	for _, counters := range []*model.StatCounters{&global.StatCounters, &daily.StatCounters} {
		if err := mutate(counters); err != nil {
			return err
		}
		counters.LastUpdated = ts
	}

	if err := globalStats.store(ctx, global); err != nil {
		return err
	}
	return bucketStats.store(ctx, daily)
}

// derivedInterest approximates the interest of a closed loan as the part of
// the payment exceeding the principal. The log carries no interest figure.
func derivedInterest(paid, principal math.Int) math.Int {
	if paid.GT(principal) {
		return paid.Sub(principal)
	}
	return math.ZeroInt()
}
