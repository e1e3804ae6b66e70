package memdb

import (
	"cmp"
	"context"
	"fmt"

	"github.com/lendoor/lendoor-indexer/internal/db"
	"github.com/lendoor/lendoor-indexer/internal/db/model"
)

func vaultActivitiesTable(s *state) map[string]model.VaultActivityDocument { return s.vaultActivities }
func snapshotsTable(s *state) map[string]model.VaultStatusSnapshotDocument { return s.snapshots }
func loanActivitiesTable(s *state) map[string]model.LoanActivityDocument { return s.loanActivities }
func dailyStatsTable(s *state) map[string]model.DailyProtocolStatDocument { return s.dailyStats }
func borrowersTable(s *state) map[string]model.BorrowerDocument { return s.borrowers }
func activeLoansTable(s *state) map[string]model.ActiveLoanDocument { return s.activeLoans }

func nilDocument(method string) error {
	return fmt.Errorf("%s: nil document", method)
}

func newestFirst(aBlock, aLog, bBlock, bLog uint64) int {
	if c := cmp.Compare(bBlock, aBlock); c != 0 {
		return c
	}
	return cmp.Compare(bLog, aLog)
}

func (s *Store) SaveVaultActivity(ctx context.Context, doc *model.VaultActivityDocument) error {
	if doc == nil {
		return nilDocument("SaveVaultActivity")
	}
	return insert(s, "SaveVaultActivity", vaultActivitiesTable, doc.ID, doc)
}

func (s *Store) GetVaultActivity(ctx context.Context, id string) (*model.VaultActivityDocument, error) {
	return get(s, "GetVaultActivity", vaultActivitiesTable, id)
}

func (s *Store) ListVaultActivities(ctx context.Context, filter db.ActivityFilter) ([]*model.VaultActivityDocument, error) {
	return list(s, "ListVaultActivities", vaultActivitiesTable,
		func(d model.VaultActivityDocument) bool {
			return filter.Account == "" || d.Account == filter.Account
		},
		func(a, b model.VaultActivityDocument) int {
			return newestFirst(a.BlockNumber, a.LogIndex, b.BlockNumber, b.LogIndex)
		},
		filter.Limit,
	)
}

func (s *Store) SaveVaultStatusSnapshot(ctx context.Context, doc *model.VaultStatusSnapshotDocument) error {
	if doc == nil {
		return nilDocument("SaveVaultStatusSnapshot")
	}
	return insert(s, "SaveVaultStatusSnapshot", snapshotsTable, doc.ID, doc)
}

func (s *Store) GetVaultStatusSnapshot(ctx context.Context, id string) (*model.VaultStatusSnapshotDocument, error) {
	return get(s, "GetVaultStatusSnapshot", snapshotsTable, id)
}

func (s *Store) ListVaultStatusSnapshots(ctx context.Context, filter db.TimeRangeFilter) ([]*model.VaultStatusSnapshotDocument, error) {
	return list(s, "ListVaultStatusSnapshots", snapshotsTable,
		func(d model.VaultStatusSnapshotDocument) bool {
			return filter.Contains(d.BlockTimestamp)
		},
		func(a, b model.VaultStatusSnapshotDocument) int {
			if c := cmp.Compare(a.BlockTimestamp, b.BlockTimestamp); c != 0 {
				return c
			}
			return cmp.Compare(a.LogIndex, b.LogIndex)
		},
		filter.Limit,
	)
}

func (s *Store) SaveLoanActivity(ctx context.Context, doc *model.LoanActivityDocument) error {
	if doc == nil {
		return nilDocument("SaveLoanActivity")
	}
	return insert(s, "SaveLoanActivity", loanActivitiesTable, doc.ID, doc)
}

func (s *Store) GetLoanActivity(ctx context.Context, id string) (*model.LoanActivityDocument, error) {
	return get(s, "GetLoanActivity", loanActivitiesTable, id)
}

func (s *Store) ListLoanActivities(ctx context.Context, filter db.ActivityFilter) ([]*model.LoanActivityDocument, error) {
	return list(s, "ListLoanActivities", loanActivitiesTable,
		func(d model.LoanActivityDocument) bool {
			return filter.Account == "" || d.Borrower == filter.Account
		},
		func(a, b model.LoanActivityDocument) int {
			return newestFirst(a.BlockNumber, a.LogIndex, b.BlockNumber, b.LogIndex)
		},
		filter.Limit,
	)
}

func (s *Store) GetProtocolStat(ctx context.Context) (*model.ProtocolStatDocument, error) {
	if err := s.fail("GetProtocolStat"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.data.protocolStat == nil {
		return nil, &db.NotFoundError{
			Key:     model.GlobalStatsID,
			Message: "protocol stat not found",
		}
	}
	doc := *s.data.protocolStat
	return &doc, nil
}

func (s *Store) SaveProtocolStat(ctx context.Context, doc *model.ProtocolStatDocument) error {
	if err := s.fail("SaveProtocolStat"); err != nil {
		return err
	}
	if doc == nil {
		return nilDocument("SaveProtocolStat")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *doc
	s.data.protocolStat = &stored
	return nil
}

func (s *Store) GetDailyProtocolStat(ctx context.Context, id string) (*model.DailyProtocolStatDocument, error) {
	return get(s, "GetDailyProtocolStat", dailyStatsTable, id)
}

func (s *Store) SaveDailyProtocolStat(ctx context.Context, doc *model.DailyProtocolStatDocument) error {
	if doc == nil {
		return nilDocument("SaveDailyProtocolStat")
	}
	return upsert(s, "SaveDailyProtocolStat", dailyStatsTable, doc.ID, doc)
}

func (s *Store) ListDailyProtocolStats(ctx context.Context, filter db.TimeRangeFilter) ([]*model.DailyProtocolStatDocument, error) {
	return list(s, "ListDailyProtocolStats", dailyStatsTable,
		func(d model.DailyProtocolStatDocument) bool {
			return filter.Contains(d.DayStart)
		},
		func(a, b model.DailyProtocolStatDocument) int {
			return cmp.Compare(a.DayStart, b.DayStart)
		},
		filter.Limit,
	)
}

func (s *Store) GetBorrower(ctx context.Context, account string) (*model.BorrowerDocument, error) {
	return get(s, "GetBorrower", borrowersTable, account)
}

func (s *Store) SaveNewBorrower(ctx context.Context, doc *model.BorrowerDocument) error {
	if doc == nil {
		return nilDocument("SaveNewBorrower")
	}
	return insert(s, "SaveNewBorrower", borrowersTable, doc.ID, doc)
}

func (s *Store) CountBorrowers(ctx context.Context) (uint64, error) {
	if err := s.fail("CountBorrowers"); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	return uint64(len(s.data.borrowers)), nil
}

func (s *Store) GetActiveLoan(ctx context.Context, account string) (*model.ActiveLoanDocument, error) {
	return get(s, "GetActiveLoan", activeLoansTable, account)
}

func (s *Store) SaveActiveLoan(ctx context.Context, doc *model.ActiveLoanDocument) error {
	if doc == nil {
		return nilDocument("SaveActiveLoan")
	}
	return upsert(s, "SaveActiveLoan", activeLoansTable, doc.ID, doc)
}
