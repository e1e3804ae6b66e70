package db

import (
	"context"

	"github.com/lendoor/lendoor-indexer/internal/db/model"
	"github.com/lendoor/lendoor-indexer/internal/types"
)

// ActivityFilter selects feed records of one account, newest first. An empty
// Account matches every account.
type ActivityFilter struct {
	Account string
	Limit   int64
}

// TimeRangeFilter selects records by timestamp, From inclusive and To
// exclusive. Zero To means no upper bound.
type TimeRangeFilter struct {
	From  uint64
	To    uint64
	Limit int64
}

func (f TimeRangeFilter) Contains(ts uint64) bool {
	return ts >= f.From && (f.To == 0 || ts < f.To)
}

type DbInterface interface {
	/**
	 * Ping checks the database connection.
	 * @param ctx The context
	 * @return An error if the operation failed
	 */
	Ping(ctx context.Context) error
	/**
	 * WithTransaction runs fn as one unit of work. Either every write made
	 * through the ctx passed to fn is committed or none is.
	 * @param ctx The context
	 * @param fn The function to run
	 * @return The error returned by fn or by the commit
	 */
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	/**
	 * GetLastProcessedPosition returns the position of the last applied event.
	 * @param ctx The context
	 * @return The position, nil if no event was applied yet
	 */
	GetLastProcessedPosition(ctx context.Context) (*types.LogPosition, error)
	/**
	 * UpdateLastProcessedPosition stores the position of the last applied event.
	 * @param ctx The context
	 * @param position The event position
	 * @return An error if the operation failed
	 */
	UpdateLastProcessedPosition(ctx context.Context, position types.LogPosition) error
	/**
	 * SaveVaultActivity inserts a vault activity record.
	 * @param ctx The context
	 * @param doc The activity record
	 * @return DuplicateKeyError if the id already exists
	 */
	SaveVaultActivity(ctx context.Context, doc *model.VaultActivityDocument) error
	GetVaultActivity(ctx context.Context, id string) (*model.VaultActivityDocument, error)
	ListVaultActivities(ctx context.Context, filter ActivityFilter) ([]*model.VaultActivityDocument, error)
	/**
	 * SaveVaultStatusSnapshot inserts a vault status snapshot.
	 * @param ctx The context
	 * @param doc The snapshot
	 * @return DuplicateKeyError if the id already exists
	 */
	SaveVaultStatusSnapshot(ctx context.Context, doc *model.VaultStatusSnapshotDocument) error
	GetVaultStatusSnapshot(ctx context.Context, id string) (*model.VaultStatusSnapshotDocument, error)
	// ListVaultStatusSnapshots filters on the block timestamp, oldest first
	ListVaultStatusSnapshots(ctx context.Context, filter TimeRangeFilter) ([]*model.VaultStatusSnapshotDocument, error)
	/**
	 * SaveLoanActivity inserts a loan lifecycle record.
	 * @param ctx The context
	 * @param doc The activity record
	 * @return DuplicateKeyError if the id already exists
	 */
	SaveLoanActivity(ctx context.Context, doc *model.LoanActivityDocument) error
	GetLoanActivity(ctx context.Context, id string) (*model.LoanActivityDocument, error)
	// ListLoanActivities uses filter.Account as the borrower
	ListLoanActivities(ctx context.Context, filter ActivityFilter) ([]*model.LoanActivityDocument, error)
	/**
	 * GetProtocolStat returns the global protocol stats.
	 * @param ctx The context
	 * @return The stats or NotFoundError if nothing was recorded yet
	 */
	GetProtocolStat(ctx context.Context) (*model.ProtocolStatDocument, error)
	// SaveProtocolStat overwrites the global protocol stats
	SaveProtocolStat(ctx context.Context, doc *model.ProtocolStatDocument) error
	GetDailyProtocolStat(ctx context.Context, id string) (*model.DailyProtocolStatDocument, error)
	// SaveDailyProtocolStat overwrites the stats of one day bucket
	SaveDailyProtocolStat(ctx context.Context, doc *model.DailyProtocolStatDocument) error
	// ListDailyProtocolStats filters on the day start, oldest first
	ListDailyProtocolStats(ctx context.Context, filter TimeRangeFilter) ([]*model.DailyProtocolStatDocument, error)
	GetBorrower(ctx context.Context, account string) (*model.BorrowerDocument, error)
	/**
	 * SaveNewBorrower inserts a borrower.
	 * @param ctx The context
	 * @param doc The borrower
	 * @return DuplicateKeyError if the borrower already exists
	 */
	SaveNewBorrower(ctx context.Context, doc *model.BorrowerDocument) error
	CountBorrowers(ctx context.Context) (uint64, error)
	GetActiveLoan(ctx context.Context, account string) (*model.ActiveLoanDocument, error)
	// SaveActiveLoan overwrites the loan record of an account
	SaveActiveLoan(ctx context.Context, doc *model.ActiveLoanDocument) error
}
