package db

import (
	"context"
	"time"

	"github.com/lendoor/lendoor-indexer/internal/db/model"
	"github.com/lendoor/lendoor-indexer/internal/observability/metrics"
	"github.com/lendoor/lendoor-indexer/internal/types"
)

var _ DbInterface = (*DbWithMetrics)(nil)

type DbWithMetrics struct {
	db DbInterface
}

func NewDbWithMetrics(db DbInterface) *DbWithMetrics {
	return &DbWithMetrics{db: db}
}

func (d *DbWithMetrics) Ping(ctx context.Context) error {
	return d.db.Ping(ctx)
}

// WithTransaction is timed as a whole, the calls made inside fn go through
// the decorator as well when fn uses it.
func (d *DbWithMetrics) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return d.run("WithTransaction", func() error {
		return d.db.WithTransaction(ctx, fn)
	})
}

func (d *DbWithMetrics) GetLastProcessedPosition(ctx context.Context) (result *types.LogPosition, err error) {
	//nolint:errcheck
	d.run("GetLastProcessedPosition", func() error {
		result, err = d.db.GetLastProcessedPosition(ctx)
		return err
	})
	return
}

func (d *DbWithMetrics) UpdateLastProcessedPosition(ctx context.Context, position types.LogPosition) error {
	return d.run("UpdateLastProcessedPosition", func() error {
		return d.db.UpdateLastProcessedPosition(ctx, position)
	})
}

func (d *DbWithMetrics) SaveVaultActivity(ctx context.Context, doc *model.VaultActivityDocument) error {
	return d.run("SaveVaultActivity", func() error {
		return d.db.SaveVaultActivity(ctx, doc)
	})
}

func (d *DbWithMetrics) GetVaultActivity(ctx context.Context, id string) (result *model.VaultActivityDocument, err error) {
	//nolint:errcheck
	d.run("GetVaultActivity", func() error {
		result, err = d.db.GetVaultActivity(ctx, id)
		return err
	})
	return
}

func (d *DbWithMetrics) ListVaultActivities(ctx context.Context, filter ActivityFilter) (result []*model.VaultActivityDocument, err error) {
	//nolint:errcheck
	d.run("ListVaultActivities", func() error {
		result, err = d.db.ListVaultActivities(ctx, filter)
		return err
	})
	return
}

func (d *DbWithMetrics) SaveVaultStatusSnapshot(ctx context.Context, doc *model.VaultStatusSnapshotDocument) error {
	return d.run("SaveVaultStatusSnapshot", func() error {
		return d.db.SaveVaultStatusSnapshot(ctx, doc)
	})
}

func (d *DbWithMetrics) GetVaultStatusSnapshot(ctx context.Context, id string) (result *model.VaultStatusSnapshotDocument, err error) {
	//nolint:errcheck
	d.run("GetVaultStatusSnapshot", func() error {
		result, err = d.db.GetVaultStatusSnapshot(ctx, id)
		return err
	})
	return
}

func (d *DbWithMetrics) ListVaultStatusSnapshots(ctx context.Context, filter TimeRangeFilter) (result []*model.VaultStatusSnapshotDocument, err error) {
	//nolint:errcheck
	d.run("ListVaultStatusSnapshots", func() error {
		result, err = d.db.ListVaultStatusSnapshots(ctx, filter)
		return err
	})
	return
}

func (d *DbWithMetrics) SaveLoanActivity(ctx context.Context, doc *model.LoanActivityDocument) error {
	return d.run("SaveLoanActivity", func() error {
		return d.db.SaveLoanActivity(ctx, doc)
	})
}

func (d *DbWithMetrics) GetLoanActivity(ctx context.Context, id string) (result *model.LoanActivityDocument, err error) {
	//nolint:errcheck
	d.run("GetLoanActivity", func() error {
		result, err = d.db.GetLoanActivity(ctx, id)
		return err
	})
	return
}

func (d *DbWithMetrics) ListLoanActivities(ctx context.Context, filter ActivityFilter) (result []*model.LoanActivityDocument, err error) {
	//nolint:errcheck
	d.run("ListLoanActivities", func() error {
		result, err = d.db.ListLoanActivities(ctx, filter)
		return err
	})
	return
}

func (d *DbWithMetrics) GetProtocolStat(ctx context.Context) (result *model.ProtocolStatDocument, err error) {
	//nolint:errcheck
	d.run("GetProtocolStat", func() error {
		result, err = d.db.GetProtocolStat(ctx)
		return err
	})
	return
}

func (d *DbWithMetrics) SaveProtocolStat(ctx context.Context, doc *model.ProtocolStatDocument) error {
	return d.run("SaveProtocolStat", func() error {
		return d.db.SaveProtocolStat(ctx, doc)
	})
}

func (d *DbWithMetrics) GetDailyProtocolStat(ctx context.Context, id string) (result *model.DailyProtocolStatDocument, err error) {
	//nolint:errcheck
	d.run("GetDailyProtocolStat", func() error {
		result, err = d.db.GetDailyProtocolStat(ctx, id)
		return err
	})
	return
}

func (d *DbWithMetrics) SaveDailyProtocolStat(ctx context.Context, doc *model.DailyProtocolStatDocument) error {
	return d.run("SaveDailyProtocolStat", func() error {
		return d.db.SaveDailyProtocolStat(ctx, doc)
	})
}

func (d *DbWithMetrics) ListDailyProtocolStats(ctx context.Context, filter TimeRangeFilter) (result []*model.DailyProtocolStatDocument, err error) {
	//nolint:errcheck
	d.run("ListDailyProtocolStats", func() error {
		result, err = d.db.ListDailyProtocolStats(ctx, filter)
		return err
	})
	return
}

func (d *DbWithMetrics) GetBorrower(ctx context.Context, account string) (result *model.BorrowerDocument, err error) {
	//nolint:errcheck
	d.run("GetBorrower", func() error {
		result, err = d.db.GetBorrower(ctx, account)
		return err
	})
	return
}

func (d *DbWithMetrics) SaveNewBorrower(ctx context.Context, doc *model.BorrowerDocument) error {
	return d.run("SaveNewBorrower", func() error {
		return d.db.SaveNewBorrower(ctx, doc)
	})
}

func (d *DbWithMetrics) CountBorrowers(ctx context.Context) (result uint64, err error) {
	//nolint:errcheck
	d.run("CountBorrowers", func() error {
		result, err = d.db.CountBorrowers(ctx)
		return err
	})
	return
}

func (d *DbWithMetrics) GetActiveLoan(ctx context.Context, account string) (result *model.ActiveLoanDocument, err error) {
	//nolint:errcheck
	d.run("GetActiveLoan", func() error {
		result, err = d.db.GetActiveLoan(ctx, account)
		return err
	})
	return
}

func (d *DbWithMetrics) SaveActiveLoan(ctx context.Context, doc *model.ActiveLoanDocument) error {
	return d.run("SaveActiveLoan", func() error {
		return d.db.SaveActiveLoan(ctx, doc)
	})
}

// run is private method that executes passed lambda function and send metrics data with spent time, method name
// and an error if any. It returns the error from the lambda function for convenience
func (d *DbWithMetrics) run(method string, f func() error) error {
	startTime := time.Now()
	err := f()
	duration := time.Since(startTime)

	metrics.RecordDbLatency(duration, method, err != nil)
	return err
}
