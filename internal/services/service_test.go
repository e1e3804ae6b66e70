package services

import (
	"encoding/json"
	"testing"
	"time"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/lendoor/lendoor-indexer/internal/config"
	"github.com/lendoor/lendoor-indexer/internal/db"
	"github.com/lendoor/lendoor-indexer/internal/db/memdb"
	"github.com/lendoor/lendoor-indexer/internal/db/model"
	"github.com/lendoor/lendoor-indexer/internal/types"
	"github.com/lendoor/lendoor-indexer/internal/utils"
	"github.com/lendoor/lendoor-indexer/testutil"
)

// 2024-03-01 00:00:00 UTC
const t0 uint64 = 1709251200

func testConfig() *config.Config {
	return &config.Config{
		Queue: config.QueueConfig{
			MaxRetryAttempts: 3,
			RetryInterval:    time.Millisecond,
		},
		Poller: config.PollerConfig{
			StatsExportInterval: time.Minute,
		},
	}
}

func newTestService(t *testing.T) (*Service, *memdb.Store) {
	t.Helper()

	store := memdb.New()
	return NewService(testConfig(), store), store
}

// eventLog hands out events at strictly increasing log positions
type eventLog struct {
	t     *testing.T
	block uint64
}

func newEventLog(t *testing.T) *eventLog {
	return &eventLog{t: t, block: 100}
}

func (l *eventLog) next(kind types.EventKind, ts uint64, params any) *types.Event {
	l.t.Helper()

	raw, err := json.Marshal(params)
	require.NoError(l.t, err)

	l.block++
	return &types.Event{
		Kind:           kind,
		Contract:       "0x00000000000000000000000000000000000000aa",
		TxHash:         testutil.RandomTxHash(l.t),
		LogIndex:       3,
		BlockNumber:    l.block,
		BlockTimestamp: ts,
		Params:         raw,
	}
}

func (l *eventLog) borrow(account string, assets int64, ts uint64) *types.Event {
	return l.next(types.EventBorrow, ts, types.AccountAssetsParams{
		Account: account,
		Assets:  math.NewInt(assets),
	})
}

func (l *eventLog) loanOpened(account string, principal, amountDue int64, ts uint64) *types.Event {
	feeBps, due := uint64(1000), ts+30*86400
	return l.next(types.EventLoanOpened, ts, types.LoanOpenedParams{
		User:      account,
		Principal: math.NewInt(principal),
		AmountDue: math.NewInt(amountDue),
		FeeBps:    &feeBps,
		Due:       &due,
	})
}

func (l *eventLog) loanClosed(account string, paid int64, ts uint64) *types.Event {
	return l.next(types.EventLoanClosed, ts, types.LoanClosedParams{
		User: account,
		Paid: math.NewInt(paid),
	})
}

func (l *eventLog) loanDefaulted(account string, ts uint64) *types.Event {
	return l.next(types.EventLoanDefaulted, ts, types.LoanDefaultedParams{User: account})
}

func (l *eventLog) deposit(owner string, assets int64, ts uint64) *types.Event {
	return l.next(types.EventDeposit, ts, types.DepositParams{
		Owner:  owner,
		Sender: owner,
		Assets: math.NewInt(assets),
		Shares: math.NewInt(assets),
	})
}

func processAll(t *testing.T, srv *Service, events ...*types.Event) {
	t.Helper()

	for _, event := range events {
		perr := srv.ProcessEvent(t.Context(), event)
		require.Nil(t, perr, "event %s", event)
	}
}

func globalStats(t *testing.T, store db.DbInterface) *model.ProtocolStatDocument {
	t.Helper()

	stat, err := store.GetProtocolStat(t.Context())
	require.NoError(t, err)
	return stat
}

func dailyStats(t *testing.T, store db.DbInterface, ts uint64) *model.DailyProtocolStatDocument {
	t.Helper()

	stat, err := store.GetDailyProtocolStat(t.Context(), utils.DayID(ts))
	require.NoError(t, err)
	return stat
}
