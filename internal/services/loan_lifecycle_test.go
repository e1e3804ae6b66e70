package services

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lendoor/lendoor-indexer/internal/db"
	"github.com/lendoor/lendoor-indexer/internal/types"
	"github.com/lendoor/lendoor-indexer/internal/utils"
	"github.com/lendoor/lendoor-indexer/testutil"
)

func TestLoanLifecycle(t *testing.T) {
	srv, store := newTestService(t)
	events := newEventLog(t)
	x := testutil.RandomAddress(t)

	open := events.loanOpened(x, 1000, 1100, t0)
	processAll(t, srv, open)

	loan, err := store.GetActiveLoan(t.Context(), x)
	require.NoError(t, err)
	assert.True(t, loan.Active)
	assert.True(t, loan.Principal.Equal(math.NewInt(1000)))
	assert.True(t, loan.AmountDue.Equal(math.NewInt(1100)))
	assert.EqualValues(t, 1000, loan.FeeBps)
	assert.Equal(t, t0, loan.Start)
	assert.Equal(t, t0+30*86400, loan.Due)

	t1 := t0 + 20*86400
	closed := events.loanClosed(x, 1100, t1)
	processAll(t, srv, closed)

	loan, err = store.GetActiveLoan(t.Context(), x)
	require.NoError(t, err)
	assert.False(t, loan.Active)
	// terms are kept for audit
	assert.True(t, loan.Principal.Equal(math.NewInt(1000)))

	global := globalStats(t, store)
	assert.True(t, global.PrincipalOriginated.Equal(math.NewInt(1000)))
	assert.True(t, global.PrincipalRepaid.Equal(math.NewInt(1000)))
	assert.True(t, global.InterestRepaid.Equal(math.NewInt(100)))
	assert.Equal(t, t1, global.LastUpdated)

	// repayment lands in the bucket of the close
	closeDay := dailyStats(t, store, t1)
	assert.True(t, closeDay.InterestRepaid.Equal(math.NewInt(100)))
	assert.Zero(t, closeDay.LoansOriginated)
	assert.True(t, dailyStats(t, store, t0).InterestRepaid.IsZero())

	record, err := store.GetLoanActivity(t.Context(), utils.BuildID("lm-close", closed.TxHash, closed.LogIndex))
	require.NoError(t, err)
	assert.Equal(t, types.LoanActivityClose, record.Type)
	assert.Equal(t, x, record.Borrower)
	require.NotNil(t, record.Interest)
	assert.True(t, record.Interest.Equal(math.NewInt(100)))
	assert.True(t, record.Paid.Equal(math.NewInt(1100)))
	assert.True(t, record.Principal.Equal(math.NewInt(1000)))
	assert.Nil(t, record.AmountDue)

	opened, err := store.GetLoanActivity(t.Context(), utils.BuildID("lm-open", open.TxHash, open.LogIndex))
	require.NoError(t, err)
	assert.True(t, opened.AmountDue.Equal(math.NewInt(1100)))
	assert.Nil(t, opened.Paid)
}

func TestLoanClosedWithoutOpen(t *testing.T) {
	srv, store := newTestService(t)
	y := testutil.RandomAddress(t)

	processAll(t, srv, newEventLog(t).loanClosed(y, 500, t0))

	global := globalStats(t, store)
	assert.True(t, global.PrincipalRepaid.IsZero())
	assert.True(t, global.InterestRepaid.Equal(math.NewInt(500)))
	assert.Zero(t, global.LoansOriginated)

	_, err := store.GetActiveLoan(t.Context(), y)
	assert.True(t, db.IsNotFoundError(err))
}

func TestLoanDefaulted(t *testing.T) {
	t.Run("deactivates the loan", func(t *testing.T) {
		srv, store := newTestService(t)
		events := newEventLog(t)
		x := testutil.RandomAddress(t)

		processAll(t, srv,
			events.loanOpened(x, 1000, 1100, t0),
			events.loanDefaulted(x, t0+40*86400),
		)

		loan, err := store.GetActiveLoan(t.Context(), x)
		require.NoError(t, err)
		assert.False(t, loan.Active)
		assert.True(t, loan.Principal.Equal(math.NewInt(1000)))

		// a default moves no stats
		global := globalStats(t, store)
		assert.True(t, global.PrincipalRepaid.IsZero())
		assert.Equal(t, t0, global.LastUpdated)

		feed, err := store.ListLoanActivities(t.Context(), db.ActivityFilter{Account: x})
		require.NoError(t, err)
		require.Len(t, feed, 2)
		assert.Equal(t, types.LoanActivityDefault, feed[0].Type)
	})
	t.Run("without open", func(t *testing.T) {
		srv, store := newTestService(t)
		y := testutil.RandomAddress(t)

		processAll(t, srv, newEventLog(t).loanDefaulted(y, t0))

		_, err := store.GetActiveLoan(t.Context(), y)
		assert.True(t, db.IsNotFoundError(err))
		feed, err := store.ListLoanActivities(t.Context(), db.ActivityFilter{Account: y})
		require.NoError(t, err)
		assert.Len(t, feed, 1)
	})
}

func TestLoanOpenedWhileActive(t *testing.T) {
	srv, store := newTestService(t)
	events := newEventLog(t)
	x := testutil.RandomAddress(t)

	processAll(t, srv,
		events.loanOpened(x, 1000, 1100, t0),
		events.loanOpened(x, 3000, 3300, t0+60),
	)

	loan, err := store.GetActiveLoan(t.Context(), x)
	require.NoError(t, err)
	assert.True(t, loan.Active)
	assert.True(t, loan.Principal.Equal(math.NewInt(3000)))

	global := globalStats(t, store)
	assert.EqualValues(t, 2, global.LoansOriginated)
	assert.EqualValues(t, 1, global.UniqueBorrowers)
	assert.True(t, global.PrincipalOriginated.Equal(math.NewInt(4000)))
}

func TestLoanReopenedAfterClose(t *testing.T) {
	srv, store := newTestService(t)
	events := newEventLog(t)
	x := testutil.RandomAddress(t)

	processAll(t, srv,
		events.loanOpened(x, 1000, 1100, t0),
		events.loanClosed(x, 1100, t0+50),
	)

	reopen := events.loanOpened(x, 2000, 2200, t0+100)
	reopen.Params = []byte(`{"user":"` + x + `","principal":"2000","amount_due":"2200","fee_bps":1000,"due":99,"start":120}`)
	processAll(t, srv, reopen)

	loan, err := store.GetActiveLoan(t.Context(), x)
	require.NoError(t, err)
	assert.True(t, loan.Active)
	assert.True(t, loan.Principal.Equal(math.NewInt(2000)))
	assert.EqualValues(t, 120, loan.Start)
	assert.EqualValues(t, 99, loan.Due)
	assert.True(t, loan.AmountDue.Equal(math.NewInt(2200)))
}
