//go:build integration

package db_test

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lendoor/lendoor-indexer/internal/db"
	"github.com/lendoor/lendoor-indexer/internal/db/model"
	"github.com/lendoor/lendoor-indexer/internal/types"
	"github.com/lendoor/lendoor-indexer/internal/utils"
	"github.com/lendoor/lendoor-indexer/testutil"
)

func TestVaultActivity(t *testing.T) {
	ctx := t.Context()
	t.Cleanup(func() {
		resetDatabase(t)
	})

	t.Run("not found", func(t *testing.T) {
		doc, err := testDB.GetVaultActivity(ctx, "deposit-0x00-0")
		require.Error(t, err)
		assert.True(t, db.IsNotFoundError(err))
		assert.Nil(t, doc)
	})
	t.Run("save", func(t *testing.T) {
		doc := createVaultActivity(t, testutil.RandomAddress(t))
		err := testDB.SaveVaultActivity(ctx, doc)
		require.NoError(t, err)

		stored, err := testDB.GetVaultActivity(ctx, doc.ID)
		require.NoError(t, err)
		assertSameDocument(t, doc, stored)

		// feed records are written once
		again := createVaultActivity(t, doc.Account)
		again.ID = doc.ID
		err = testDB.SaveVaultActivity(ctx, again)
		require.Error(t, err)
		assert.True(t, db.IsDuplicateKeyError(err))

		stored, err = testDB.GetVaultActivity(ctx, doc.ID)
		require.NoError(t, err)
		assertSameDocument(t, doc, stored)
	})
	t.Run("optional fields", func(t *testing.T) {
		doc := createVaultActivity(t, testutil.RandomAddress(t))
		doc.Type = types.ActivityBorrow
		doc.Counterparty = nil
		doc.Shares = nil
		require.NoError(t, testDB.SaveVaultActivity(ctx, doc))

		stored, err := testDB.GetVaultActivity(ctx, doc.ID)
		require.NoError(t, err)
		assert.Nil(t, stored.Counterparty)
		assert.Nil(t, stored.Shares)
	})
	t.Run("list by account", func(t *testing.T) {
		account := testutil.RandomAddress(t)
		var docs []*model.VaultActivityDocument
		for range 3 {
			doc := createVaultActivity(t, account)
			require.NoError(t, testDB.SaveVaultActivity(ctx, doc))
			docs = append(docs, doc)
		}

		items, err := testDB.ListVaultActivities(ctx, db.ActivityFilter{Account: account})
		require.NoError(t, err)
		require.Len(t, items, len(docs))
		for i := 1; i < len(items); i++ {
			prev := types.LogPosition{BlockNumber: items[i-1].BlockNumber, LogIndex: items[i-1].LogIndex}
			cur := types.LogPosition{BlockNumber: items[i].BlockNumber, LogIndex: items[i].LogIndex}
			assert.True(t, prev.After(cur))
		}

		items, err = testDB.ListVaultActivities(ctx, db.ActivityFilter{Account: account, Limit: 2})
		require.NoError(t, err)
		assert.Len(t, items, 2)
	})
}

func TestLoanActivity(t *testing.T) {
	ctx := t.Context()
	t.Cleanup(func() {
		resetDatabase(t)
	})

	borrower := testutil.RandomAddress(t)
	principal := testutil.RandomAmount()
	paid := principal.AddRaw(10)
	interest := math.NewInt(10)

	open := &model.LoanActivityDocument{
		ID:             utils.BuildID("lm-open", testutil.RandomTxHash(t), 1),
		Type:           types.LoanActivityOpen,
		Borrower:       borrower,
		Principal:      &principal,
		AmountDue:      &paid,
		BlockNumber:    10,
		BlockTimestamp: 1000,
	}
	closed := &model.LoanActivityDocument{
		ID:             utils.BuildID("lm-close", testutil.RandomTxHash(t), 2),
		Type:           types.LoanActivityClose,
		Borrower:       borrower,
		Principal:      &principal,
		Paid:           &paid,
		Interest:       &interest,
		BlockNumber:    11,
		BlockTimestamp: 1100,
	}
	for _, doc := range []*model.LoanActivityDocument{open, closed} {
		require.NoError(t, testDB.SaveLoanActivity(ctx, doc))
	}

	err := testDB.SaveLoanActivity(ctx, open)
	assert.True(t, db.IsDuplicateKeyError(err))

	stored, err := testDB.GetLoanActivity(ctx, closed.ID)
	require.NoError(t, err)
	assertSameDocument(t, closed, stored)
	assert.Nil(t, stored.AmountDue)

	items, err := testDB.ListLoanActivities(ctx, db.ActivityFilter{Account: borrower})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, closed.ID, items[0].ID)
	assert.Equal(t, open.ID, items[1].ID)
}

func TestVaultStatusSnapshot(t *testing.T) {
	ctx := t.Context()
	t.Cleanup(func() {
		resetDatabase(t)
	})

	for _, ts := range []uint64{300, 100, 200} {
		doc := &model.VaultStatusSnapshotDocument{
			ID:                  utils.BuildID("status", testutil.RandomTxHash(t), 0),
			TotalShares:         testutil.RandomAmount(),
			TotalBorrows:        testutil.RandomAmount(),
			AccumulatedFees:     testutil.RandomAmount(),
			Cash:                testutil.RandomAmount(),
			InterestAccumulator: testutil.RandomAmount(),
			InterestRate:        testutil.RandomAmount(),
			VaultTimestamp:      ts - 1,
			BlockTimestamp:      ts,
		}
		require.NoError(t, testDB.SaveVaultStatusSnapshot(ctx, doc))

		stored, err := testDB.GetVaultStatusSnapshot(ctx, doc.ID)
		require.NoError(t, err)
		assertSameDocument(t, doc, stored)
	}

	items, err := testDB.ListVaultStatusSnapshots(ctx, db.TimeRangeFilter{From: 150})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, uint64(200), items[0].BlockTimestamp)
	assert.Equal(t, uint64(300), items[1].BlockTimestamp)

	items, err = testDB.ListVaultStatusSnapshots(ctx, db.TimeRangeFilter{From: 0, To: 200})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, uint64(100), items[0].BlockTimestamp)
}

func createVaultActivity(t *testing.T, account string) *model.VaultActivityDocument {
	t.Helper()

	counterparty := testutil.RandomAddress(t)
	shares := testutil.RandomAmount()
	txHash := testutil.RandomTxHash(t)
	logIndex := gofakeit.Uint64() % 1000

	return &model.VaultActivityDocument{
		ID:             utils.BuildID("deposit", txHash, logIndex),
		Type:           types.ActivityDeposit,
		Account:        account,
		Counterparty:   &counterparty,
		Assets:         testutil.RandomAmount(),
		Shares:         &shares,
		TxHash:         txHash,
		LogIndex:       logIndex,
		BlockNumber:    uint64(gofakeit.IntRange(1, 1_000_000)),
		BlockTimestamp: uint64(gofakeit.IntRange(1_600_000_000, 1_800_000_000)),
	}
}
