//go:build integration

package db_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lendoor/lendoor-indexer/internal/db"
	"github.com/lendoor/lendoor-indexer/internal/db/model"
	"github.com/lendoor/lendoor-indexer/testutil"
)

func TestBorrower(t *testing.T) {
	ctx := t.Context()
	t.Cleanup(func() {
		resetDatabase(t)
	})

	account := testutil.RandomAddress(t)

	_, err := testDB.GetBorrower(ctx, account)
	assert.True(t, db.IsNotFoundError(err))

	doc := &model.BorrowerDocument{ID: account, FirstSeen: 100}
	require.NoError(t, testDB.SaveNewBorrower(ctx, doc))

	// first seen is never moved
	err = testDB.SaveNewBorrower(ctx, &model.BorrowerDocument{ID: account, FirstSeen: 200})
	require.Error(t, err)
	assert.True(t, db.IsDuplicateKeyError(err))

	stored, err := testDB.GetBorrower(ctx, account)
	require.NoError(t, err)
	assert.Equal(t, doc, stored)

	require.NoError(t, testDB.SaveNewBorrower(ctx, &model.BorrowerDocument{ID: testutil.RandomAddress(t)}))
	count, err := testDB.CountBorrowers(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count)
}

func TestActiveLoan(t *testing.T) {
	ctx := t.Context()
	t.Cleanup(func() {
		resetDatabase(t)
	})

	account := testutil.RandomAddress(t)
	_, err := testDB.GetActiveLoan(ctx, account)
	assert.True(t, db.IsNotFoundError(err))

	loan := model.NewActiveLoan(account)
	loan.Principal = testutil.RandomAmount()
	loan.AmountDue = loan.Principal.AddRaw(100)
	loan.FeeBps = 250
	loan.Start = 1000
	loan.Due = 1000 + 30*86400
	loan.Active = true
	require.NoError(t, testDB.SaveActiveLoan(ctx, loan))

	loan.Active = false
	require.NoError(t, testDB.SaveActiveLoan(ctx, loan))

	stored, err := testDB.GetActiveLoan(ctx, account)
	require.NoError(t, err)
	assertSameDocument(t, loan, stored)
}
