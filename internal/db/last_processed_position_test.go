//go:build integration

package db_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lendoor/lendoor-indexer/internal/types"
)

func TestLastProcessedPosition(t *testing.T) {
	ctx := t.Context()
	t.Cleanup(func() {
		resetDatabase(t)
	})
	t.Run("no documents", func(t *testing.T) {
		position, err := testDB.GetLastProcessedPosition(ctx)
		require.NoError(t, err)
		assert.Nil(t, position)
	})
	t.Run("upsert", func(t *testing.T) {
		// on first iteration we insert the doc, on the next ones we update it
		positions := []types.LogPosition{
			{BlockNumber: 100, LogIndex: 3},
			{BlockNumber: 100, LogIndex: 4},
			{BlockNumber: 1000, LogIndex: 0},
		}
		for _, position := range positions {
			err := testDB.UpdateLastProcessedPosition(ctx, position)
			require.NoError(t, err)

			actual, err := testDB.GetLastProcessedPosition(ctx)
			require.NoError(t, err)
			require.NotNil(t, actual)
			assert.Equal(t, position, *actual)
		}
	})
}
