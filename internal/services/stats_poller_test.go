package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lendoor/lendoor-indexer/testutil"
)

func TestExportStats(t *testing.T) {
	t.Run("nothing recorded yet", func(t *testing.T) {
		srv, _ := newTestService(t)
		require.NoError(t, srv.exportStats(t.Context()))
	})
	t.Run("exports current stats", func(t *testing.T) {
		srv, _ := newTestService(t)
		events := newEventLog(t)
		processAll(t, srv,
			events.borrow(testutil.RandomAddress(t), 10, t0),
			events.borrow(testutil.RandomAddress(t), 10, t0+1),
		)
		require.NoError(t, srv.exportStats(t.Context()))
	})
	t.Run("store failure", func(t *testing.T) {
		srv, store := newTestService(t)
		processAll(t, srv, newEventLog(t).borrow(testutil.RandomAddress(t), 10, t0))

		errStore := errors.New("store unavailable")
		store.FailOn["CountBorrowers"] = errStore
		assert.ErrorIs(t, srv.exportStats(t.Context()), errStore)
	})
}
