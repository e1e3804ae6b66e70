package cli

import (
	"strings"
	"testing"
	"time"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lendoor/lendoor-indexer/internal/config"
	"github.com/lendoor/lendoor-indexer/internal/db/memdb"
	"github.com/lendoor/lendoor-indexer/internal/services"
	"github.com/lendoor/lendoor-indexer/internal/types"
)

const replayFile = `{"kind":"LoanOpened","tx_hash":"0x1111111111111111111111111111111111111111111111111111111111111111","log_index":0,"block_number":10,"block_timestamp":1700000000,"params":{"user":"0x00000000000000000000000000000000000000a1","principal":"1000","amount_due":"1100","fee_bps":1000,"due":1702592000}}

{"kind":"Borrow","tx_hash":"0x2222222222222222222222222222222222222222222222222222222222222222","log_index":1,"block_number":11,"block_timestamp":1700000100,"params":{"account":"0x00000000000000000000000000000000000000a1"}}
{"kind":"Approval","tx_hash":"0x3333333333333333333333333333333333333333333333333333333333333333","log_index":0,"block_number":12,"block_timestamp":1700000200,"params":{}}
{"kind":"LoanClosed","tx_hash":"0x4444444444444444444444444444444444444444444444444444444444444444","log_index":2,"block_number":13,"block_timestamp":1700000300,"params":{"user":"0x00000000000000000000000000000000000000a1","paid":"1100"}}
`

func testService(store *memdb.Store) *services.Service {
	cfg := &config.Config{
		Queue: config.QueueConfig{MaxRetryAttempts: 1, RetryInterval: time.Millisecond},
	}
	return services.NewService(cfg, store)
}

func TestReplay(t *testing.T) {
	t.Run("applies the file in order", func(t *testing.T) {
		store := memdb.New()

		var seen []types.EventKind
		result, err := replay(t.Context(), strings.NewReader(replayFile), testService(store), func(event *types.Event) {
			seen = append(seen, event.Kind)
		})
		require.NoError(t, err)
		assert.Equal(t, replayResult{events: 4, skipped: 1}, result)
		assert.Equal(t, []types.EventKind{"LoanOpened", "Borrow", "Approval", "LoanClosed"}, seen)

		stat, err := store.GetProtocolStat(t.Context())
		require.NoError(t, err)
		assert.EqualValues(t, 1, stat.LoansOriginated)
		assert.True(t, stat.InterestRepaid.Equal(math.NewInt(100)))

		pos, err := store.GetLastProcessedPosition(t.Context())
		require.NoError(t, err)
		assert.Equal(t, types.LogPosition{BlockNumber: 13, LogIndex: 2}, *pos)
	})
	t.Run("restart skips applied events", func(t *testing.T) {
		store := memdb.New()
		service := testService(store)

		_, err := replay(t.Context(), strings.NewReader(replayFile), service, nil)
		require.NoError(t, err)
		_, err = replay(t.Context(), strings.NewReader(replayFile), service, nil)
		require.NoError(t, err)

		stat, err := store.GetProtocolStat(t.Context())
		require.NoError(t, err)
		assert.EqualValues(t, 1, stat.LoansOriginated)
	})
	t.Run("undecodable line stops the replay", func(t *testing.T) {
		store := memdb.New()
		result, err := replay(t.Context(), strings.NewReader("{\"kind\":\n"), testService(store), nil)
		require.ErrorContains(t, err, "line 1")
		assert.Zero(t, result.events)
	})
}
