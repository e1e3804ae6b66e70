package api

import (
	"net/http"

	"github.com/lendoor/lendoor-indexer/internal/db"
	"github.com/lendoor/lendoor-indexer/internal/db/model"
	"github.com/lendoor/lendoor-indexer/internal/types"
)

// GetProtocolStats returns the global stats. Before the first loan event
// every counter is zero.
func (h *Handler) GetProtocolStats(r *http.Request) (*Result, *types.Error) {
	stat, err := h.db.GetProtocolStat(r.Context())
	if err != nil {
		if !db.IsNotFoundError(err) {
			return nil, types.NewInternalServiceError(err)
		}
		stat = model.NewProtocolStat()
	}
	return NewResult(stat), nil
}

// GetDailyStats returns the day buckets starting in [from, to), oldest first.
func (h *Handler) GetDailyStats(r *http.Request) (*Result, *types.Error) {
	filter, perr := h.timeRangeFilter(r)
	if perr != nil {
		return nil, perr
	}

	stats, err := h.db.ListDailyProtocolStats(r.Context(), filter)
	if err != nil {
		return nil, types.NewInternalServiceError(err)
	}
	return NewResult(stats), nil
}
