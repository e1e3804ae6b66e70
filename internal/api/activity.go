package api

import (
	"net/http"

	"github.com/lendoor/lendoor-indexer/internal/db"
	"github.com/lendoor/lendoor-indexer/internal/types"
	"github.com/lendoor/lendoor-indexer/pkg"
)

// activityFilter reads the optional account filter named param and the page
// size.
func (h *Handler) activityFilter(r *http.Request, param string) (db.ActivityFilter, *types.Error) {
	var filter db.ActivityFilter

	if raw := r.URL.Query().Get(param); raw != "" {
		account, err := pkg.NormalizeAddress(raw)
		if err != nil {
			return filter, types.NewBadRequestError("invalid %s: %v", param, err)
		}
		filter.Account = account
	}

	limit, perr := h.limitParam(r)
	if perr != nil {
		return filter, perr
	}
	filter.Limit = limit
	return filter, nil
}

func (h *Handler) GetVaultActivities(r *http.Request) (*Result, *types.Error) {
	filter, perr := h.activityFilter(r, "account")
	if perr != nil {
		return nil, perr
	}

	activities, err := h.db.ListVaultActivities(r.Context(), filter)
	if err != nil {
		return nil, types.NewInternalServiceError(err)
	}
	return NewResult(activities), nil
}

func (h *Handler) GetLoanActivities(r *http.Request) (*Result, *types.Error) {
	filter, perr := h.activityFilter(r, "borrower")
	if perr != nil {
		return nil, perr
	}

	activities, err := h.db.ListLoanActivities(r.Context(), filter)
	if err != nil {
		return nil, types.NewInternalServiceError(err)
	}
	return NewResult(activities), nil
}

// GetVaultStatusSnapshots returns snapshots by block timestamp, oldest first.
func (h *Handler) GetVaultStatusSnapshots(r *http.Request) (*Result, *types.Error) {
	filter, perr := h.timeRangeFilter(r)
	if perr != nil {
		return nil, perr
	}

	snapshots, err := h.db.ListVaultStatusSnapshots(r.Context(), filter)
	if err != nil {
		return nil, types.NewInternalServiceError(err)
	}
	return NewResult(snapshots), nil
}
