package api

import (
	"fmt"
	"net/http"

	"github.com/lendoor/lendoor-indexer/internal/types"
)

func (h *Handler) HealthCheck(r *http.Request) (*Result, *types.Error) {
	if err := h.db.Ping(r.Context()); err != nil {
		return nil, types.NewError(http.StatusServiceUnavailable, types.InternalServiceError, fmt.Errorf("store unreachable: %w", err))
	}
	return NewResult("ok"), nil
}
