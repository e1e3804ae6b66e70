package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/lendoor/lendoor-indexer/internal/config"
	"github.com/lendoor/lendoor-indexer/internal/db"
	"github.com/lendoor/lendoor-indexer/internal/types"
)

// Handler serves the materialized entities. It only ever reads the store.
type Handler struct {
	cfg *config.APIConfig
	db  db.DbInterface
}

func NewHandler(cfg *config.APIConfig, db db.DbInterface) *Handler {
	return &Handler{
		cfg: cfg,
		db:  db,
	}
}

type handlerFunc func(r *http.Request) (*Result, *types.Error)

// Result is the body of a successful response
type Result struct {
	Data   any `json:"data"`
	Status int `json:"-"`
}

func NewResult(data any) *Result {
	return &Result{Data: data, Status: http.StatusOK}
}

type ErrorResponse struct {
	ErrorCode string `json:"errorCode"`
	Message   string `json:"message"`
}

func (h *Handler) registerHandler(f handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := f(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, r, result.Status, result)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err *types.Error) {
	status := err.StatusCode
	if status == 0 {
		status = http.StatusInternalServerError
	}

	message := err.Error()
	if status >= http.StatusInternalServerError {
		log.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		// store details stay in the logs
		message = "internal service error"
	}

	writeJSON(w, r, status, ErrorResponse{
		ErrorCode: err.ErrorCode.String(),
		Message:   message,
	})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write response")
	}
}

// limitParam reads the optional page size, capped to the configured maximum.
func (h *Handler) limitParam(r *http.Request) (int64, *types.Error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return h.cfg.MaxPageSize, nil
	}
	limit, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || limit <= 0 {
		return 0, types.NewBadRequestError("invalid limit %q", raw)
	}
	return min(limit, h.cfg.MaxPageSize), nil
}

// timestampParam reads an optional unix timestamp, zero when absent.
func timestampParam(r *http.Request, name string) (uint64, *types.Error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	ts, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, types.NewBadRequestError("invalid %s %q", name, raw)
	}
	return ts, nil
}

func (h *Handler) timeRangeFilter(r *http.Request) (db.TimeRangeFilter, *types.Error) {
	from, err := timestampParam(r, "from")
	if err != nil {
		return db.TimeRangeFilter{}, err
	}
	to, err := timestampParam(r, "to")
	if err != nil {
		return db.TimeRangeFilter{}, err
	}
	if to != 0 && to < from {
		return db.TimeRangeFilter{}, types.NewBadRequestError("to %d is before from %d", to, from)
	}
	limit, err := h.limitParam(r)
	if err != nil {
		return db.TimeRangeFilter{}, err
	}
	return db.TimeRangeFilter{From: from, To: to, Limit: limit}, nil
}
