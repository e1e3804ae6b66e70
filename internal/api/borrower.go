package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lendoor/lendoor-indexer/internal/db"
	"github.com/lendoor/lendoor-indexer/internal/db/model"
	"github.com/lendoor/lendoor-indexer/internal/types"
	"github.com/lendoor/lendoor-indexer/pkg"
)

type BorrowerResponse struct {
	*model.BorrowerDocument
	Loan *model.ActiveLoanDocument `json:"loan"`
}

// GetBorrower returns the borrower with the terms of its latest loan, if any.
func (h *Handler) GetBorrower(r *http.Request) (*Result, *types.Error) {
	account, err := pkg.NormalizeAddress(chi.URLParam(r, "account"))
	if err != nil {
		return nil, types.NewBadRequestError("%v", err)
	}

	borrower, err := h.db.GetBorrower(r.Context(), account)
	if err != nil {
		if db.IsNotFoundError(err) {
			return nil, types.NewNotFoundError("borrower not found")
		}
		return nil, types.NewInternalServiceError(err)
	}

	loan, err := h.db.GetActiveLoan(r.Context(), account)
	if err != nil {
		if !db.IsNotFoundError(err) {
			return nil, types.NewInternalServiceError(err)
		}
		// a borrow through the vault alone leaves no loan record
		loan = nil
	}

	return NewResult(BorrowerResponse{
		BorrowerDocument: borrower,
		Loan:             loan,
	}), nil
}
