package rest

import (
	"net/http"

	"github.com/shopspring/decimal"

	"lamf-backend/internal/domain"
	"lamf-backend/internal/service"
)

type repaymentRequest struct {
	Amount          decimal.Decimal `json:"amount"`
	ReferenceNumber *string         `json:"referenceNumber"`
	Notes           *string         `json:"notes"`
}

type loanStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *Handler) listLoans(w http.ResponseWriter, r *http.Request) {
	var status *domain.LoanStatus
	if s := r.URL.Query().Get("status"); s != "" {
		ls := domain.LoanStatus(s)
		status = &ls
	}

	loans, err := h.loans.List(r.Context(), status)
	if err != nil {
		WriteError(w, err)
		return
	}
	SuccessList(w, len(loans), loans)
}

func (h *Handler) getLoan(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	loan, err := h.loans.GetByID(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}
	Success(w, "", loan)
}

func (h *Handler) recordRepayment(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	var req repaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	loan, err := h.loans.RecordRepayment(r.Context(), id, service.RecordRepaymentInput{
		Amount:          req.Amount,
		ReferenceNumber: req.ReferenceNumber,
		Notes:           req.Notes,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	message := "Repayment recorded successfully"
	if loan.Status == domain.LoanClosed {
		message = "Loan closed successfully"
	}
	Success(w, message, loan)
}

func (h *Handler) updateLoanStatus(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	var req loanStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	loan, err := h.loans.UpdateStatus(r.Context(), id, domain.LoanStatus(req.Status))
	if err != nil {
		WriteError(w, err)
		return
	}
	Success(w, "Loan status updated successfully", loan)
}
