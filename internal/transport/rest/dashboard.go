package rest

import (
	"net/http"

	"lamf-backend/internal/domain"
)

func (h *Handler) getDashboard(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.dashboard.Snapshot(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	Success(w, "", snapshot)
}

func (h *Handler) generateLoanBook(w http.ResponseWriter, r *http.Request) {
	var status *domain.LoanStatus
	if s := r.URL.Query().Get("status"); s != "" {
		ls := domain.LoanStatus(s)
		status = &ls
	}

	report, err := h.reports.GenerateLoanBook(r.Context(), status)
	if err != nil {
		WriteError(w, err)
		return
	}
	Created(w, "Loan book report generated", report)
}
