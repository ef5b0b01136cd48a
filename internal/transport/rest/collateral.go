package rest

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"lamf-backend/internal/domain"
	"lamf-backend/internal/repository"
)

type createCollateralRequest struct {
	LoanApplicationID uuid.UUID       `json:"loanApplicationId" validate:"required"`
	FundName          string          `json:"fundName" validate:"required"`
	FolioNumber       string          `json:"folioNumber" validate:"required"`
	Units             decimal.Decimal `json:"units"`
	NAVPerUnit        decimal.Decimal `json:"navPerUnit"`
	PledgeDate        *time.Time      `json:"pledgeDate"`
}

type collateralStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *Handler) listCollaterals(w http.ResponseWriter, r *http.Request) {
	var f repository.CollateralFilter
	if s := r.URL.Query().Get("status"); s != "" {
		status := domain.CollateralStatus(s)
		f.Status = &status
	}
	if s := r.URL.Query().Get("loanApplicationId"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			WriteError(w, domain.NewValidationError("loanApplicationId", "must be a valid UUID"))
			return
		}
		f.LoanApplicationID = &id
	}

	collaterals, err := h.collaterals.List(r.Context(), f)
	if err != nil {
		WriteError(w, err)
		return
	}
	SuccessList(w, len(collaterals), collaterals)
}

func (h *Handler) listCollateralsByApplication(w http.ResponseWriter, r *http.Request) {
	appID, err := urlUUID(r, "applicationId")
	if err != nil {
		WriteError(w, err)
		return
	}

	collaterals, err := h.collaterals.ListByApplication(r.Context(), appID)
	if err != nil {
		WriteError(w, err)
		return
	}
	SuccessList(w, len(collaterals), collaterals)
}

func (h *Handler) getCollateral(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	collateral, err := h.collaterals.GetByID(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}
	Success(w, "", collateral)
}

func (h *Handler) createCollateral(w http.ResponseWriter, r *http.Request) {
	var req createCollateralRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	c := domain.Collateral{
		LoanApplicationID: req.LoanApplicationID,
		FundName:          req.FundName,
		FolioNumber:       req.FolioNumber,
		Units:             req.Units,
		NAVPerUnit:        req.NAVPerUnit,
	}
	if req.PledgeDate != nil {
		c.PledgeDate = *req.PledgeDate
	}

	collateral, err := h.collaterals.Create(r.Context(), &c)
	if err != nil {
		WriteError(w, err)
		return
	}
	Created(w, "Collateral pledged successfully", collateral)
}

func (h *Handler) updateCollateralStatus(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	var req collateralStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	collateral, err := h.collaterals.UpdateStatus(r.Context(), id, domain.CollateralStatus(req.Status))
	if err != nil {
		WriteError(w, err)
		return
	}
	Success(w, "Collateral status updated successfully", collateral)
}

func (h *Handler) deleteCollateral(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.collaterals.Delete(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}
	Success(w, "Collateral deleted successfully", nil)
}
