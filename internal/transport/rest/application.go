package rest

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"lamf-backend/internal/domain"
	"lamf-backend/internal/repository"
	"lamf-backend/internal/service"
)

type collateralInput struct {
	FundName    string          `json:"fundName" validate:"required"`
	FolioNumber string          `json:"folioNumber" validate:"required"`
	Units       decimal.Decimal `json:"units"`
	NAVPerUnit  decimal.Decimal `json:"navPerUnit"`
	PledgeDate  *time.Time      `json:"pledgeDate"`
}

func (in *collateralInput) toDomain() domain.Collateral {
	c := domain.Collateral{
		FundName:    in.FundName,
		FolioNumber: in.FolioNumber,
		Units:       in.Units,
		NAVPerUnit:  in.NAVPerUnit,
	}
	if in.PledgeDate != nil {
		c.PledgeDate = *in.PledgeDate
	}
	return c
}

type createApplicationRequest struct {
	Customer        customerRequest   `json:"customer"`
	LoanProductID   uuid.UUID         `json:"loanProductId" validate:"required"`
	RequestedAmount decimal.Decimal   `json:"requestedAmount"`
	Collaterals     []collateralInput `json:"collaterals" validate:"required,min=1,dive"`
}

type updateApplicationStatusRequest struct {
	Status           string           `json:"status" validate:"required"`
	RejectionReason  *string          `json:"rejectionReason"`
	SanctionedAmount *decimal.Decimal `json:"sanctionedAmount"`
	TenureMonths     *int             `json:"tenureMonths"`
}

func (h *Handler) listApplications(w http.ResponseWriter, r *http.Request) {
	var f repository.ApplicationFilter
	if s := r.URL.Query().Get("status"); s != "" {
		status := domain.ApplicationStatus(s)
		f.Status = &status
	}
	if s := r.URL.Query().Get("customerId"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			WriteError(w, domain.NewValidationError("customerId", "must be a valid UUID"))
			return
		}
		f.CustomerID = &id
	}

	applications, err := h.applications.List(r.Context(), f)
	if err != nil {
		WriteError(w, err)
		return
	}
	SuccessList(w, len(applications), applications)
}

func (h *Handler) getApplication(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	application, err := h.applications.GetByID(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}
	Success(w, "", application)
}

func (h *Handler) createApplication(w http.ResponseWriter, r *http.Request) {
	var req createApplicationRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	collaterals := make([]domain.Collateral, len(req.Collaterals))
	for i := range req.Collaterals {
		collaterals[i] = req.Collaterals[i].toDomain()
	}

	application, err := h.applications.Create(r.Context(), service.CreateApplicationInput{
		Customer:        req.Customer.toDomain(),
		LoanProductID:   req.LoanProductID,
		RequestedAmount: req.RequestedAmount,
		Collaterals:     collaterals,
	})
	if err != nil {
		WriteError(w, err)
		return
	}
	Created(w, "Loan application created successfully", application)
}

func (h *Handler) updateApplicationStatus(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	var req updateApplicationStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	application, err := h.applications.UpdateStatus(r.Context(), id, service.UpdateApplicationStatusInput{
		Status:           domain.ApplicationStatus(req.Status),
		RejectionReason:  req.RejectionReason,
		SanctionedAmount: req.SanctionedAmount,
		TenureMonths:     req.TenureMonths,
	})
	if err != nil {
		WriteError(w, err)
		return
	}
	Success(w, "Loan application status updated", application)
}

func (h *Handler) deleteApplication(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.applications.Delete(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}
	Success(w, "Loan application deleted successfully", nil)
}
