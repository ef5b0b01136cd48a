package rest

import (
	"net/http"

	"github.com/shopspring/decimal"

	"lamf-backend/internal/domain"
)

type productRequest struct {
	Name          string          `json:"name" validate:"required"`
	Description   string          `json:"description"`
	InterestRate  decimal.Decimal `json:"interestRate"`
	MinLoanAmount decimal.Decimal `json:"minLoanAmount"`
	MaxLoanAmount decimal.Decimal `json:"maxLoanAmount"`
	MaxTenure     int             `json:"maxTenure"`
	ProcessingFee decimal.Decimal `json:"processingFee"`
	LTVRatio      decimal.Decimal `json:"ltvRatio"`
	Status        string          `json:"status"`
}

func (req *productRequest) toDomain() *domain.LoanProduct {
	return &domain.LoanProduct{
		Name:          req.Name,
		Description:   req.Description,
		InterestRate:  req.InterestRate,
		MinLoanAmount: req.MinLoanAmount,
		MaxLoanAmount: req.MaxLoanAmount,
		MaxTenure:     req.MaxTenure,
		ProcessingFee: req.ProcessingFee,
		LTVRatio:      req.LTVRatio,
		Status:        domain.ProductStatus(req.Status),
	}
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	var status *domain.ProductStatus
	if s := r.URL.Query().Get("status"); s != "" {
		ps := domain.ProductStatus(s)
		status = &ps
	}

	products, err := h.products.List(r.Context(), status)
	if err != nil {
		WriteError(w, err)
		return
	}
	SuccessList(w, len(products), products)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	product, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}
	Success(w, "", product)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	product, err := h.products.Create(r.Context(), req.toDomain())
	if err != nil {
		WriteError(w, err)
		return
	}
	Created(w, "Loan product created successfully", product)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	product, err := h.products.Update(r.Context(), id, req.toDomain())
	if err != nil {
		WriteError(w, err)
		return
	}
	Success(w, "Loan product updated successfully", product)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.products.Delete(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}
	Success(w, "Loan product deleted successfully", nil)
}
