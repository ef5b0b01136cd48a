package rest

import (
	"net/http"

	"lamf-backend/internal/domain"
)

type customerRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"required"`
	PANCard string `json:"panCard" validate:"required"`
	Address string `json:"address"`
	City    string `json:"city"`
	Pincode string `json:"pincode"`
}

func (req *customerRequest) toDomain() domain.Customer {
	return domain.Customer{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		PANCard: req.PANCard,
		Address: req.Address,
		City:    req.City,
		Pincode: req.Pincode,
	}
}

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.customers.List(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	SuccessList(w, len(customers), customers)
}

func (h *Handler) getCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	customer, err := h.customers.GetByID(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}
	Success(w, "", customer)
}

func (h *Handler) createCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	c := req.toDomain()
	customer, err := h.customers.Create(r.Context(), &c)
	if err != nil {
		WriteError(w, err)
		return
	}
	Created(w, "Customer created successfully", customer)
}

func (h *Handler) updateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	var req customerRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	c := req.toDomain()
	customer, err := h.customers.Update(r.Context(), id, &c)
	if err != nil {
		WriteError(w, err)
		return
	}
	Success(w, "Customer updated successfully", customer)
}

func (h *Handler) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.customers.Delete(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}
	Success(w, "Customer deleted successfully", nil)
}
