package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"lamf-backend/internal/domain"
	"lamf-backend/internal/logger"
	"lamf-backend/internal/repository"
	"lamf-backend/internal/service"
)

func init() {
	logger.Init()
}

type stubProducts struct {
	ProductService
	list    func(ctx context.Context, status *domain.ProductStatus) ([]domain.LoanProduct, error)
	getByID func(ctx context.Context, id uuid.UUID) (*domain.LoanProduct, error)
	create  func(ctx context.Context, p *domain.LoanProduct) (*domain.LoanProduct, error)
}

func (s *stubProducts) List(ctx context.Context, status *domain.ProductStatus) ([]domain.LoanProduct, error) {
	return s.list(ctx, status)
}

func (s *stubProducts) GetByID(ctx context.Context, id uuid.UUID) (*domain.LoanProduct, error) {
	return s.getByID(ctx, id)
}

func (s *stubProducts) Create(ctx context.Context, p *domain.LoanProduct) (*domain.LoanProduct, error) {
	return s.create(ctx, p)
}

type stubApplications struct {
	ApplicationService
	create       func(ctx context.Context, in service.CreateApplicationInput) (*domain.LoanApplication, error)
	updateStatus func(ctx context.Context, id uuid.UUID, in service.UpdateApplicationStatusInput) (*domain.LoanApplication, error)
	list         func(ctx context.Context, f repository.ApplicationFilter) ([]domain.LoanApplication, error)
}

func (s *stubApplications) Create(ctx context.Context, in service.CreateApplicationInput) (*domain.LoanApplication, error) {
	return s.create(ctx, in)
}

func (s *stubApplications) UpdateStatus(ctx context.Context, id uuid.UUID, in service.UpdateApplicationStatusInput) (*domain.LoanApplication, error) {
	return s.updateStatus(ctx, id, in)
}

func (s *stubApplications) List(ctx context.Context, f repository.ApplicationFilter) ([]domain.LoanApplication, error) {
	return s.list(ctx, f)
}

type stubLoans struct {
	LoanService
	recordRepayment func(ctx context.Context, loanID uuid.UUID, in service.RecordRepaymentInput) (*domain.Loan, error)
}

func (s *stubLoans) RecordRepayment(ctx context.Context, loanID uuid.UUID, in service.RecordRepaymentInput) (*domain.Loan, error) {
	return s.recordRepayment(ctx, loanID, in)
}

type stubDashboard struct {
	snapshot func(ctx context.Context) (*service.DashboardSnapshot, error)
}

func (s *stubDashboard) Snapshot(ctx context.Context) (*service.DashboardSnapshot, error) {
	return s.snapshot(ctx)
}

func testHandler(products ProductService, applications ApplicationService, loans LoanService, dashboard DashboardService) *Handler {
	return NewHandler(products, nil, applications, nil, loans, dashboard, nil)
}

func doRequest(t *testing.T, h *Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, target, &buf)
	rec := httptest.NewRecorder()
	h.InitRouter().ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return resp
}

func TestListProductsEnvelope(t *testing.T) {
	products := &stubProducts{
		list: func(ctx context.Context, status *domain.ProductStatus) ([]domain.LoanProduct, error) {
			return []domain.LoanProduct{{Name: "A"}, {Name: "B"}}, nil
		},
	}
	h := testHandler(products, nil, nil, nil)

	rec := doRequest(t, h, http.MethodGet, "/api/loan-products", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	resp := decodeEnvelope(t, rec)
	if !resp.Success {
		t.Error("success = false")
	}
	if resp.Count == nil || *resp.Count != 2 {
		t.Errorf("count = %v, want 2", resp.Count)
	}
}

func TestGetProductNotFound(t *testing.T) {
	products := &stubProducts{
		getByID: func(ctx context.Context, id uuid.UUID) (*domain.LoanProduct, error) {
			return nil, &domain.NotFoundError{Entity: "loan product"}
		},
	}
	h := testHandler(products, nil, nil, nil)

	rec := doRequest(t, h, http.MethodGet, "/api/loan-products/"+uuid.NewString(), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if resp := decodeEnvelope(t, rec); resp.Success {
		t.Error("success = true on error response")
	}
}

func TestGetProductBadID(t *testing.T) {
	h := testHandler(&stubProducts{}, nil, nil, nil)

	rec := doRequest(t, h, http.MethodGet, "/api/loan-products/not-a-uuid", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCreateProductValidation(t *testing.T) {
	h := testHandler(&stubProducts{}, nil, nil, nil)

	rec := doRequest(t, h, http.MethodPost, "/api/loan-products", map[string]any{
		"description": "missing name",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCreateApplication(t *testing.T) {
	var got service.CreateApplicationInput
	applications := &stubApplications{
		create: func(ctx context.Context, in service.CreateApplicationInput) (*domain.LoanApplication, error) {
			got = in
			return &domain.LoanApplication{ID: uuid.New(), Status: domain.ApplicationSubmitted}, nil
		},
	}
	h := testHandler(nil, applications, nil, nil)

	productID := uuid.New()
	rec := doRequest(t, h, http.MethodPost, "/api/loan-applications", map[string]any{
		"customer": map[string]any{
			"name":    "Rajesh Kumar",
			"email":   "rajesh.kumar@email.com",
			"phone":   "+91-9876543210",
			"panCard": "ABCDE1234F",
		},
		"loanProductId":   productID,
		"requestedAmount": 500000,
		"collaterals": []map[string]any{
			{
				"fundName":    "HDFC Equity Fund - Direct Growth",
				"folioNumber": "HDC123456789",
				"units":       1200,
				"navPerUnit":  650.50,
			},
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body %s", rec.Code, rec.Body.String())
	}

	if got.LoanProductID != productID {
		t.Errorf("product id = %s, want %s", got.LoanProductID, productID)
	}
	if !got.RequestedAmount.Equal(decimal.NewFromInt(500000)) {
		t.Errorf("requested amount = %s", got.RequestedAmount)
	}
	if len(got.Collaterals) != 1 {
		t.Fatalf("collaterals = %d, want 1", len(got.Collaterals))
	}
}

func TestCreateApplicationWithoutCollaterals(t *testing.T) {
	h := testHandler(nil, &stubApplications{}, nil, nil)

	rec := doRequest(t, h, http.MethodPost, "/api/loan-applications", map[string]any{
		"customer": map[string]any{
			"name":    "Rajesh Kumar",
			"email":   "rajesh.kumar@email.com",
			"phone":   "+91-9876543210",
			"panCard": "ABCDE1234F",
		},
		"loanProductId":   uuid.New(),
		"requestedAmount": 500000,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestUpdateApplicationStatusInvalidState(t *testing.T) {
	applications := &stubApplications{
		updateStatus: func(ctx context.Context, id uuid.UUID, in service.UpdateApplicationStatusInput) (*domain.LoanApplication, error) {
			return nil, &domain.InvalidStateError{Message: "cannot move an application in status APPROVED to DISBURSED"}
		},
	}
	h := testHandler(nil, applications, nil, nil)

	rec := doRequest(t, h, http.MethodPut, "/api/loan-applications/"+uuid.NewString()+"/status", map[string]any{
		"status": "DISBURSED",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestRecordRepayment(t *testing.T) {
	loanID := uuid.New()
	loans := &stubLoans{
		recordRepayment: func(ctx context.Context, id uuid.UUID, in service.RecordRepaymentInput) (*domain.Loan, error) {
			return &domain.Loan{
				ID:                id,
				OutstandingAmount: decimal.Zero,
				Status:            domain.LoanClosed,
			}, nil
		},
	}
	h := testHandler(nil, nil, loans, nil)

	rec := doRequest(t, h, http.MethodPost, "/api/loans/"+loanID.String()+"/repayment", map[string]any{
		"amount": 25000,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if resp := decodeEnvelope(t, rec); resp.Message != "Loan closed successfully" {
		t.Errorf("message = %q", resp.Message)
	}
}

func TestDashboard(t *testing.T) {
	dashboard := &stubDashboard{
		snapshot: func(ctx context.Context) (*service.DashboardSnapshot, error) {
			return &service.DashboardSnapshot{
				Overview: &repository.DashboardStats{TotalCustomers: 3},
			}, nil
		},
	}
	h := testHandler(nil, nil, nil, dashboard)

	rec := doRequest(t, h, http.MethodGet, "/api/dashboard", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	h := testHandler(nil, nil, nil, nil)

	rec := doRequest(t, h, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}
