package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"lamf-backend/internal/domain"
	"lamf-backend/internal/repository"
	"lamf-backend/internal/service"
)

type ProductService interface {
	List(ctx context.Context, status *domain.ProductStatus) ([]domain.LoanProduct, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.LoanProduct, error)
	Create(ctx context.Context, p *domain.LoanProduct) (*domain.LoanProduct, error)
	Update(ctx context.Context, id uuid.UUID, p *domain.LoanProduct) (*domain.LoanProduct, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type CustomerService interface {
	List(ctx context.Context) ([]domain.Customer, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error)
	Create(ctx context.Context, c *domain.Customer) (*domain.Customer, error)
	Update(ctx context.Context, id uuid.UUID, c *domain.Customer) (*domain.Customer, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ApplicationService interface {
	List(ctx context.Context, f repository.ApplicationFilter) ([]domain.LoanApplication, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.LoanApplication, error)
	Create(ctx context.Context, in service.CreateApplicationInput) (*domain.LoanApplication, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, in service.UpdateApplicationStatusInput) (*domain.LoanApplication, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type CollateralService interface {
	List(ctx context.Context, f repository.CollateralFilter) ([]domain.Collateral, error)
	ListByApplication(ctx context.Context, appID uuid.UUID) ([]domain.Collateral, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Collateral, error)
	Create(ctx context.Context, c *domain.Collateral) (*domain.Collateral, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.CollateralStatus) (*domain.Collateral, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type LoanService interface {
	List(ctx context.Context, status *domain.LoanStatus) ([]domain.Loan, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error)
	RecordRepayment(ctx context.Context, loanID uuid.UUID, in service.RecordRepaymentInput) (*domain.Loan, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.LoanStatus) (*domain.Loan, error)
}

type DashboardService interface {
	Snapshot(ctx context.Context) (*service.DashboardSnapshot, error)
}

type ReportService interface {
	GenerateLoanBook(ctx context.Context, status *domain.LoanStatus) (*service.LoanBookReport, error)
}

type Handler struct {
	products     ProductService
	customers    CustomerService
	applications ApplicationService
	collaterals  CollateralService
	loans        LoanService
	dashboard    DashboardService
	reports      ReportService
}

func NewHandler(
	products ProductService,
	customers CustomerService,
	applications ApplicationService,
	collaterals CollateralService,
	loans LoanService,
	dashboard DashboardService,
	reports ReportService,
) *Handler {
	return &Handler{
		products:     products,
		customers:    customers,
		applications: applications,
		collaterals:  collaterals,
		loans:        loans,
		dashboard:    dashboard,
		reports:      reports,
	}
}

func (h *Handler) InitRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middleware.Timeout(60*time.Second),
	)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		Success(w, "ok", nil)
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/loan-products", func(r chi.Router) {
			r.Get("/", h.listProducts)
			r.Post("/", h.createProduct)
			r.Get("/{id}", h.getProduct)
			r.Put("/{id}", h.updateProduct)
			r.Delete("/{id}", h.deleteProduct)
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", h.listCustomers)
			r.Post("/", h.createCustomer)
			r.Get("/{id}", h.getCustomer)
			r.Put("/{id}", h.updateCustomer)
			r.Delete("/{id}", h.deleteCustomer)
		})

		r.Route("/loan-applications", func(r chi.Router) {
			r.Get("/", h.listApplications)
			r.Post("/", h.createApplication)
			r.Get("/{id}", h.getApplication)
			r.Put("/{id}/status", h.updateApplicationStatus)
			r.Delete("/{id}", h.deleteApplication)
		})

		r.Route("/collaterals", func(r chi.Router) {
			r.Get("/", h.listCollaterals)
			r.Post("/", h.createCollateral)
			r.Get("/application/{applicationId}", h.listCollateralsByApplication)
			r.Get("/{id}", h.getCollateral)
			r.Put("/{id}/status", h.updateCollateralStatus)
			r.Delete("/{id}", h.deleteCollateral)
		})

		r.Route("/loans", func(r chi.Router) {
			r.Get("/", h.listLoans)
			r.Get("/{id}", h.getLoan)
			r.Post("/{id}/repayment", h.recordRepayment)
			r.Put("/{id}/status", h.updateLoanStatus)
		})

		r.Get("/dashboard", h.getDashboard)
		r.Post("/reports/loans", h.generateLoanBook)
	})

	return r
}
