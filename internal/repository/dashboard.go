package repository

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"

	"lamf-backend/internal/domain"
)

// DashboardStats is the aggregate snapshot served by the dashboard endpoint.
// Sums come back as COALESCE(..., 0) so an empty table reads as zero, not null.
type DashboardStats struct {
	TotalCustomers       int             `json:"totalCustomers"`
	TotalLoanProducts    int             `json:"totalLoanProducts"`
	TotalApplications    int             `json:"totalApplications"`
	PendingApplications  int             `json:"pendingApplications"`
	ApprovedApplications int             `json:"approvedApplications"`
	RejectedApplications int             `json:"rejectedApplications"`
	ActiveLoans          int             `json:"activeLoans"`
	TotalDisbursed       decimal.Decimal `json:"totalDisbursed"`
	TotalOutstanding     decimal.Decimal `json:"totalOutstanding"`
	TotalCollateralValue decimal.Decimal `json:"totalCollateralValue"`
}

// RecentTransaction carries the customer name alongside the movement so the
// dashboard feed needs no extra lookups.
type RecentTransaction struct {
	domain.Transaction
	CustomerName string `json:"customerName"`
}

type DashboardRepository struct {
	db *sql.DB
}

func NewDashboardRepository(db *sql.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

func (r *DashboardRepository) Stats(ctx context.Context) (*DashboardStats, error) {
	var s DashboardStats
	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM customers),
			(SELECT COUNT(*) FROM loan_products WHERE status = 'ACTIVE'),
			(SELECT COUNT(*) FROM loan_applications),
			(SELECT COUNT(*) FROM loan_applications WHERE status IN ('SUBMITTED', 'UNDER_REVIEW')),
			(SELECT COUNT(*) FROM loan_applications WHERE status = 'APPROVED'),
			(SELECT COUNT(*) FROM loan_applications WHERE status = 'REJECTED'),
			(SELECT COUNT(*) FROM loans WHERE status = 'ACTIVE'),
			(SELECT COALESCE(SUM(disbursed_amount), 0) FROM loans),
			(SELECT COALESCE(SUM(outstanding_amount), 0) FROM loans WHERE status = 'ACTIVE'),
			(SELECT COALESCE(SUM(total_value), 0) FROM collaterals WHERE status = 'PLEDGED')`,
	).Scan(
		&s.TotalCustomers,
		&s.TotalLoanProducts,
		&s.TotalApplications,
		&s.PendingApplications,
		&s.ApprovedApplications,
		&s.RejectedApplications,
		&s.ActiveLoans,
		&s.TotalDisbursed,
		&s.TotalOutstanding,
		&s.TotalCollateralValue,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *DashboardRepository) RecentApplications(ctx context.Context, limit int) ([]domain.LoanApplication, error) {
	query := applicationBaseQuery + " ORDER BY a.created_at DESC LIMIT $1"
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.LoanApplication
	for rows.Next() {
		var a domain.LoanApplication
		if err := scanApplication(rows, &a); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

func (r *DashboardRepository) RecentTransactions(ctx context.Context, limit int) ([]RecentTransaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.id, t.loan_id, t.type, t.amount, t.transaction_date,
			t.reference_number, t.notes, t.created_at, c.name
		FROM transactions t
		JOIN loans             l ON l.id = t.loan_id
		JOIN loan_applications a ON a.id = l.loan_application_id
		JOIN customers         c ON c.id = a.customer_id
		ORDER BY t.transaction_date DESC, t.created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []RecentTransaction
	for rows.Next() {
		var t RecentTransaction
		err := rows.Scan(&t.ID, &t.LoanID, &t.Type, &t.Amount, &t.TransactionDate,
			&t.ReferenceNumber, &t.Notes, &t.CreatedAt, &t.CustomerName)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}
