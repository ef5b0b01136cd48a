package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"lamf-backend/internal/domain"
)

type ApplicationFilter struct {
	Status     *domain.ApplicationStatus
	CustomerID *uuid.UUID
}

type ApplicationRepository struct {
	db *sql.DB
}

func NewApplicationRepository(db *sql.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const applicationColumns = `
	a.id, a.customer_id, a.loan_product_id, a.requested_amount, a.status,
	a.application_date, a.approval_date, a.rejection_reason, a.created_at, a.updated_at`

func scanApplication(row interface{ Scan(...any) error }, a *domain.LoanApplication) error {
	a.Customer = &domain.Customer{}
	a.LoanProduct = &domain.LoanProduct{}
	return row.Scan(
		&a.ID,
		&a.CustomerID,
		&a.LoanProductID,
		&a.RequestedAmount,
		&a.Status,
		&a.ApplicationDate,
		&a.ApprovalDate,
		&a.RejectionReason,
		&a.CreatedAt,
		&a.UpdatedAt,

		&a.Customer.ID,
		&a.Customer.Name,
		&a.Customer.Email,
		&a.Customer.Phone,
		&a.Customer.PANCard,
		&a.Customer.Address,
		&a.Customer.City,
		&a.Customer.Pincode,
		&a.Customer.CreatedAt,
		&a.Customer.UpdatedAt,

		&a.LoanProduct.ID,
		&a.LoanProduct.Name,
		&a.LoanProduct.Description,
		&a.LoanProduct.InterestRate,
		&a.LoanProduct.MinLoanAmount,
		&a.LoanProduct.MaxLoanAmount,
		&a.LoanProduct.MaxTenure,
		&a.LoanProduct.ProcessingFee,
		&a.LoanProduct.LTVRatio,
		&a.LoanProduct.Status,
		&a.LoanProduct.CreatedAt,
		&a.LoanProduct.UpdatedAt,
	)
}

const applicationBaseQuery = `
	SELECT` + applicationColumns + `,
		c.id, c.name, c.email, c.phone, c.pan_card, c.address, c.city, c.pincode, c.created_at, c.updated_at,
		p.id, p.name, p.description, p.interest_rate, p.min_loan_amount, p.max_loan_amount,
		p.max_tenure, p.processing_fee, p.ltv_ratio, p.status, p.created_at, p.updated_at
	FROM loan_applications a
	JOIN customers     c ON c.id = a.customer_id
	JOIN loan_products p ON p.id = a.loan_product_id`

func applicationWhere(f ApplicationFilter) (string, []any) {
	where := []string{"1=1"}
	args := []any{}
	i := 1

	if f.Status != nil {
		where = append(where, fmt.Sprintf("a.status = $%d", i))
		args = append(args, *f.Status)
		i++
	}
	if f.CustomerID != nil {
		where = append(where, fmt.Sprintf("a.customer_id = $%d", i))
		args = append(args, *f.CustomerID)
		i++
	}

	return strings.Join(where, " AND "), args
}

func (r *ApplicationRepository) List(ctx context.Context, f ApplicationFilter) ([]domain.LoanApplication, error) {
	clause, args := applicationWhere(f)
	query := applicationBaseQuery + " WHERE " + clause + " ORDER BY a.created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.LoanApplication
	index := map[uuid.UUID]int{}
	for rows.Next() {
		var a domain.LoanApplication
		if err := scanApplication(rows, &a); err != nil {
			return nil, err
		}
		index[a.ID] = len(result)
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return result, nil
	}

	// batch-hydrate children for the same filter instead of per-row queries
	colQuery := `
		SELECT c.id, c.loan_application_id, c.fund_name, c.folio_number, c.units,
			c.nav_per_unit, c.total_value, c.pledge_date, c.status, c.created_at, c.updated_at
		FROM collaterals c
		JOIN loan_applications a ON a.id = c.loan_application_id
		WHERE ` + clause + ` ORDER BY c.created_at`
	colRows, err := r.db.QueryContext(ctx, colQuery, args...)
	if err != nil {
		return nil, err
	}
	defer colRows.Close()
	for colRows.Next() {
		var c domain.Collateral
		if err := scanCollateral(colRows, &c); err != nil {
			return nil, err
		}
		if i, ok := index[c.LoanApplicationID]; ok {
			result[i].Collaterals = append(result[i].Collaterals, c)
		}
	}
	if err := colRows.Err(); err != nil {
		return nil, err
	}

	loanQuery := `
		SELECT ` + loanColumns + `
		FROM loans l
		JOIN loan_applications a ON a.id = l.loan_application_id
		WHERE ` + clause
	loanRows, err := r.db.QueryContext(ctx, loanQuery, args...)
	if err != nil {
		return nil, err
	}
	defer loanRows.Close()
	for loanRows.Next() {
		var l domain.Loan
		if err := scanLoan(loanRows, &l); err != nil {
			return nil, err
		}
		if i, ok := index[l.LoanApplicationID]; ok {
			result[i].Loan = &l
		}
	}
	return result, loanRows.Err()
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.LoanApplication, error) {
	query := applicationBaseQuery + " WHERE a.id = $1"

	var a domain.LoanApplication
	if err := scanApplication(r.db.QueryRowContext(ctx, query, id), &a); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: "loan application"}
		}
		return nil, err
	}

	cols, err := collateralsForApplication(ctx, r.db, a.ID)
	if err != nil {
		return nil, err
	}
	a.Collaterals = cols

	loan, err := loanForApplication(ctx, r.db, a.ID)
	if err != nil {
		return nil, err
	}
	if loan != nil {
		loan.Transactions, err = transactionsForLoan(ctx, r.db, loan.ID)
		if err != nil {
			return nil, err
		}
		a.Loan = loan
	}

	return &a, nil
}

// CreateWithCollaterals persists the customer (find-or-create by email OR
// PAN), the application, and every collateral snapshot in one transaction.
func (r *ApplicationRepository) CreateWithCollaterals(
	ctx context.Context,
	customer *domain.Customer,
	app *domain.LoanApplication,
	collaterals []domain.Collateral,
) (*domain.LoanApplication, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	resolved, err := findOrCreateTx(ctx, tx, customer)
	if err != nil {
		return nil, fmt.Errorf("resolve customer: %w", err)
	}
	app.CustomerID = resolved.ID

	now := time.Now().UTC()
	app.CreatedAt = now
	app.UpdatedAt = now

	_, err = tx.ExecContext(ctx, `
		INSERT INTO loan_applications (
			id, customer_id, loan_product_id, requested_amount, status,
			application_date, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		app.ID, app.CustomerID, app.LoanProductID, app.RequestedAmount, app.Status,
		app.ApplicationDate, app.CreatedAt, app.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, &domain.NotFoundError{Entity: "loan product"}
		}
		return nil, fmt.Errorf("insert loan application: %w", err)
	}

	for i := range collaterals {
		c := &collaterals[i]
		c.LoanApplicationID = app.ID
		c.CreatedAt = now
		c.UpdatedAt = now
		_, err = tx.ExecContext(ctx, `
			INSERT INTO collaterals (
				id, loan_application_id, fund_name, folio_number, units,
				nav_per_unit, total_value, pledge_date, status, created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
			c.ID, c.LoanApplicationID, c.FundName, c.FolioNumber, c.Units,
			c.NAVPerUnit, c.TotalValue, c.PledgeDate, c.Status, c.CreatedAt, c.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("insert collateral: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	app.Customer = resolved
	app.Collaterals = collaterals
	return app, nil
}

// UpdateStatusWithLoan applies an approve/disburse transition: the status
// write, the loan creation and (when disbursing) the initial transaction
// commit or roll back together.
func (r *ApplicationRepository) UpdateStatusWithLoan(
	ctx context.Context,
	appID uuid.UUID,
	status domain.ApplicationStatus,
	approvalDate time.Time,
	loan *domain.Loan,
	txn *domain.Transaction,
) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE loan_applications SET status = $2, approval_date = $3, updated_at = $4
		WHERE id = $1`,
		appID, status, approvalDate, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("update application status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &domain.NotFoundError{Entity: "loan application"}
	}

	now := time.Now().UTC()
	loan.CreatedAt = now
	loan.UpdatedAt = now
	_, err = tx.ExecContext(ctx, `
		INSERT INTO loans (
			id, loan_application_id, sanctioned_amount, disbursed_amount, interest_rate,
			tenure_months, start_date, end_date, outstanding_amount, status, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		loan.ID, loan.LoanApplicationID, loan.SanctionedAmount, loan.DisbursedAmount,
		loan.InterestRate, loan.TenureMonths, loan.StartDate, loan.EndDate,
		loan.OutstandingAmount, loan.Status, loan.CreatedAt, loan.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			// the 1:1 constraint on loan_application_id is the last line of
			// defence against a double approve racing past the status check
			return &domain.InvalidStateError{Message: "a loan already exists for this application"}
		}
		return fmt.Errorf("insert loan: %w", err)
	}

	if txn != nil {
		if err := insertTransactionTx(ctx, tx, txn); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// UpdateStatus is the plain status write used by reject and by the
// administrative override; it creates no loan and touches nothing else.
func (r *ApplicationRepository) UpdateStatus(
	ctx context.Context,
	appID uuid.UUID,
	status domain.ApplicationStatus,
	rejectionReason *string,
) error {
	var (
		res sql.Result
		err error
	)
	if rejectionReason != nil {
		res, err = r.db.ExecContext(ctx, `
			UPDATE loan_applications SET status = $2, rejection_reason = $3, updated_at = $4
			WHERE id = $1`,
			appID, status, *rejectionReason, time.Now().UTC(),
		)
	} else {
		res, err = r.db.ExecContext(ctx, `
			UPDATE loan_applications SET status = $2, updated_at = $3
			WHERE id = $1`,
			appID, status, time.Now().UTC(),
		)
	}
	if err != nil {
		return fmt.Errorf("update application status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &domain.NotFoundError{Entity: "loan application"}
	}
	return nil
}

func (r *ApplicationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM loan_applications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete loan application: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &domain.NotFoundError{Entity: "loan application"}
	}
	return nil
}
