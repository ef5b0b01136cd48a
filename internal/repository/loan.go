package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"lamf-backend/internal/domain"
	"lamf-backend/internal/valuation"
)

type LoanRepository struct {
	db *sql.DB
}

func NewLoanRepository(db *sql.DB) *LoanRepository {
	return &LoanRepository{db: db}
}

const loanColumns = `
	l.id, l.loan_application_id, l.sanctioned_amount, l.disbursed_amount, l.interest_rate,
	l.tenure_months, l.start_date, l.end_date, l.outstanding_amount, l.status,
	l.created_at, l.updated_at`

func scanLoan(row interface{ Scan(...any) error }, l *domain.Loan) error {
	return row.Scan(
		&l.ID,
		&l.LoanApplicationID,
		&l.SanctionedAmount,
		&l.DisbursedAmount,
		&l.InterestRate,
		&l.TenureMonths,
		&l.StartDate,
		&l.EndDate,
		&l.OutstandingAmount,
		&l.Status,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
}

func loanForApplication(ctx context.Context, q querier, appID uuid.UUID) (*domain.Loan, error) {
	var l domain.Loan
	err := scanLoan(q.QueryRowContext(ctx,
		`SELECT `+loanColumns+` FROM loans l WHERE l.loan_application_id = $1`, appID), &l)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

func transactionsForLoan(ctx context.Context, q querier, loanID uuid.UUID) ([]domain.Transaction, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, loan_id, type, amount, transaction_date, reference_number, notes, created_at
		FROM transactions WHERE loan_id = $1 ORDER BY transaction_date DESC, created_at DESC`, loanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		err := rows.Scan(&t.ID, &t.LoanID, &t.Type, &t.Amount,
			&t.TransactionDate, &t.ReferenceNumber, &t.Notes, &t.CreatedAt)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

func insertTransactionTx(ctx context.Context, tx *sql.Tx, t *domain.Transaction) error {
	t.CreatedAt = time.Now().UTC()
	_, err := tx.ExecContext(ctx, `
		INSERT INTO transactions (
			id, loan_id, type, amount, transaction_date, reference_number, notes, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		t.ID, t.LoanID, t.Type, t.Amount, t.TransactionDate,
		t.ReferenceNumber, t.Notes, t.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.ConflictError{Message: "transaction reference number already used"}
		}
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

const loanBaseQuery = `
	SELECT` + loanColumns + `,` + applicationColumns + `,
		c.id, c.name, c.email, c.phone, c.pan_card, c.address, c.city, c.pincode, c.created_at, c.updated_at,
		p.id, p.name, p.description, p.interest_rate, p.min_loan_amount, p.max_loan_amount,
		p.max_tenure, p.processing_fee, p.ltv_ratio, p.status, p.created_at, p.updated_at
	FROM loans l
	JOIN loan_applications a ON a.id = l.loan_application_id
	JOIN customers         c ON c.id = a.customer_id
	JOIN loan_products     p ON p.id = a.loan_product_id`

func scanLoanAggregate(row interface{ Scan(...any) error }, l *domain.Loan) error {
	l.LoanApplication = &domain.LoanApplication{
		Customer:    &domain.Customer{},
		LoanProduct: &domain.LoanProduct{},
	}
	a := l.LoanApplication
	return row.Scan(
		&l.ID, &l.LoanApplicationID, &l.SanctionedAmount, &l.DisbursedAmount, &l.InterestRate,
		&l.TenureMonths, &l.StartDate, &l.EndDate, &l.OutstandingAmount, &l.Status,
		&l.CreatedAt, &l.UpdatedAt,

		&a.ID, &a.CustomerID, &a.LoanProductID, &a.RequestedAmount, &a.Status,
		&a.ApplicationDate, &a.ApprovalDate, &a.RejectionReason, &a.CreatedAt, &a.UpdatedAt,

		&a.Customer.ID, &a.Customer.Name, &a.Customer.Email, &a.Customer.Phone,
		&a.Customer.PANCard, &a.Customer.Address, &a.Customer.City, &a.Customer.Pincode,
		&a.Customer.CreatedAt, &a.Customer.UpdatedAt,

		&a.LoanProduct.ID, &a.LoanProduct.Name, &a.LoanProduct.Description,
		&a.LoanProduct.InterestRate, &a.LoanProduct.MinLoanAmount, &a.LoanProduct.MaxLoanAmount,
		&a.LoanProduct.MaxTenure, &a.LoanProduct.ProcessingFee, &a.LoanProduct.LTVRatio,
		&a.LoanProduct.Status, &a.LoanProduct.CreatedAt, &a.LoanProduct.UpdatedAt,
	)
}

func (r *LoanRepository) List(ctx context.Context, status *domain.LoanStatus) ([]domain.Loan, error) {
	query := loanBaseQuery
	args := []any{}
	if status != nil {
		query += " WHERE l.status = $1"
		args = append(args, *status)
	}
	query += " ORDER BY l.created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Loan
	index := map[uuid.UUID]int{}
	for rows.Next() {
		var l domain.Loan
		if err := scanLoanAggregate(rows, &l); err != nil {
			return nil, err
		}
		index[l.ID] = len(result)
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return result, nil
	}

	// one extra round trip hydrates every loan's transactions
	txnQuery := `
		SELECT t.id, t.loan_id, t.type, t.amount, t.transaction_date,
			t.reference_number, t.notes, t.created_at
		FROM transactions t
		JOIN loans l ON l.id = t.loan_id`
	if status != nil {
		txnQuery += " WHERE l.status = $1"
	}
	txnQuery += " ORDER BY t.transaction_date DESC, t.created_at DESC"

	txnRows, err := r.db.QueryContext(ctx, txnQuery, args...)
	if err != nil {
		return nil, err
	}
	defer txnRows.Close()
	for txnRows.Next() {
		var t domain.Transaction
		err := txnRows.Scan(&t.ID, &t.LoanID, &t.Type, &t.Amount,
			&t.TransactionDate, &t.ReferenceNumber, &t.Notes, &t.CreatedAt)
		if err != nil {
			return nil, err
		}
		if i, ok := index[t.LoanID]; ok {
			result[i].Transactions = append(result[i].Transactions, t)
		}
	}
	return result, txnRows.Err()
}

func (r *LoanRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	var l domain.Loan
	err := scanLoanAggregate(r.db.QueryRowContext(ctx, loanBaseQuery+" WHERE l.id = $1", id), &l)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: "loan"}
		}
		return nil, err
	}

	l.Transactions, err = transactionsForLoan(ctx, r.db, l.ID)
	if err != nil {
		return nil, err
	}
	l.LoanApplication.Collaterals, err = collateralsForApplication(ctx, r.db, l.LoanApplicationID)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// ApplyRepayment runs the whole repayment under a row lock on the loan so
// two concurrent payments cannot both read the same outstanding balance.
// When the balance reaches zero the loan closes and every collateral pledged
// against its application is released in the same transaction. The released
// collaterals are returned so callers can report on them; the slice is empty
// when the loan stays open.
func (r *LoanRepository) ApplyRepayment(ctx context.Context, loanID uuid.UUID, txn *domain.Transaction) (*domain.Loan, []domain.Collateral, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	var l domain.Loan
	err = scanLoan(tx.QueryRowContext(ctx,
		`SELECT `+loanColumns+` FROM loans l WHERE l.id = $1 FOR UPDATE`, loanID), &l)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, &domain.NotFoundError{Entity: "loan"}
		}
		return nil, nil, err
	}
	if l.Status != domain.LoanActive {
		return nil, nil, &domain.InvalidStateError{
			Message: fmt.Sprintf("cannot record a repayment on a %s loan", l.Status),
		}
	}

	txn.LoanID = l.ID
	if err := insertTransactionTx(ctx, tx, txn); err != nil {
		return nil, nil, err
	}

	newOutstanding, closed := valuation.ApplyRepayment(l.OutstandingAmount, txn.Amount)
	l.OutstandingAmount = newOutstanding
	l.UpdatedAt = time.Now().UTC()
	if closed {
		l.Status = domain.LoanClosed
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE loans SET outstanding_amount = $2, status = $3, updated_at = $4
		WHERE id = $1`,
		l.ID, l.OutstandingAmount, l.Status, l.UpdatedAt,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("update loan balance: %w", err)
	}

	var released []domain.Collateral
	if closed {
		rows, err := tx.QueryContext(ctx, `
			UPDATE collaterals SET status = $2, updated_at = $3
			WHERE loan_application_id = $1
			RETURNING `+collateralColumns,
			l.LoanApplicationID, domain.CollateralReleased, time.Now().UTC(),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("release collaterals: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var c domain.Collateral
			if err := scanCollateral(rows, &c); err != nil {
				return nil, nil, err
			}
			released = append(released, c)
		}
		if err := rows.Err(); err != nil {
			return nil, nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}

	l.Transactions = []domain.Transaction{*txn}
	return &l, released, nil
}

func (r *LoanRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.LoanStatus) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE loans SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("update loan status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &domain.NotFoundError{Entity: "loan"}
	}
	return nil
}
