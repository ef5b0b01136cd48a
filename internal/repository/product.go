package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"lamf-backend/internal/domain"
)

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

const productColumns = `
	id, name, description, interest_rate, min_loan_amount, max_loan_amount,
	max_tenure, processing_fee, ltv_ratio, status, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }, p *domain.LoanProduct) error {
	return row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.InterestRate,
		&p.MinLoanAmount,
		&p.MaxLoanAmount,
		&p.MaxTenure,
		&p.ProcessingFee,
		&p.LTVRatio,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}

func (r *ProductRepository) List(ctx context.Context, status *domain.ProductStatus) ([]domain.LoanProduct, error) {
	query := `SELECT` + productColumns + ` FROM loan_products`
	args := []any{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.LoanProduct
	for rows.Next() {
		var p domain.LoanProduct
		if err := scanProduct(rows, &p); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.LoanProduct, error) {
	query := `SELECT` + productColumns + ` FROM loan_products WHERE id = $1`

	var p domain.LoanProduct
	if err := scanProduct(r.db.QueryRowContext(ctx, query, id), &p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: "loan product"}
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) Create(ctx context.Context, p *domain.LoanProduct) error {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO loan_products (
			id, name, description, interest_rate, min_loan_amount, max_loan_amount,
			max_tenure, processing_fee, ltv_ratio, status, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		p.ID, p.Name, p.Description, p.InterestRate, p.MinLoanAmount, p.MaxLoanAmount,
		p.MaxTenure, p.ProcessingFee, p.LTVRatio, p.Status, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert loan product: %w", err)
	}
	return nil
}

func (r *ProductRepository) Update(ctx context.Context, p *domain.LoanProduct) error {
	p.UpdatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
		UPDATE loan_products SET
			name = $2, description = $3, interest_rate = $4, min_loan_amount = $5,
			max_loan_amount = $6, max_tenure = $7, processing_fee = $8,
			ltv_ratio = $9, status = $10, updated_at = $11
		WHERE id = $1`,
		p.ID, p.Name, p.Description, p.InterestRate, p.MinLoanAmount,
		p.MaxLoanAmount, p.MaxTenure, p.ProcessingFee, p.LTVRatio, p.Status, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update loan product: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &domain.NotFoundError{Entity: "loan product"}
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM loan_products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete loan product: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &domain.NotFoundError{Entity: "loan product"}
	}
	return nil
}
