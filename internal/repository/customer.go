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

type CustomerRepository struct {
	db *sql.DB
}

func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

const customerColumns = `
	id, name, email, phone, pan_card, address, city, pincode, created_at, updated_at`

func scanCustomer(row interface{ Scan(...any) error }, c *domain.Customer) error {
	return row.Scan(
		&c.ID,
		&c.Name,
		&c.Email,
		&c.Phone,
		&c.PANCard,
		&c.Address,
		&c.City,
		&c.Pincode,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
}

func (r *CustomerRepository) List(ctx context.Context) ([]domain.Customer, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT`+customerColumns+` FROM customers ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Customer
	for rows.Next() {
		var c domain.Customer
		if err := scanCustomer(rows, &c); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *CustomerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	var c domain.Customer
	err := scanCustomer(r.db.QueryRowContext(ctx,
		`SELECT`+customerColumns+` FROM customers WHERE id = $1`, id), &c)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: "customer"}
		}
		return nil, err
	}
	return &c, nil
}

// Create inserts a new customer. The unique constraints on email and PAN are
// the source of truth for duplicates; a violation surfaces as ConflictError.
func (r *CustomerRepository) Create(ctx context.Context, c *domain.Customer) error {
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO customers (id, name, email, phone, pan_card, address, city, pincode, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		c.ID, c.Name, c.Email, c.Phone, c.PANCard, c.Address, c.City, c.Pincode, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.ConflictError{Message: "customer with this email or PAN card already exists"}
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

func (r *CustomerRepository) Update(ctx context.Context, c *domain.Customer) error {
	c.UpdatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
		UPDATE customers SET
			name = $2, email = $3, phone = $4, pan_card = $5,
			address = $6, city = $7, pincode = $8, updated_at = $9
		WHERE id = $1`,
		c.ID, c.Name, c.Email, c.Phone, c.PANCard, c.Address, c.City, c.Pincode, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.ConflictError{Message: "customer with this email or PAN card already exists"}
		}
		return fmt.Errorf("update customer: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &domain.NotFoundError{Entity: "customer"}
	}
	return nil
}

func (r *CustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &domain.NotFoundError{Entity: "customer"}
	}
	return nil
}

// findOrCreateTx resolves a customer by email OR PAN inside an open
// transaction, inserting when absent. ON CONFLICT DO NOTHING (rather than a
// check-then-act pair) keeps the transaction alive when a concurrent
// submission wins the insert race; the winner's row is then re-read.
func findOrCreateTx(ctx context.Context, tx *sql.Tx, c *domain.Customer) (*domain.Customer, error) {
	lookup := `SELECT` + customerColumns + ` FROM customers WHERE email = $1 OR pan_card = $2 LIMIT 1`

	var existing domain.Customer
	err := scanCustomer(tx.QueryRowContext(ctx, lookup, c.Email, c.PANCard), &existing)
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	now := time.Now().UTC()
	c.ID = uuid.New()
	c.CreatedAt = now
	c.UpdatedAt = now

	res, err := tx.ExecContext(ctx, `
		INSERT INTO customers (id, name, email, phone, pan_card, address, city, pincode, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT DO NOTHING`,
		c.ID, c.Name, c.Email, c.Phone, c.PANCard, c.Address, c.City, c.Pincode, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert customer: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// lost the race; the other writer's customer is the one to use
		var winner domain.Customer
		if err := scanCustomer(tx.QueryRowContext(ctx, lookup, c.Email, c.PANCard), &winner); err != nil {
			return nil, err
		}
		return &winner, nil
	}
	return c, nil
}
