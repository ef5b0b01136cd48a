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

type CollateralFilter struct {
	Status            *domain.CollateralStatus
	LoanApplicationID *uuid.UUID
}

type CollateralRepository struct {
	db *sql.DB
}

func NewCollateralRepository(db *sql.DB) *CollateralRepository {
	return &CollateralRepository{db: db}
}

const collateralColumns = `
	id, loan_application_id, fund_name, folio_number, units,
	nav_per_unit, total_value, pledge_date, status, created_at, updated_at`

func scanCollateral(row interface{ Scan(...any) error }, c *domain.Collateral) error {
	return row.Scan(
		&c.ID,
		&c.LoanApplicationID,
		&c.FundName,
		&c.FolioNumber,
		&c.Units,
		&c.NAVPerUnit,
		&c.TotalValue,
		&c.PledgeDate,
		&c.Status,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
}

func collateralsForApplication(ctx context.Context, q querier, appID uuid.UUID) ([]domain.Collateral, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT `+collateralColumns+` FROM collaterals
		WHERE loan_application_id = $1 ORDER BY created_at`, appID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Collateral
	for rows.Next() {
		var c domain.Collateral
		if err := scanCollateral(rows, &c); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *CollateralRepository) List(ctx context.Context, f CollateralFilter) ([]domain.Collateral, error) {
	where := []string{"1=1"}
	args := []any{}
	i := 1

	if f.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", i))
		args = append(args, *f.Status)
		i++
	}
	if f.LoanApplicationID != nil {
		where = append(where, fmt.Sprintf("loan_application_id = $%d", i))
		args = append(args, *f.LoanApplicationID)
		i++
	}

	query := `SELECT ` + collateralColumns + ` FROM collaterals WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Collateral
	for rows.Next() {
		var c domain.Collateral
		if err := scanCollateral(rows, &c); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *CollateralRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Collateral, error) {
	var c domain.Collateral
	err := scanCollateral(r.db.QueryRowContext(ctx,
		`SELECT `+collateralColumns+` FROM collaterals WHERE id = $1`, id), &c)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: "collateral"}
		}
		return nil, err
	}
	return &c, nil
}

func (r *CollateralRepository) Create(ctx context.Context, c *domain.Collateral) (*domain.Collateral, error) {
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO collaterals (
			id, loan_application_id, fund_name, folio_number, units,
			nav_per_unit, total_value, pledge_date, status, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		c.ID, c.LoanApplicationID, c.FundName, c.FolioNumber, c.Units,
		c.NAVPerUnit, c.TotalValue, c.PledgeDate, c.Status, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, &domain.NotFoundError{Entity: "loan application"}
		}
		return nil, fmt.Errorf("insert collateral: %w", err)
	}
	return c, nil
}

func (r *CollateralRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.CollateralStatus) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE collaterals SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("update collateral status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &domain.NotFoundError{Entity: "collateral"}
	}
	return nil
}

func (r *CollateralRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM collaterals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete collateral: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &domain.NotFoundError{Entity: "collateral"}
	}
	return nil
}
