// Package seed bootstraps an empty database with the catalogue of loan
// products and a few demo customers so a fresh deployment is usable
// immediately. It is a no-op when products already exist.
package seed

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"lamf-backend/internal/domain"
)

func Run(ctx context.Context, db *sql.DB, log *zap.Logger) error {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM loan_products`).Scan(&count); err != nil {
		return fmt.Errorf("seed precheck: %w", err)
	}
	if count > 0 {
		log.Info("seed skipped, loan products already present", zap.Int("count", count))
		return nil
	}

	now := time.Now().UTC()
	products := []domain.LoanProduct{
		{
			Name:          "Personal Loan - Standard",
			Description:   "Standard personal loan against mutual funds with competitive interest rates",
			InterestRate:  decimal.NewFromFloat(12.5),
			MinLoanAmount: decimal.NewFromInt(50000),
			MaxLoanAmount: decimal.NewFromInt(5000000),
			MaxTenure:     36,
			ProcessingFee: decimal.NewFromInt(2),
			LTVRatio:      decimal.NewFromFloat(0.70),
			Status:        domain.ProductActive,
		},
		{
			Name:          "Personal Loan - Premium",
			Description:   "Premium loan product for high-value mutual fund portfolios",
			InterestRate:  decimal.NewFromFloat(10.5),
			MinLoanAmount: decimal.NewFromInt(500000),
			MaxLoanAmount: decimal.NewFromInt(10000000),
			MaxTenure:     48,
			ProcessingFee: decimal.NewFromFloat(1.5),
			LTVRatio:      decimal.NewFromFloat(0.75),
			Status:        domain.ProductActive,
		},
		{
			Name:          "Quick Loan - Express",
			Description:   "Fast disbursement loan with higher interest rate",
			InterestRate:  decimal.NewFromInt(14),
			MinLoanAmount: decimal.NewFromInt(25000),
			MaxLoanAmount: decimal.NewFromInt(2000000),
			MaxTenure:     24,
			ProcessingFee: decimal.NewFromFloat(2.5),
			LTVRatio:      decimal.NewFromFloat(0.65),
			Status:        domain.ProductActive,
		},
		{
			Name:          "Business Loan - LAMF",
			Description:   "Business loan secured by mutual fund units",
			InterestRate:  decimal.NewFromFloat(11.5),
			MinLoanAmount: decimal.NewFromInt(1000000),
			MaxLoanAmount: decimal.NewFromInt(15000000),
			MaxTenure:     60,
			ProcessingFee: decimal.NewFromInt(2),
			LTVRatio:      decimal.NewFromFloat(0.70),
			Status:        domain.ProductActive,
		},
	}

	for _, p := range products {
		_, err := db.ExecContext(ctx, `
			INSERT INTO loan_products (
				id, name, description, interest_rate, min_loan_amount, max_loan_amount,
				max_tenure, processing_fee, ltv_ratio, status, created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
			uuid.New(), p.Name, p.Description, p.InterestRate, p.MinLoanAmount,
			p.MaxLoanAmount, p.MaxTenure, p.ProcessingFee, p.LTVRatio, p.Status, now, now,
		)
		if err != nil {
			return fmt.Errorf("seed loan product %q: %w", p.Name, err)
		}
	}

	customers := []domain.Customer{
		{Name: "Rajesh Kumar", Email: "rajesh.kumar@email.com", Phone: "+91-9876543210",
			PANCard: "ABCDE1234F", Address: "123, MG Road", City: "Mumbai", Pincode: "400001"},
		{Name: "Priya Sharma", Email: "priya.sharma@email.com", Phone: "+91-9876543211",
			PANCard: "BCDEF2345G", Address: "456, Park Street", City: "Bangalore", Pincode: "560001"},
		{Name: "Amit Patel", Email: "amit.patel@email.com", Phone: "+91-9876543212",
			PANCard: "CDEFG3456H", Address: "789, Ring Road", City: "Delhi", Pincode: "110001"},
	}

	for _, c := range customers {
		_, err := db.ExecContext(ctx, `
			INSERT INTO customers (id, name, email, phone, pan_card, address, city, pincode, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
			ON CONFLICT DO NOTHING`,
			uuid.New(), c.Name, c.Email, c.Phone, c.PANCard, c.Address, c.City, c.Pincode, now, now,
		)
		if err != nil {
			return fmt.Errorf("seed customer %q: %w", c.Name, err)
		}
	}

	log.Info("seed completed",
		zap.Int("loan_products", len(products)),
		zap.Int("customers", len(customers)),
	)
	return nil
}
