package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"lamf-backend/internal/domain"
)

type mockLoanLister struct {
	loans []domain.Loan
}

func (m *mockLoanLister) List(ctx context.Context, status *domain.LoanStatus) ([]domain.Loan, error) {
	return m.loans, nil
}

type memStorage struct {
	saved map[string][]byte
}

func (s *memStorage) Save(ctx context.Context, fileName string, data []byte) (string, error) {
	s.saved[fileName] = data
	return fileName, nil
}

func (s *memStorage) GetURL(fileName string) string {
	return "/files/" + fileName
}

func TestGenerateLoanBook(t *testing.T) {
	loans := []domain.Loan{
		{
			ID:                uuid.New(),
			SanctionedAmount:  decimal.NewFromInt(500000),
			DisbursedAmount:   decimal.NewFromInt(500000),
			OutstandingAmount: decimal.NewFromInt(450000),
			InterestRate:      decimal.NewFromFloat(12.5),
			TenureMonths:      24,
			Status:            domain.LoanActive,
			LoanApplication: &domain.LoanApplication{
				Customer:    &domain.Customer{Name: "Rajesh Kumar", PANCard: "ABCDE1234F"},
				LoanProduct: &domain.LoanProduct{Name: "Personal Loan - Standard"},
			},
		},
	}
	storage := &memStorage{saved: map[string][]byte{}}
	svc := NewReportService(&mockLoanLister{loans: loans}, storage, zap.NewNop())

	report, err := svc.GenerateLoanBook(context.Background(), nil)
	if err != nil {
		t.Fatalf("GenerateLoanBook: %v", err)
	}

	if report.LoanCount != 1 {
		t.Errorf("loan count = %d, want 1", report.LoanCount)
	}
	if !strings.HasPrefix(report.FileName, "loan_book_") || !strings.HasSuffix(report.FileName, ".xlsx") {
		t.Errorf("file name = %q", report.FileName)
	}
	if report.FileURL != "/files/"+report.FileName {
		t.Errorf("file url = %q", report.FileURL)
	}

	data, ok := storage.saved[report.FileName]
	if !ok {
		t.Fatal("workbook not stored")
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("stored file is not a valid workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Loan Book")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want header + 1 loan", len(rows))
	}
	if rows[1][1] != "Rajesh Kumar" {
		t.Errorf("customer cell = %q", rows[1][1])
	}
	if rows[1][6] != "450000" {
		t.Errorf("outstanding cell = %q", rows[1][6])
	}
}

func TestGenerateLoanBookUnknownStatus(t *testing.T) {
	svc := NewReportService(&mockLoanLister{}, &memStorage{saved: map[string][]byte{}}, zap.NewNop())

	bad := domain.LoanStatus("FROZEN")
	if _, err := svc.GenerateLoanBook(context.Background(), &bad); err == nil {
		t.Error("unknown status accepted")
	}
}
