package service

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"lamf-backend/internal/domain"
)

// ReportStorage persists generated report files and answers their public URL.
type ReportStorage interface {
	Save(ctx context.Context, fileName string, data []byte) (string, error)
	GetURL(fileName string) string
}

type LoanLister interface {
	List(ctx context.Context, status *domain.LoanStatus) ([]domain.Loan, error)
}

type ReportService struct {
	loans   LoanLister
	storage ReportStorage
	log     *zap.Logger
}

func NewReportService(loans LoanLister, storage ReportStorage, log *zap.Logger) *ReportService {
	return &ReportService{
		loans:   loans,
		storage: storage,
		log:     log,
	}
}

// LoanBookReport is what the export endpoint returns: where the file landed
// and how many loans it covers.
type LoanBookReport struct {
	FileName    string    `json:"fileName"`
	FileURL     string    `json:"fileUrl"`
	LoanCount   int       `json:"loanCount"`
	GeneratedAt time.Time `json:"generatedAt"`
}

type loanBookColumn struct {
	Header string
	Value  func(l *domain.Loan) any
}

func loanBookColumns() []loanBookColumn {
	return []loanBookColumn{
		{"Loan ID", func(l *domain.Loan) any { return l.ID.String() }},
		{"Customer", func(l *domain.Loan) any {
			if l.LoanApplication != nil && l.LoanApplication.Customer != nil {
				return l.LoanApplication.Customer.Name
			}
			return ""
		}},
		{"PAN", func(l *domain.Loan) any {
			if l.LoanApplication != nil && l.LoanApplication.Customer != nil {
				return l.LoanApplication.Customer.PANCard
			}
			return ""
		}},
		{"Product", func(l *domain.Loan) any {
			if l.LoanApplication != nil && l.LoanApplication.LoanProduct != nil {
				return l.LoanApplication.LoanProduct.Name
			}
			return ""
		}},
		{"Sanctioned", func(l *domain.Loan) any { return l.SanctionedAmount.String() }},
		{"Disbursed", func(l *domain.Loan) any { return l.DisbursedAmount.String() }},
		{"Outstanding", func(l *domain.Loan) any { return l.OutstandingAmount.String() }},
		{"Interest Rate", func(l *domain.Loan) any { return l.InterestRate.String() }},
		{"Tenure (months)", func(l *domain.Loan) any { return l.TenureMonths }},
		{"Start Date", func(l *domain.Loan) any { return l.StartDate.Format("2006-01-02") }},
		{"End Date", func(l *domain.Loan) any { return l.EndDate.Format("2006-01-02") }},
		{"Transactions", func(l *domain.Loan) any { return len(l.Transactions) }},
		{"Status", func(l *domain.Loan) any { return string(l.Status) }},
	}
}

// GenerateLoanBook writes the current loan book, optionally filtered by loan
// status, into an XLSX workbook and stores it for download.
func (s *ReportService) GenerateLoanBook(ctx context.Context, status *domain.LoanStatus) (*LoanBookReport, error) {
	if status != nil && !domain.ValidLoanStatus(*status) {
		return nil, domain.NewValidationError("status", "unknown loan status")
	}

	loans, err := s.loans.List(ctx, status)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := "Loan Book"
	f.SetSheetName(f.GetSheetName(0), sheet)

	cols := loanBookColumns()
	for i, col := range cols {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, col.Header)
	}

	for rowIdx := range loans {
		l := &loans[rowIdx]
		for colIdx, col := range cols {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			_ = f.SetCellValue(sheet, cell, col.Value(l))
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	now := time.Now().UTC()
	fileName := fmt.Sprintf("loan_book_%s.xlsx", now.Format("20060102_150405"))
	stored, err := s.storage.Save(ctx, fileName, buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("store report: %w", err)
	}

	s.log.Info("loan book generated",
		zap.String("file", stored),
		zap.Int("loans", len(loans)),
	)

	return &LoanBookReport{
		FileName:    stored,
		FileURL:     s.storage.GetURL(stored),
		LoanCount:   len(loans),
		GeneratedAt: now,
	}, nil
}
