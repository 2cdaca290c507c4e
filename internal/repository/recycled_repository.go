package repository

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/Hiba-rahimi/mastercard-reconciliation/internal/domain"
	"github.com/Hiba-rahimi/mastercard-reconciliation/pkg/fileutil"
	"github.com/xuri/excelize/v2"
)

// Recycled workbook columns
const (
	colARN              = "ARN"
	colAuthorization    = "Autorisation"
	colTransactionDate  = "Date Transaction"
	colRecycledAmount   = "Montant"
	colRecycledCurrency = "Devise"
	colReprocessingDate = "Date Retraitement"
)

var recycledHeaderFields = []column{
	col(colSubsidiary, "BANQUE"),
	col(colNetwork),
	col(colARN),
	col(colAuthorization),
	col(colTransactionDate),
	col(colRecycledAmount),
	col(colRecycledCurrency),
	col(colReprocessingDate),
}

// recycledDateLayouts are tried in order. Slash and dash dates are month first;
// two-digit dashed dates fall back to year first (YY-MM-DD) when month first fails.
var recycledDateLayouts = []string{
	domain.ISODate,
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
	"1/2/2006",
	"01/02/2006 15:04",
	"1/2/2006 15:04",
	"01/02/2006 15:04:05",
	"01-02-06",
	"1-2-06",
	"06-01-02",
}

// XLSXRecycledRepository implements the RecycledRepository interface for the
// recycled transactions workbook
type XLSXRecycledRepository struct {
	FilePath string
	Sheet    string
}

// NewXLSXRecycledRepository creates a new XLSXRecycledRepository
func NewXLSXRecycledRepository(fp string) *XLSXRecycledRepository {
	return &XLSXRecycledRepository{
		FilePath: fp,
	}
}

// Load returns every recycled transaction of the workbook, dates normalized to ISO.
// A missing workbook yields no rows and no error.
func (r *XLSXRecycledRepository) Load() ([]domain.RecycledTransaction, error) {
	if !exists(r.FilePath) {
		return []domain.RecycledTransaction{}, nil
	}

	reader := fileutil.NewXLSXReader(r.FilePath)
	reader.Sheet = r.Sheet

	var (
		columnMap map[string]int
		last      int
	)
	headerFn := func(header []string) error {
		m, err := createHeaderMap(header, recycledHeaderFields)
		if err != nil {
			return &domain.FormatError{Artifact: "recycled workbook", Err: err}
		}
		columnMap = m
		last = maxIndex(m)
		return nil
	}

	txns := make([]domain.RecycledTransaction, 0)
	rowProcessorFn := func(row []string) error {
		// excelize trims trailing empty cells, pad so optional trailing columns read as blank
		for len(row) <= last {
			row = append(row, "")
		}

		amount, err := parseAmount(cell(row, columnMap, colRecycledAmount))
		if err != nil {
			slog.Warn("Skipping recycled row with invalid amount", "arn", cell(row, columnMap, colARN), "error", err)
			return nil
		}

		reprocessed, err := ParseFlexibleDate(cell(row, columnMap, colReprocessingDate))
		if err != nil {
			slog.Warn("Skipping recycled row with invalid reprocessing date", "arn", cell(row, columnMap, colARN), "error", err)
			return nil
		}

		txnDate := cell(row, columnMap, colTransactionDate)
		if d, err := ParseFlexibleDate(txnDate); err == nil {
			txnDate = d.Format(domain.ISODate)
		}

		txns = append(txns, domain.RecycledTransaction{
			Subsidiary:       cell(row, columnMap, colSubsidiary),
			Network:          cell(row, columnMap, colNetwork),
			ARN:              cell(row, columnMap, colARN),
			Authorization:    cell(row, columnMap, colAuthorization),
			TransactionDate:  txnDate,
			Amount:           amount,
			Currency:         cell(row, columnMap, colRecycledCurrency),
			ReprocessingDate: reprocessed.Format(domain.ISODate),
		})
		return nil
	}

	if err := reader.ReadAndProcessByRow(headerFn, rowProcessorFn); err != nil {
		return nil, fmt.Errorf("processing recycled workbook: %w", err)
	}

	return txns, nil
}

// ParseFlexibleDate reads a workbook date written as text or as an Excel serial number
func ParseFlexibleDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	for _, layout := range recycledDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, fmt.Errorf("converting excel date %s: %w", s, err)
		}
		return t, nil
	}

	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
