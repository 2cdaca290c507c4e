package repository

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/Hiba-rahimi/mastercard-reconciliation/internal/domain"
	"github.com/Hiba-rahimi/mastercard-reconciliation/pkg/fileutil"
	"github.com/shopspring/decimal"
)

// Source extract columns
const (
	colSubsidiary      = "FILIALE"
	colNetwork         = "RESEAU"
	colTransactionType = "TYPE_TRANSACTION"
	colProcessingDate  = "DATE_TRAI"
	colCurrency        = "CUR"
	colCount           = "NBRE_TRANSACTION"
	colAmount          = "MONTANT_TOTAL"
)

var (
	posHeaderFields = []column{
		col(colSubsidiary, "BANQUE"),
		col(colNetwork),
		col(colTransactionType),
		col(colProcessingDate),
		col(colCurrency),
		col(colCount),
		col(colAmount),
	}

	totalsHeaderFields = []column{
		col(colCount),
		col(colAmount),
		col(colCurrency),
		col(colSubsidiary, "BANQUE"),
		col(colNetwork),
	}
)

// CSVSourceRepository implements the SourceRepository interface for one internal extract
type CSVSourceRepository struct {
	FilePath string

	// Delimiter used when the header line gives no hint
	DefaultDelimiter rune

	kind        domain.SourceKind
	fields      []column
	defaultType domain.TransactionType
}

// NewPOSRepository reads the point-of-sale extract
func NewPOSRepository(fp string, defaultDelimiter rune) *CSVSourceRepository {
	return &CSVSourceRepository{
		FilePath:         fp,
		DefaultDelimiter: defaultDelimiter,
		kind:             domain.SourcePOS,
		fields:           posHeaderFields,
	}
}

// NewManualRepository reads the manual-entry extract
func NewManualRepository(fp string, defaultDelimiter rune) *CSVSourceRepository {
	return &CSVSourceRepository{
		FilePath:         fp,
		DefaultDelimiter: defaultDelimiter,
		kind:             domain.SourceManual,
		fields:           totalsHeaderFields,
	}
}

// NewGatewayRepository reads the e-commerce gateway extract; every row gets txnType
func NewGatewayRepository(fp string, defaultDelimiter rune, txnType domain.TransactionType) *CSVSourceRepository {
	if txnType == "" {
		txnType = domain.Purchase
	}
	return &CSVSourceRepository{
		FilePath:         fp,
		DefaultDelimiter: defaultDelimiter,
		kind:             domain.SourceGateway,
		fields:           totalsHeaderFields,
		defaultType:      txnType,
	}
}

func (r *CSVSourceRepository) Kind() domain.SourceKind {
	return r.kind
}

// Load returns the normalized rows. A missing extract yields no rows and no error.
func (r *CSVSourceRepository) Load() ([]domain.SourceRecord, error) {
	if !exists(r.FilePath) {
		slog.Debug("Source extract not supplied", "source", r.kind, "path", r.FilePath)
		return []domain.SourceRecord{}, nil
	}

	reader := fileutil.NewCSVReader(r.FilePath).WithFallback(r.DefaultDelimiter)

	header, err := reader.ReadHeader()
	if err != nil {
		return nil, fmt.Errorf("reading %s extract header: %w", r.kind, err)
	}

	columnMap, err := createHeaderMap(header, r.fields)
	if err != nil {
		return nil, &domain.FormatError{Artifact: string(r.kind) + " extract", Err: err}
	}
	last := maxIndex(columnMap)

	records := make([]domain.SourceRecord, 0)
	var rowProcessorFn = func(row []string) error {
		// Skip if row doesn't have enough fields
		if len(row) <= last {
			slog.Warn("Skipping short row", "source", r.kind, "row", row)
			return nil
		}

		subsidiary := cell(row, columnMap, colSubsidiary)
		if subsidiary == "" {
			slog.Warn("Skipping row without subsidiary", "source", r.kind, "row", row)
			return nil
		}

		count, err := parseCount(cell(row, columnMap, colCount))
		if err != nil {
			slog.Warn("Skipping row with invalid count", "source", r.kind, "error", err)
			return nil
		}

		amount, err := parseAmount(cell(row, columnMap, colAmount))
		if err != nil {
			slog.Warn("Skipping row with invalid amount", "source", r.kind, "error", err)
			return nil
		}

		txnType := r.defaultType
		if t := cell(row, columnMap, colTransactionType); t != "" {
			txnType = domain.TransactionType(t)
		}

		records = append(records, domain.SourceRecord{
			Source:          r.kind,
			Subsidiary:      subsidiary,
			Network:         cell(row, columnMap, colNetwork),
			Currency:        cell(row, columnMap, colCurrency),
			TransactionType: txnType,
			ProcessingDate:  cell(row, columnMap, colProcessingDate),
			Count:           count,
			Amount:          amount,
		})
		return nil
	}

	if err := reader.ReadAndProcessByRow(rowProcessorFn); err != nil {
		return nil, fmt.Errorf("processing %s extract: %w", r.kind, err)
	}

	slog.Debug("Loaded source extract", "source", r.kind, "rows", len(records))
	return records, nil
}

func exists(fp string) bool {
	if strings.TrimSpace(fp) == "" {
		return false
	}
	info, err := os.Stat(fp)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// cleanNumber drops thousands separators and blanks
func cleanNumber(s string) string {
	return strings.NewReplacer(",", "", " ", "", "\u00a0", "").Replace(strings.TrimSpace(s))
}

func parseAmount(s string) (decimal.Decimal, error) {
	s = cleanNumber(s)
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func parseCount(s string) (int64, error) {
	d, err := parseAmount(s)
	if err != nil {
		return 0, err
	}
	if !d.Equal(d.Truncate(0)) {
		return 0, fmt.Errorf("count %s is not a whole number", s)
	}
	return d.IntPart(), nil
}
