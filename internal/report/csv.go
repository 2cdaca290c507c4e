package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/Hiba-rahimi/mastercard-reconciliation/internal/domain"
)

// CSVFormatter writes one result table as CSV
type CSVFormatter struct {
	Table     string
	Delimiter rune
}

func NewCSVFormatter(table string) *CSVFormatter {
	return &CSVFormatter{
		Table:     table,
		Delimiter: ',',
	}
}

// Format implements the OutputFormatter interface for CSV
func (f *CSVFormatter) Format(result domain.ReconciliationResult) ([]byte, error) {
	t := tableByName(f.Table, result)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if f.Delimiter != 0 {
		w.Comma = f.Delimiter
	}

	if err := w.Write(t.header); err != nil {
		return nil, fmt.Errorf("writing CSV header: %w", err)
	}
	for _, row := range t.rows {
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = formatCell(v, t.amounts[i])
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("writing CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing CSV: %w", err)
	}
	return buf.Bytes(), nil
}

func (f *CSVFormatter) FileExtension() string {
	return "csv"
}

func formatCell(v any, amount bool) string {
	switch x := v.(type) {
	case float64:
		if amount {
			return strconv.FormatFloat(x, 'f', 2, 64)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}
