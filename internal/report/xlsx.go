package report

import (
	"fmt"
	"unicode/utf8"

	"github.com/Hiba-rahimi/mastercard-reconciliation/internal/domain"
	"github.com/xuri/excelize/v2"
)

const (
	headerFill   = "4F81BD"
	flaggedFill  = "E26B0A"
	white        = "FFFFFF"
	commaNumFmt  = 4 // #,##0.00
	maxColWidth  = 80
	defaultSheet = "Sheet1"
)

// XLSXFormatter writes the result tables to a styled workbook, one sheet each.
// Reject sheets are only added when the run found a discrepancy.
type XLSXFormatter struct{}

func NewXLSXFormatter() *XLSXFormatter {
	return &XLSXFormatter{}
}

// Format implements the OutputFormatter interface for XLSX
func (f *XLSXFormatter) Format(result domain.ReconciliationResult) ([]byte, error) {
	tables := []table{resultsTable(result)}
	if result.Outcome == domain.OutcomeDiscrepancy {
		tables = append(tables, summaryTable(result), rejectsTable(result))
	}

	wb := excelize.NewFile()
	defer wb.Close()

	styles, err := newStyles(wb)
	if err != nil {
		return nil, err
	}

	for i, t := range tables {
		if i == 0 {
			if err := wb.SetSheetName(defaultSheet, t.name); err != nil {
				return nil, fmt.Errorf("naming sheet: %w", err)
			}
		} else if _, err := wb.NewSheet(t.name); err != nil {
			return nil, fmt.Errorf("adding sheet %s: %w", t.name, err)
		}

		if err := writeTable(wb, t, styles); err != nil {
			return nil, fmt.Errorf("writing sheet %s: %w", t.name, err)
		}
	}
	wb.SetActiveSheet(0)

	buf, err := wb.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (f *XLSXFormatter) FileExtension() string {
	return "xlsx"
}

type sheetStyles struct {
	header, amount, flagged, flaggedAmount int
}

func newStyles(wb *excelize.File) (sheetStyles, error) {
	var (
		s   sheetStyles
		err error
	)
	boldWhite := &excelize.Font{Bold: true, Color: white}

	if s.header, err = wb.NewStyle(&excelize.Style{
		Font:      boldWhite,
		Fill:      excelize.Fill{Type: "pattern", Color: []string{headerFill}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	}); err != nil {
		return s, fmt.Errorf("creating header style: %w", err)
	}
	if s.amount, err = wb.NewStyle(&excelize.Style{NumFmt: commaNumFmt}); err != nil {
		return s, fmt.Errorf("creating amount style: %w", err)
	}

	flagged := excelize.Fill{Type: "pattern", Color: []string{flaggedFill}, Pattern: 1}
	if s.flagged, err = wb.NewStyle(&excelize.Style{Font: boldWhite, Fill: flagged}); err != nil {
		return s, fmt.Errorf("creating flagged style: %w", err)
	}
	if s.flaggedAmount, err = wb.NewStyle(&excelize.Style{Font: boldWhite, Fill: flagged, NumFmt: commaNumFmt}); err != nil {
		return s, fmt.Errorf("creating flagged amount style: %w", err)
	}
	return s, nil
}

func writeTable(wb *excelize.File, t table, styles sheetStyles) error {
	widths := make([]int, len(t.header))

	header := make([]any, len(t.header))
	for i, h := range t.header {
		header[i] = h
		widths[i] = utf8.RuneCountInString(h)
	}
	if err := wb.SetSheetRow(t.name, "A1", &header); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(t.header), 1)
	if err != nil {
		return err
	}
	if err := wb.SetCellStyle(t.name, "A1", last, styles.header); err != nil {
		return err
	}

	for r, row := range t.rows {
		start, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		values := row
		if err := wb.SetSheetRow(t.name, start, &values); err != nil {
			return err
		}

		for c, v := range row {
			if n := utf8.RuneCountInString(formatCell(v, t.amounts[c])); n > widths[c] {
				widths[c] = n
			}

			style := 0
			switch {
			case t.flagged[r] && t.amounts[c]:
				style = styles.flaggedAmount
			case t.flagged[r]:
				style = styles.flagged
			case t.amounts[c]:
				style = styles.amount
			}
			if style == 0 {
				continue
			}

			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := wb.SetCellStyle(t.name, cell, cell, style); err != nil {
				return err
			}
		}
	}

	for c, w := range widths {
		col, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return err
		}
		if err := wb.SetColWidth(t.name, col, col, float64(min(w+2, maxColWidth))); err != nil {
			return err
		}
	}
	return nil
}
