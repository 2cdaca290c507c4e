package fileutil

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// XLSXReader reads the rows of one worksheet
type XLSXReader struct {
	FilePath string

	// Sheet defaults to the first worksheet of the workbook
	Sheet string
}

// NewXLSXReader returns a XLSXReader for the first sheet of a workbook
func NewXLSXReader(fp string) *XLSXReader {
	return &XLSXReader{
		FilePath: fp,
	}
}

// ReadAndProcessByRow streams the worksheet rows; the first row is passed to
// headerFn and every following non-empty row to processorFn
func (r *XLSXReader) ReadAndProcessByRow(headerFn func([]string) error, processorFn func([]string) error) error {
	f, err := excelize.OpenFile(r.FilePath)
	if err != nil {
		return fmt.Errorf("opening a xlsx file: %w", err)
	}
	defer f.Close()

	sheet := r.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return fmt.Errorf("workbook %s has no sheet", r.FilePath)
		}
		sheet = sheets[0]
	}

	rows, err := f.Rows(sheet)
	if err != nil {
		return fmt.Errorf("reading sheet %s: %w", sheet, err)
	}
	defer rows.Close()

	header := true
	for rows.Next() {
		row, err := rows.Columns()
		if err != nil {
			return fmt.Errorf("reading xlsx row: %w", err)
		}

		if header {
			header = false
			if err := headerFn(row); err != nil {
				return err
			}
			continue
		}

		if isBlank(row) {
			continue
		}

		if err := processorFn(row); err != nil {
			return err
		}
	}

	if header {
		return fmt.Errorf("reading xlsx header: sheet %s is empty", sheet)
	}
	return rows.Error()
}
