package repository

import (
	"fmt"
	"strings"

	"github.com/Hiba-rahimi/mastercard-reconciliation/internal/domain"
)

// column is a required header; aliases are accepted spellings of the same field
type column struct {
	name    string
	aliases []string
}

func col(name string, aliases ...string) column {
	return column{name: name, aliases: aliases}
}

// createHeaderMap creates a map of column names to their indices
func createHeaderMap(header []string, expectedHeader []column) (map[string]int, error) {
	columnMap := make(map[string]int)

	for _, column := range expectedHeader {
		found := false
		for i, field := range header {
			field = strings.TrimSpace(strings.TrimPrefix(field, "\ufeff"))
			if matchesColumn(column, field) {
				columnMap[column.name] = i
				found = true
				break
			}
		}

		if !found {
			return nil, fmt.Errorf("%w: '%s' not found in header", domain.ErrMissingColumn, column.name)
		}
	}

	return columnMap, nil
}

func matchesColumn(c column, field string) bool {
	if strings.EqualFold(c.name, field) {
		return true
	}
	for _, alias := range c.aliases {
		if strings.EqualFold(alias, field) {
			return true
		}
	}
	return false
}

// maxIndex returns the highest column index needed by a header map
func maxIndex(columnMap map[string]int) int {
	max := -1
	for _, idx := range columnMap {
		if idx > max {
			max = idx
		}
	}
	return max
}

// cell returns a trimmed cell value
func cell(row []string, columnMap map[string]int, name string) string {
	idx, ok := columnMap[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
