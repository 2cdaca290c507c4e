package report

import (
	"encoding/json"
	"fmt"

	"github.com/Hiba-rahimi/mastercard-reconciliation/internal/domain"
)

// OutputFormatter defines the interface for formatting reconciliation results
type OutputFormatter interface {
	Format(result domain.ReconciliationResult) ([]byte, error)
	FileExtension() string
}

// NewFormatter returns the formatter registered under name
func NewFormatter(name string, prettyPrint bool) (OutputFormatter, error) {
	switch name {
	case "json", "":
		return NewJSONFormatter(prettyPrint), nil
	case "csv":
		return NewCSVFormatter(TableResults), nil
	case "xlsx":
		return NewXLSXFormatter(), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want json, csv or xlsx)", name)
	}
}

// JSONFormatter formats reconciliation results as JSON
type JSONFormatter struct {
	PrettyPrint bool
}

func NewJSONFormatter(prettyPrint bool) *JSONFormatter {
	return &JSONFormatter{
		PrettyPrint: prettyPrint,
	}
}

// Format implements the OutputFormatter interface for JSON
func (f *JSONFormatter) Format(result domain.ReconciliationResult) ([]byte, error) {
	if f.PrettyPrint {
		return json.MarshalIndent(result, "", "  ")
	}
	return json.Marshal(result)
}

func (f *JSONFormatter) FileExtension() string {
	return "json"
}
