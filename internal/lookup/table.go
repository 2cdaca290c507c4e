// Package lookup holds the static code-to-name tables used by the report parser.
package lookup

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/Hiba-rahimi/mastercard-reconciliation/internal/domain"
)

//go:embed data/*.json
var defaults embed.FS

const (
	defaultCurrencies = "data/currency_codes.json"
	defaultCountries  = "data/countries_acronyms.json"
)

// Table is an immutable code to name mapping
type Table struct {
	names map[string]string
}

// NewTable creates a table from an in-memory map
func NewTable(names map[string]string) *Table {
	t := &Table{names: make(map[string]string, len(names))}
	for k, v := range names {
		t.names[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return t
}

// Name implements domain.LookupTable
func (t *Table) Name(code string) string {
	if name, ok := t.names[strings.Trim(strings.TrimSpace(code), "*")]; ok {
		return name
	}
	return domain.NotFound
}

// Has reports whether the code is mapped
func (t *Table) Has(code string) bool {
	_, ok := t.names[strings.Trim(strings.TrimSpace(code), "*")]
	return ok
}

// Len returns the number of entries
func (t *Table) Len() int {
	return len(t.names)
}

// Parse decodes a JSON object of code to name
func Parse(data []byte) (*Table, error) {
	var names map[string]string
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("decoding lookup table: %w", err)
	}
	return NewTable(names), nil
}

// Load reads a lookup table from path, or the embedded default when path is empty
func Load(path, fallback string) (*Table, error) {
	var (
		data []byte
		err  error
	)
	if path == "" {
		data, err = defaults.ReadFile(fallback)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading lookup table: %w", err)
	}
	return Parse(data)
}

// LoadCurrencies returns the currency code table
func LoadCurrencies(path string) (*Table, error) {
	return Load(path, defaultCurrencies)
}

// LoadCountries returns the country acronym table
func LoadCountries(path string) (*Table, error) {
	return Load(path, defaultCountries)
}
