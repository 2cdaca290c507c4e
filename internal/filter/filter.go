// Package filter keeps the internal extract rows that belong to the settlement network.
package filter

import (
	"strings"

	"github.com/Hiba-rahimi/mastercard-reconciliation/internal/domain"
)

// DefaultExcludedTypeSuffix marks POS transaction types settled outside the report
const DefaultExcludedTypeSuffix = "_MDS"

// Filter selects rows of the target network
type Filter struct {
	Network            string
	ExcludedTypeSuffix string
}

// New creates a new Filter
func New(network, excludedTypeSuffix string) *Filter {
	return &Filter{
		Network:            network,
		ExcludedTypeSuffix: excludedTypeSuffix,
	}
}

// Gateway keeps gateway rows of the target network
func (f *Filter) Gateway(records []domain.SourceRecord) []domain.SourceRecord {
	return f.keep(records, f.onNetwork)
}

// Manual keeps manual-entry rows of the target network
func (f *Filter) Manual(records []domain.SourceRecord) []domain.SourceRecord {
	return f.keep(records, f.onNetwork)
}

// POS keeps POS rows of the target network whose type does not end with the excluded suffix
func (f *Filter) POS(records []domain.SourceRecord) []domain.SourceRecord {
	return f.keep(records, func(r domain.SourceRecord) bool {
		if !f.onNetwork(r) {
			return false
		}
		return f.ExcludedTypeSuffix == "" || !strings.HasSuffix(string(r.TransactionType), f.ExcludedTypeSuffix)
	})
}

func (f *Filter) onNetwork(r domain.SourceRecord) bool {
	return r.Network == f.Network
}

func (f *Filter) keep(records []domain.SourceRecord, pred func(domain.SourceRecord) bool) []domain.SourceRecord {
	kept := make([]domain.SourceRecord, 0, len(records))
	for _, r := range records {
		if pred(r) {
			kept = append(kept, r)
		}
	}
	return kept
}

// TotalCount sums the transaction counts of the given rows
func TotalCount(records []domain.SourceRecord) int64 {
	var total int64
	for _, r := range records {
		total += r.Count
	}
	return total
}
