package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Warning is a non-fatal problem reported back to the user
type Warning struct {
	Artifact string `json:"artifact"`
	Message  string `json:"message"`
	Detail   string `json:"detail,omitempty"`
}

// ReconciliationResult containts the result of one reconciliation run
type ReconciliationResult struct {
	RunID        string                `json:"run_id"`
	RunDate      time.Time             `json:"run_date"`
	BusinessDate time.Time             `json:"business_date"`
	ReportTotal  int64                 `json:"report_total"`
	UnifiedTotal int64                 `json:"unified_total"`
	Outcome      Outcome               `json:"outcome"`
	Rows         []ReconciledRow       `json:"rows"`
	Summary      []RejectSummary       `json:"reject_summary,omitempty"`
	Rejects      []RejectRecord        `json:"rejects,omitempty"`
	Recycled     []RecycledTransaction `json:"recycled,omitempty"`
	SourceTotals map[SourceKind]int64  `json:"source_totals"`
	Warnings     []Warning             `json:"warnings,omitempty"`
	Archived     bool                  `json:"archived"`
}

// Difference returns the absolute gap between the report and the internal sources
func (r ReconciliationResult) Difference() int64 {
	d := r.ReportTotal - r.UnifiedTotal
	if d < 0 {
		return -d
	}
	return d
}

// TotalRejectAmount sums reject amounts across all subsidiaries
func (r ReconciliationResult) TotalRejectAmount() decimal.Decimal {
	total := decimal.Zero
	for _, s := range r.Summary {
		total = total.Add(s.RejectAmount)
	}
	return total
}
