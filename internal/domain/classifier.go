package domain

// Outcome is the terminal state of a reconciliation run
type Outcome string

// Run outcomes
const (
	OutcomeExactMatch  Outcome = "EXACT_MATCH"
	OutcomeDiscrepancy Outcome = "DISCREPANCY"
)

// ClassificationInput holds everything a classifier needs for one run
type ClassificationInput struct {
	UnifiedCount int64
	ReportCount  int64
	Rows         []UnifiedTotal
	Summary      []RejectSummary
	BusinessDate string // ISO date stamped on every row
}

// Classifier turns unified totals into reconciled rows
type Classifier interface {
	Reconcile(in ClassificationInput) ([]ReconciledRow, Outcome, error)
}

// ClassificationStrategy classifies the rows when it applies to the input
type ClassificationStrategy interface {
	Applies(in ClassificationInput) bool
	Classify(in ClassificationInput) ([]ReconciledRow, error)
	Outcome() Outcome
}
