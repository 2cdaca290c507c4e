package matcher

import (
	"fmt"
	"strings"

	"github.com/Hiba-rahimi/mastercard-reconciliation/internal/domain"
	"github.com/shopspring/decimal"
)

// ExactTotalStrategy marks every row matched when the totals agree
type ExactTotalStrategy struct{}

// NewExactTotalStrategy creates a new ExactTotalStrategy
func NewExactTotalStrategy() *ExactTotalStrategy {
	return &ExactTotalStrategy{}
}

// Applies implements the ClassificationStrategy interface
func (s *ExactTotalStrategy) Applies(in domain.ClassificationInput) bool {
	return in.UnifiedCount == in.ReportCount
}

// Classify implements the ClassificationStrategy interface. The reject summary
// is ignored: an exact aggregate match settles every subsidiary.
func (s *ExactTotalStrategy) Classify(in domain.ClassificationInput) ([]domain.ReconciledRow, error) {
	rows := make([]domain.ReconciledRow, 0, len(in.Rows))
	for _, u := range in.Rows {
		rows = append(rows, newRow(u, in.BusinessDate, domain.StatusMatched))
	}
	return rows, nil
}

func (s *ExactTotalStrategy) Outcome() domain.Outcome {
	return domain.OutcomeExactMatch
}

// RejectSummaryStrategy marks mismatched the subsidiaries that have rejects
type RejectSummaryStrategy struct{}

// NewRejectSummaryStrategy creates a new RejectSummaryStrategy
func NewRejectSummaryStrategy() *RejectSummaryStrategy {
	return &RejectSummaryStrategy{}
}

// Applies implements the ClassificationStrategy interface
func (s *RejectSummaryStrategy) Applies(in domain.ClassificationInput) bool {
	return in.UnifiedCount != in.ReportCount
}

// Classify implements the ClassificationStrategy interface
func (s *RejectSummaryStrategy) Classify(in domain.ClassificationInput) ([]domain.ReconciledRow, error) {
	withRejects := domain.SubsidiariesWithRejects(in.Summary)

	rows := make([]domain.ReconciledRow, 0, len(in.Rows))
	for i, u := range in.Rows {
		if strings.TrimSpace(u.Subsidiary) == "" {
			return nil, &domain.PreconditionError{
				Step: "classification",
				Err:  fmt.Errorf("%w (row %d)", domain.ErrMissingSubsidiary, i),
			}
		}

		summary, ok := withRejects[u.Subsidiary]
		if !ok {
			rows = append(rows, newRow(u, in.BusinessDate, domain.StatusMatched))
			continue
		}

		row := newRow(u, in.BusinessDate, domain.StatusMismatched)
		row.RejectCount = summary.RejectCount
		row.RejectAmount = summary.RejectAmount
		rows = append(rows, row)
	}

	return rows, nil
}

func (s *RejectSummaryStrategy) Outcome() domain.Outcome {
	return domain.OutcomeDiscrepancy
}

// newRow builds a row with zero rejects. Covered figures mirror the gross totals
// in both outcomes.
func newRow(u domain.UnifiedTotal, businessDate string, status domain.MatchStatus) domain.ReconciledRow {
	return domain.ReconciledRow{
		Subsidiary:    u.Subsidiary,
		Network:       u.Network,
		Type:          u.TransactionType,
		Date:          businessDate,
		Currency:      u.Currency,
		TotalCount:    u.Count,
		TotalAmount:   u.Amount,
		Status:        status,
		RejectCount:   0,
		RejectAmount:  decimal.Zero,
		CoveredCount:  u.Count,
		CoveredAmount: u.Amount,
	}
}
