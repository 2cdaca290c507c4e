package settlement

import (
	"github.com/Hiba-rahimi/mastercard-reconciliation/internal/domain"
	"github.com/shopspring/decimal"
)

// CalculateRejectSummary groups rejects by subsidiary, in first-seen order
func CalculateRejectSummary(records []domain.RejectRecord) []domain.RejectSummary {
	index := make(map[string]int)
	summary := make([]domain.RejectSummary, 0)

	for _, r := range records {
		i, ok := index[r.Subsidiary]
		if !ok {
			i = len(summary)
			index[r.Subsidiary] = i
			summary = append(summary, domain.RejectSummary{
				Subsidiary:   r.Subsidiary,
				RejectAmount: decimal.Zero,
			})
		}
		summary[i].RejectCount++
		summary[i].RejectAmount = summary[i].RejectAmount.Add(r.Amount)
	}

	return summary
}
