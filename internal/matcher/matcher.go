package matcher

import (
	"fmt"
	"log/slog"

	"github.com/Hiba-rahimi/mastercard-reconciliation/internal/domain"
)

// DefaultClassifier implements the Classifier interface
type DefaultClassifier struct {
	strategies []domain.ClassificationStrategy
}

// NewDefaultClassifier creates a new DefaultClassifier with the given strategies
func NewDefaultClassifier(strategies ...domain.ClassificationStrategy) *DefaultClassifier {
	if len(strategies) == 0 {

		// Default strategies, tried in order
		strategies = []domain.ClassificationStrategy{
			NewExactTotalStrategy(),
			NewRejectSummaryStrategy(),
		}
	}

	return &DefaultClassifier{
		strategies: strategies,
	}
}

// Reconcile classifies the unified rows with the first strategy that applies
func (c *DefaultClassifier) Reconcile(in domain.ClassificationInput) ([]domain.ReconciledRow, domain.Outcome, error) {
	slog.Info("Classifying unified totals",
		"rows", len(in.Rows),
		"unified_total", in.UnifiedCount,
		"report_total", in.ReportCount,
	)

	for _, strategy := range c.strategies {
		if !strategy.Applies(in) {
			continue
		}

		rows, err := strategy.Classify(in)
		if err != nil {
			return nil, "", err
		}
		return rows, strategy.Outcome(), nil
	}

	return nil, "", fmt.Errorf("no classification strategy applies to %d unified rows", len(in.Rows))
}
