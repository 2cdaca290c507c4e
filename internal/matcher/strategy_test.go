package matcher_test

import (
	"errors"
	"testing"

	"github.com/Hiba-rahimi/mastercard-reconciliation/internal/domain"
	"github.com/Hiba-rahimi/mastercard-reconciliation/internal/matcher"
	"github.com/shopspring/decimal"
)

func unifiedRows() []domain.UnifiedTotal {
	return []domain.UnifiedTotal{
		{Subsidiary: "X", Network: "MASTERCARD INTERNATIONAL", Currency: "XOF", TransactionType: domain.Purchase, Count: 60, Amount: decimal.NewFromInt(6000)},
		{Subsidiary: "Y", Network: "MASTERCARD INTERNATIONAL", Currency: "XAF", TransactionType: domain.Purchase, Count: 37, Amount: decimal.NewFromInt(3700)},
	}
}

func TestExactTotalStrategy(t *testing.T) {
	strategy := matcher.NewExactTotalStrategy()

	in := domain.ClassificationInput{
		UnifiedCount: 100,
		ReportCount:  100,
		Rows:         unifiedRows(),
		Summary:      []domain.RejectSummary{{Subsidiary: "X", RejectCount: 3, RejectAmount: decimal.NewFromInt(90)}},
		BusinessDate: "2024-05-23",
	}

	if !strategy.Applies(in) {
		t.Fatalf("Expected strategy to apply when totals are equal")
	}

	rows, err := strategy.Classify(in)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}

	for _, row := range rows {
		if row.Status != domain.StatusMatched {
			t.Errorf("Expected %s to be matched, got %s", row.Subsidiary, row.Status)
		}
		if row.RejectCount != 0 || !row.RejectAmount.IsZero() {
			t.Errorf("Expected no rejects on %s, got %d / %s", row.Subsidiary, row.RejectCount, row.RejectAmount)
		}
		if row.CoveredCount != row.TotalCount || !row.CoveredAmount.Equal(row.TotalAmount) {
			t.Errorf("Expected covered figures to mirror totals on %s", row.Subsidiary)
		}
		if row.Date != "2024-05-23" {
			t.Errorf("Expected business date 2024-05-23, got %s", row.Date)
		}
	}

	in.UnifiedCount = 97
	if strategy.Applies(in) {
		t.Errorf("Expected strategy not to apply when totals differ")
	}
}

func TestRejectSummaryStrategy(t *testing.T) {
	strategy := matcher.NewRejectSummaryStrategy()

	in := domain.ClassificationInput{
		UnifiedCount: 97,
		ReportCount:  100,
		Rows:         unifiedRows(),
		Summary:      []domain.RejectSummary{{Subsidiary: "X", RejectCount: 3, RejectAmount: decimal.NewFromInt(90)}},
		BusinessDate: "2024-05-23",
	}

	if !strategy.Applies(in) {
		t.Fatalf("Expected strategy to apply when totals differ")
	}

	rows, err := strategy.Classify(in)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	x, y := rows[0], rows[1]
	if x.Status != domain.StatusMismatched {
		t.Errorf("Expected X to be NOT OK, got %s", x.Status)
	}
	if x.RejectCount != 3 {
		t.Errorf("Expected X reject count 3, got %d", x.RejectCount)
	}
	if !x.RejectAmount.Equal(decimal.NewFromInt(90)) {
		t.Errorf("Expected X reject amount 90, got %s", x.RejectAmount)
	}
	if x.CoveredCount != 60 {
		t.Errorf("Expected X covered count to stay at the gross 60, got %d", x.CoveredCount)
	}

	if y.Status != domain.StatusMatched {
		t.Errorf("Expected Y to be OK, got %s", y.Status)
	}
	if y.RejectCount != 0 {
		t.Errorf("Expected Y reject count 0, got %d", y.RejectCount)
	}
}

func TestRejectSummaryStrategy_MissingSubsidiary(t *testing.T) {
	strategy := matcher.NewRejectSummaryStrategy()

	rows := unifiedRows()
	rows[1].Subsidiary = "  "

	_, err := strategy.Classify(domain.ClassificationInput{UnifiedCount: 1, ReportCount: 2, Rows: rows})

	var precondition *domain.PreconditionError
	if !errors.As(err, &precondition) {
		t.Fatalf("Expected a PreconditionError, got %v", err)
	}
	if !errors.Is(err, domain.ErrMissingSubsidiary) {
		t.Errorf("Expected ErrMissingSubsidiary, got %v", err)
	}
}
