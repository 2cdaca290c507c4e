package main

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/Hiba-rahimi/mastercard-reconciliation/internal/domain"
)

func TestWithExtension(t *testing.T) {
	assert.Equal(t, "out.xlsx", withExtension("out", "xlsx"))
	assert.Equal(t, "out.xlsx", withExtension("out.", "xlsx"))
	assert.Equal(t, "out.json", withExtension("out.json", "csv"))
	assert.Equal(t, "dir/out.csv", withExtension("dir/out", "csv"))
}

func TestRenderSummary(t *testing.T) {
	result := &domain.ReconciliationResult{
		RunID:        "run-42",
		RunDate:      time.Date(2024, 5, 22, 0, 0, 0, 0, time.UTC),
		BusinessDate: time.Date(2024, 5, 21, 0, 0, 0, 0, time.UTC),
		ReportTotal:  100,
		UnifiedTotal: 97,
		Outcome:      domain.OutcomeDiscrepancy,
		Summary: []domain.RejectSummary{
			{Subsidiary: "SG - SENEGAL", RejectCount: 3, RejectAmount: decimal.RequireFromString("450.5")},
		},
		SourceTotals: map[domain.SourceKind]int64{domain.SourcePOS: 97},
		Warnings:     []domain.Warning{{Artifact: "CYBERSOURCE extract", Message: "skipped"}},
		Archived:     true,
	}

	out := renderSummary(result)
	assert.Contains(t, out, "Reconciliation 2024-05-21")
	assert.Contains(t, out, "Discrepancy of 3 transactions")
	assert.Contains(t, out, "SG - SENEGAL: 3 rejects, 450.50")
	assert.Contains(t, out, "Archived as run run-42")
	assert.Contains(t, out, "CYBERSOURCE extract: skipped")

	result.Outcome = domain.OutcomeExactMatch
	assert.Contains(t, renderSummary(result), "Exact match")
}
