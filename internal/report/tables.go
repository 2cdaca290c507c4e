package report

import (
	"strings"

	"github.com/Hiba-rahimi/mastercard-reconciliation/internal/domain"
)

// Table names
const (
	TableResults = "Reconciliation"
	TableSummary = "Reject Summary"
	TableRejects = "Rejected Transactions"
)

// table is one exported grid; amount columns are listed by index
type table struct {
	name    string
	header  []string
	rows    [][]any
	amounts map[int]bool
	flagged map[int]bool // rows highlighted as not reconciled
}

func resultsTable(result domain.ReconciliationResult) table {
	t := table{
		name: TableResults,
		header: []string{
			"FILIALE", "Réseau", "Type", "Date", "Devise",
			"Nbre Total De Transactions", "Montant Total de Transactions", "Rapprochement",
			"Nbre Total de Rejets", "Montant de Rejets",
			"Nbre de Transactions (Couverture)", "Montant de Transactions (Couverture)",
		},
		flagged: make(map[int]bool),
	}
	t.amounts = amountColumns(t.header)

	for i, r := range result.Rows {
		t.rows = append(t.rows, []any{
			r.Subsidiary, r.Network, string(r.Type), r.Date, r.Currency,
			r.TotalCount, r.TotalAmount.InexactFloat64(), string(r.Status),
			r.RejectCount, r.RejectAmount.InexactFloat64(),
			r.CoveredCount, r.CoveredAmount.InexactFloat64(),
		})
		if r.Status == domain.StatusMismatched {
			t.flagged[i] = true
		}
	}
	return t
}

func summaryTable(result domain.ReconciliationResult) table {
	t := table{
		name:   TableSummary,
		header: []string{"FILIALE", "Nbre Total de Rejets", "Montant de Rejets"},
	}
	t.amounts = amountColumns(t.header)

	for _, s := range result.Summary {
		t.rows = append(t.rows, []any{s.Subsidiary, s.RejectCount, s.RejectAmount.InexactFloat64()})
	}
	return t
}

func rejectsTable(result domain.ReconciliationResult) table {
	t := table{
		name:   TableRejects,
		header: []string{"FILIALE", "Réseau", "ARN", "Autorisation", "Date Transaction", "Montant", "Devise", "Motif"},
	}
	t.amounts = amountColumns(t.header)

	for _, r := range result.Rejects {
		t.rows = append(t.rows, []any{
			r.Subsidiary, r.Network, r.ARN, r.Authorization, r.TransactionDate,
			r.Amount.InexactFloat64(), r.Currency, r.Reason,
		})
	}
	return t
}

func tableByName(name string, result domain.ReconciliationResult) table {
	switch name {
	case TableSummary:
		return summaryTable(result)
	case TableRejects:
		return rejectsTable(result)
	default:
		return resultsTable(result)
	}
}

func amountColumns(header []string) map[int]bool {
	cols := make(map[int]bool)
	for i, h := range header {
		if strings.Contains(h, "Montant") {
			cols[i] = true
		}
	}
	return cols
}
