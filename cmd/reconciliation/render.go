package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Hiba-rahimi/mastercard-reconciliation/internal/domain"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	okStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	notOKStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// renderSummary formats the headline figures of a run for the terminal
func renderSummary(r *domain.ReconciliationResult) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Reconciliation " + r.BusinessDate.Format(domain.ISODate)))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Run date:        %s\n", r.RunDate.Format(domain.ISODate))
	fmt.Fprintf(&b, "Report total:    %d\n", r.ReportTotal)
	fmt.Fprintf(&b, "Unified total:   %d\n", r.UnifiedTotal)
	for _, kind := range []domain.SourceKind{domain.SourcePOS, domain.SourceManual, domain.SourceGateway} {
		fmt.Fprintf(&b, "  %-13s %d\n", kind, r.SourceTotals[kind])
	}

	if r.Outcome == domain.OutcomeExactMatch {
		b.WriteString(okStyle.Render("Exact match: every subsidiary reconciled"))
	} else {
		b.WriteString(notOKStyle.Render(fmt.Sprintf("Discrepancy of %d transactions", r.Difference())))
		for _, s := range r.Summary {
			fmt.Fprintf(&b, "\n  %s: %d rejects, %s", s.Subsidiary, s.RejectCount, s.RejectAmount.StringFixed(2))
		}
		if len(r.Summary) > 0 {
			fmt.Fprintf(&b, "\n  Total rejected amount: %s", r.TotalRejectAmount().StringFixed(2))
		}
	}

	if len(r.Recycled) > 0 {
		fmt.Fprintf(&b, "\n%d recycled transactions added back", len(r.Recycled))
	}
	if r.Archived {
		b.WriteString("\n" + mutedStyle.Render("Archived as run "+r.RunID))
	}

	for _, w := range r.Warnings {
		b.WriteString("\n" + warningStyle.Render("! "+w.Artifact+": "+w.Message))
	}

	return boxStyle.Render(b.String())
}

func statusStyle(s domain.MatchStatus) lipgloss.Style {
	if s == domain.StatusMatched {
		return okStyle
	}
	return notOKStyle
}
