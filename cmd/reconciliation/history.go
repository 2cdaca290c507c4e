package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Hiba-rahimi/mastercard-reconciliation/internal/domain"
)

func historyCmd() *cobra.Command {
	var (
		date   string
		status string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List archived reconciliation results",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (date == "") == (status == "") {
				return fmt.Errorf("exactly one of --date or --status is required")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, archive, err := openArchive(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			var rows []domain.ReconciledRow
			if date != "" {
				if _, err := time.Parse(domain.ISODate, date); err != nil {
					return fmt.Errorf("invalid date format: %w", err)
				}
				rows, err = archive.FindResultsByDate(cmd.Context(), date)
			} else {
				s := domain.MatchStatus(status)
				if s != domain.StatusMatched && s != domain.StatusMismatched {
					return fmt.Errorf("status must be %q or %q", domain.StatusMatched, domain.StatusMismatched)
				}
				rows, err = archive.FindResultsByStatus(cmd.Context(), s)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintln(out, mutedStyle.Render("No archived results"))
				return nil
			}

			fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("%-35s %-10s %-6s %-14s %10s %8s", "Subsidiary", "Date", "Curr.", "Type", "Count", "Status")))
			for _, r := range rows {
				fmt.Fprintf(out, "%-35s %-10s %-6s %-14s %10d %s\n",
					r.Subsidiary, r.Date, r.Currency, r.Type, r.TotalCount,
					statusStyle(r.Status).Render(fmt.Sprintf("%8s", r.Status)))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Business date of the results (YYYY-MM-DD)")
	cmd.Flags().StringVar(&status, "status", "", `Match status of the results ("OK" or "NOT OK")`)

	return cmd
}
