package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func statsCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show archive statistics per subsidiary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, archive, err := openArchive(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			counts, err := archive.CountByStatusAndSubsidiary(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, titleStyle.Render("Results by subsidiary"))
			for _, c := range counts {
				fmt.Fprintf(out, "  %-35s %s %d\n", c.Subsidiary, statusStyle(c.Status).Render(fmt.Sprintf("%-6s", c.Status)), c.Count)
			}

			var since *time.Time
			period := "all time"
			if days > 0 {
				t := time.Now().AddDate(0, 0, -days)
				since = &t
				period = fmt.Sprintf("last %d days", days)
			}

			covered, err := archive.CoveredAmountsBySubsidiary(ctx, since)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, titleStyle.Render("\nCovered transactions ("+period+")"))
			for _, s := range covered {
				fmt.Fprintf(out, "  %-35s %8d %18.2f\n", s.Subsidiary, s.Count, s.Amount)
			}

			rejects, err := archive.RejectsBySubsidiary(ctx, since)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, titleStyle.Render("\nRejects ("+period+")"))
			for _, s := range rejects {
				fmt.Fprintf(out, "  %-35s %8d %18.2f\n", s.Subsidiary, s.Count, s.Amount)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 30, "Only sum the last N days (0 for all time)")

	return cmd
}
