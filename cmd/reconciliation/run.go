package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Hiba-rahimi/mastercard-reconciliation/internal/domain"
	"github.com/Hiba-rahimi/mastercard-reconciliation/internal/report"
	"github.com/Hiba-rahimi/mastercard-reconciliation/internal/repository"
	"github.com/Hiba-rahimi/mastercard-reconciliation/internal/service"
)

func runCmd() *cobra.Command {
	var (
		reportFile   string
		posFile      string
		manualFile   string
		gatewayFile  string
		recycledFile string
		cutoffStr    string
		outputFormat string
		outputFile   string
		prettyPrint  bool
		archive      bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Reconcile a settlement report against the internal extracts",
		Example: `  recon run --report TT140.txt \
    --pos TRANSACTION_POS_TRAITE_SG_24-05-21_101500.CSV \
    --gateway TRANSACTION_CYBERSOURCE_TRAITE_SG_24-05-21_101500.CSV \
    --format xlsx --output reconciliation`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if reportFile == "" {
				return fmt.Errorf("settlement report file path is required (--report)")
			}

			var cutoff time.Time
			if cutoffStr != "" {
				var err error
				if cutoff, err = time.Parse(domain.ISODate, cutoffStr); err != nil {
					return fmt.Errorf("invalid cutoff date format: %w", err)
				}
			}

			formatter, err := report.NewFormatter(outputFormat, prettyPrint)
			if err != nil {
				return err
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			archive = archive || cfg.ArchiveEnabled

			var store *repository.SQLiteArchive
			if archive {
				db, a, err := openArchive(cfg)
				if err != nil {
					return err
				}
				defer db.Close()
				store = a
			}

			svc, err := newService(cfg, store)
			if err != nil {
				return err
			}

			in := service.RunInput{
				ReportPath:   reportFile,
				Sources:      make(map[domain.SourceKind]service.SourceInput),
				RecycledPath: recycledFile,
				Cutoff:       cutoff,
				Archive:      archive,
			}
			for kind, path := range map[domain.SourceKind]string{
				domain.SourcePOS:     posFile,
				domain.SourceManual:  manualFile,
				domain.SourceGateway: gatewayFile,
			} {
				if path != "" {
					in.Sources[kind] = service.SourceInput{Path: path}
				}
			}

			result, err := svc.Run(cmd.Context(), in)
			if err != nil {
				return err
			}

			output, err := formatter.Format(*result)
			if err != nil {
				return fmt.Errorf("failed to format output: %w", err)
			}

			if outputFile == "" && formatter.FileExtension() == "xlsx" {
				outputFile = "reconciliation_" + result.BusinessDate.Format(domain.ISODate)
			}

			if outputFile != "" {
				outputFile = withExtension(outputFile, formatter.FileExtension())
				if err := os.WriteFile(outputFile, output, 0o644); err != nil {
					return fmt.Errorf("failed to write output file: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderSummary(result))
				fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("Results written to "+outputFile))
				return nil
			}

			fmt.Fprintln(cmd.ErrOrStderr(), renderSummary(result))
			fmt.Fprintln(cmd.OutOrStdout(), string(output))
			return nil
		},
	}

	cmd.Flags().StringVar(&reportFile, "report", "", "Path to the TT140 settlement report")
	cmd.Flags().StringVar(&posFile, "pos", "", "Path to the POS extract")
	cmd.Flags().StringVar(&manualFile, "manual", "", "Path to the manual-entry extract")
	cmd.Flags().StringVar(&gatewayFile, "gateway", "", "Path to the payment-gateway extract")
	cmd.Flags().StringVar(&recycledFile, "recycled", "", "Path to the recycled transactions workbook")
	cmd.Flags().StringVar(&cutoffStr, "cutoff", "", "Reprocessing date of the recycled transactions (YYYY-MM-DD, default: business date)")
	cmd.Flags().StringVar(&outputFormat, "format", "json", "Output format: json, csv or xlsx")
	cmd.Flags().StringVar(&outputFile, "output", "", "Path to output file (if empty, writes to stdout)")
	cmd.Flags().BoolVar(&prettyPrint, "pretty", true, "Pretty print JSON output")
	cmd.Flags().BoolVar(&archive, "archive", false, "Store the results in the archive")

	return cmd
}

// withExtension adds ext when path has none
func withExtension(path, ext string) string {
	if filepath.Ext(path) == "" {
		return fmt.Sprintf("%s.%s", strings.TrimSuffix(path, "."), ext)
	}
	return path
}
