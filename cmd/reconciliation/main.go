package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Hiba-rahimi/mastercard-reconciliation/internal/common"
	"github.com/Hiba-rahimi/mastercard-reconciliation/internal/config"
	"github.com/Hiba-rahimi/mastercard-reconciliation/internal/domain"
)

var (
	cfgFile string
	version = "dev"
	rootCmd = &cobra.Command{
		Use:   "recon",
		Short: "MasterCard settlement reconciliation",
		Long: `recon reconciles a MasterCard TT140 settlement report against the POS,
manual-entry and payment-gateway extracts of the same business day, and
reports which subsidiaries carry rejected transactions.`,
		PersistentPreRunE: initConfig,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/recon/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")

	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(versionCmd())
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	cancel()

	if err != nil {
		exitWithError(errorMessage(err))
	}
}

// errorMessage puts the user-facing message of a failed run first
func errorMessage(err error) string {
	var runErr *domain.RunError
	if !errors.As(err, &runErr) {
		return err.Error()
	}
	if runErr.Err == nil {
		return fmt.Sprintf("%s (%s)", runErr.UserMessage, runErr.Artifact)
	}
	return fmt.Sprintf("%s (%s)\n  %v", runErr.UserMessage, runErr.Artifact, runErr.Err)
}

func initConfig(_ *cobra.Command, _ []string) error {
	if err := config.Setup(viper.GetViper(), cfgFile); err != nil {
		return err
	}

	if err := common.SetupLogger(viper.GetString("logging.level"), viper.GetString("logging.format")); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "recon %s\n", version)
			slog.Debug("recon version", "version", version)
		},
	}
}

func exitWithError(message string) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", message)
	fmt.Fprintf(os.Stderr, "Run with --help for usage information.\n")
	os.Exit(1)
}
