package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/Hiba-rahimi/mastercard-reconciliation/internal/config"
	"github.com/Hiba-rahimi/mastercard-reconciliation/internal/domain"
	"github.com/Hiba-rahimi/mastercard-reconciliation/internal/filter"
	"github.com/Hiba-rahimi/mastercard-reconciliation/internal/lookup"
	"github.com/Hiba-rahimi/mastercard-reconciliation/internal/matcher"
	"github.com/Hiba-rahimi/mastercard-reconciliation/internal/repository"
	"github.com/Hiba-rahimi/mastercard-reconciliation/internal/service"
	"github.com/Hiba-rahimi/mastercard-reconciliation/internal/settlement"
)

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// openArchive opens the SQLite archive, creating its directory when needed
func openArchive(cfg *config.Config) (*sql.DB, *repository.SQLiteArchive, error) {
	if dir := filepath.Dir(cfg.ArchivePath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, nil, fmt.Errorf("create archive directory: %w", err)
		}
	}

	db, err := repository.InitDB(cfg.ArchivePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open archive: %w", err)
	}
	slog.Debug("Archive opened", "path", cfg.ArchivePath)
	return db, repository.NewSQLiteArchive(db), nil
}

// newService wires the reconciliation pipeline from cfg. archive may be nil.
func newService(cfg *config.Config, archive *repository.SQLiteArchive) (*service.ReconciliationService, error) {
	currencies, err := lookup.LoadCurrencies(cfg.CurrenciesPath)
	if err != nil {
		return nil, fmt.Errorf("currency table: %w", err)
	}
	countries, err := lookup.LoadCountries(cfg.CountriesPath)
	if err != nil {
		return nil, fmt.Errorf("country table: %w", err)
	}

	parser := settlement.NewParser(currencies, countries,
		settlement.WithNetwork(cfg.Network),
		settlement.WithSubsidiaryPrefix(cfg.SubsidiaryPrefix),
		settlement.WithCountryTagSkip(cfg.CountryTagSkip),
		settlement.WithAmountImpliedDecimals(cfg.AmountImpliedDecimal),
	)

	repos := service.FileRepositories{
		DefaultDelimiter: cfg.DefaultDelimiter,
		GatewayType:      cfg.GatewayType,
	}

	// the interface must stay nil when there is no archive
	var store domain.ArchiveRepository
	if archive != nil {
		store = archive
	}

	return service.NewReconciliationService(
		parser,
		filter.New(cfg.Network, cfg.ExcludedTypeSuffix),
		matcher.NewDefaultClassifier(),
		repos,
		store,
		cfg.ValidateFileNames,
	), nil
}
