// Package config loads the reconciliation settings from defaults, an optional
// YAML file and RECON_ environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/Hiba-rahimi/mastercard-reconciliation/internal/domain"
	"github.com/Hiba-rahimi/mastercard-reconciliation/internal/filter"
	"github.com/Hiba-rahimi/mastercard-reconciliation/internal/settlement"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. RECON_ARCHIVE_PATH
const EnvPrefix = "RECON"

// Config holds every tunable of a reconciliation run
type Config struct {
	Network              string
	ExcludedTypeSuffix   string
	GatewayType          domain.TransactionType
	SubsidiaryPrefix     string
	DefaultDelimiter     rune
	ValidateFileNames    bool
	AmountImpliedDecimal int
	CountryTagSkip       int
	CurrenciesPath       string
	CountriesPath        string
	ArchivePath          string
	ArchiveEnabled       bool
	LogLevel             string
	LogFormat            string
	ServerAddr           string
}

// SetDefaults registers the default value of every key on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("network", settlement.DefaultNetwork)
	v.SetDefault("pos.excluded_type_suffix", filter.DefaultExcludedTypeSuffix)
	v.SetDefault("gateway.transaction_type", string(domain.Purchase))
	v.SetDefault("subsidiary.prefix", settlement.DefaultSubsidiaryPrefix)
	v.SetDefault("csv.default_delimiter", ",")
	v.SetDefault("csv.validate_file_names", true)
	v.SetDefault("report.amount_implied_decimals", settlement.AmountImpliedDecimals)
	v.SetDefault("report.country_tag_skip", settlement.CountryTagSkip)
	v.SetDefault("lookups.currencies", "")
	v.SetDefault("lookups.countries", "")
	v.SetDefault("archive.path", "$HOME/.local/share/recon/archive.db")
	v.SetDefault("archive.enabled", false)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("server.addr", ":8080")
}

// Setup wires defaults and environment overrides into v and reads cfgFile, or
// config.yaml from the usual locations when cfgFile is empty. A missing config
// file is not an error.
func Setup(v *viper.Viper, cfgFile string) error {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "recon"))
		}
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}
	return nil
}

// Load reads the settings from v and validates them
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Network:              v.GetString("network"),
		ExcludedTypeSuffix:   v.GetString("pos.excluded_type_suffix"),
		GatewayType:          domain.TransactionType(strings.ToUpper(v.GetString("gateway.transaction_type"))),
		SubsidiaryPrefix:     v.GetString("subsidiary.prefix"),
		ValidateFileNames:    v.GetBool("csv.validate_file_names"),
		AmountImpliedDecimal: v.GetInt("report.amount_implied_decimals"),
		CountryTagSkip:       v.GetInt("report.country_tag_skip"),
		CurrenciesPath:       ExpandPath(v.GetString("lookups.currencies")),
		CountriesPath:        ExpandPath(v.GetString("lookups.countries")),
		ArchivePath:          ExpandPath(v.GetString("archive.path")),
		ArchiveEnabled:       v.GetBool("archive.enabled"),
		LogLevel:             v.GetString("logging.level"),
		LogFormat:            v.GetString("logging.format"),
		ServerAddr:           v.GetString("server.addr"),
	}

	delim := v.GetString("csv.default_delimiter")
	switch {
	case delim == `\t` || delim == "tab":
		cfg.DefaultDelimiter = '\t'
	case utf8.RuneCountInString(delim) == 1:
		cfg.DefaultDelimiter, _ = utf8.DecodeRuneInString(delim)
	default:
		return nil, fmt.Errorf("csv.default_delimiter must be a single character, got %q", delim)
	}

	if cfg.Network == "" {
		return nil, fmt.Errorf("network must not be empty")
	}
	if cfg.GatewayType != domain.Purchase && cfg.GatewayType != domain.Refund {
		return nil, fmt.Errorf("gateway.transaction_type must be %s or %s, got %q", domain.Purchase, domain.Refund, cfg.GatewayType)
	}
	if cfg.AmountImpliedDecimal < 0 {
		return nil, fmt.Errorf("report.amount_implied_decimals must not be negative")
	}
	if cfg.CountryTagSkip < 0 {
		return nil, fmt.Errorf("report.country_tag_skip must not be negative")
	}
	return cfg, nil
}

// ExpandPath expands ~ and environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}
