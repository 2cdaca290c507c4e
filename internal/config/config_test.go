package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Hiba-rahimi/mastercard-reconciliation/internal/config"
	"github.com/Hiba-rahimi/mastercard-reconciliation/internal/domain"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	v := viper.New()
	config.SetDefaults(v)

	cfg, err := config.Load(v)
	require.NoError(t, err)

	assert.Equal(t, "MASTERCARD INTERNATIONAL", cfg.Network)
	assert.Equal(t, "_MDS", cfg.ExcludedTypeSuffix)
	assert.Equal(t, domain.Purchase, cfg.GatewayType)
	assert.Equal(t, "SG - ", cfg.SubsidiaryPrefix)
	assert.Equal(t, ',', cfg.DefaultDelimiter)
	assert.True(t, cfg.ValidateFileNames)
	assert.Equal(t, 3, cfg.AmountImpliedDecimal)
	assert.Equal(t, 5, cfg.CountryTagSkip)
	assert.False(t, cfg.ArchiveEnabled)
	assert.Equal(t, ":8080", cfg.ServerAddr)
}

func TestSetup_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recon.yaml")
	content := `network: VISA
csv:
  default_delimiter: ";"
gateway:
  transaction_type: remboursement
archive:
  enabled: true
  path: /tmp/recon.db
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("RECON_SERVER_ADDR", ":9090")

	v := viper.New()
	require.NoError(t, config.Setup(v, path))

	cfg, err := config.Load(v)
	require.NoError(t, err)

	assert.Equal(t, "VISA", cfg.Network)
	assert.Equal(t, ';', cfg.DefaultDelimiter)
	assert.Equal(t, domain.Refund, cfg.GatewayType)
	assert.True(t, cfg.ArchiveEnabled)
	assert.Equal(t, "/tmp/recon.db", cfg.ArchivePath)
	assert.Equal(t, ":9090", cfg.ServerAddr)
}

func TestSetup_MissingExplicitFile(t *testing.T) {
	v := viper.New()
	err := config.Setup(v, filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value any
	}{
		{"long delimiter", "csv.default_delimiter", ";;"},
		{"empty network", "network", ""},
		{"unknown gateway type", "gateway.transaction_type", "CASHBACK"},
		{"negative decimals", "report.amount_implied_decimals", -1},
		{"negative skip", "report.country_tag_skip", -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			config.SetDefaults(v)
			v.Set(tt.key, tt.value)

			_, err := config.Load(v)
			assert.Error(t, err)
		})
	}
}

func TestLoad_TabDelimiter(t *testing.T) {
	v := viper.New()
	config.SetDefaults(v)
	v.Set("csv.default_delimiter", "tab")

	cfg, err := config.Load(v)
	require.NoError(t, err)
	assert.Equal(t, '\t', cfg.DefaultDelimiter)
}

func TestExpandPath(t *testing.T) {
	t.Setenv("RECON_TEST_DIR", "/data")
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, "", config.ExpandPath(""))
	assert.Equal(t, "/data/archive.db", config.ExpandPath("$RECON_TEST_DIR/archive.db"))
	assert.Equal(t, filepath.Join(home, "recon.db"), config.ExpandPath("~/recon.db"))
}
