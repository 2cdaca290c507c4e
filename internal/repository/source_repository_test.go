package repository_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Hiba-rahimi/mastercard-reconciliation/internal/domain"
	"github.com/Hiba-rahimi/mastercard-reconciliation/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeExtract(t *testing.T, name, content string) string {
	t.Helper()
	fp := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(fp, []byte(content), 0o644))
	return fp
}

func TestPOSRepository_Load(t *testing.T) {
	fp := writeExtract(t, "TRANSACTION_POS_TRAITE_SG_24-05-23_020000.CSV",
		" BANQUE ; reseau ;TYPE_TRANSACTION;DATE_TRAI;CUR;NBRE_TRANSACTION;MONTANT_TOTAL\n"+
			"SG - SENEGAL ;MASTERCARD INTERNATIONAL;ACHAT;22/05/2024;XOF;10;1,500.50\n"+
			"SG - GHANA;MASTERCARD INTERNATIONAL;ACHAT_MDS;22/05/2024;GHS;3;300\n"+
			"SG - GHANA;VISA INTERNATIONAL;ACHAT;22/05/2024;GHS;abc;300\n"+
			"SG - GHANA;MASTERCARD\n")

	repo := repository.NewPOSRepository(fp, ',')
	assert.Equal(t, domain.SourcePOS, repo.Kind())

	records, err := repo.Load()
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, domain.SourcePOS, first.Source)
	assert.Equal(t, "SG - SENEGAL", first.Subsidiary)
	assert.Equal(t, "MASTERCARD INTERNATIONAL", first.Network)
	assert.Equal(t, domain.Purchase, first.TransactionType)
	assert.Equal(t, "22/05/2024", first.ProcessingDate)
	assert.Equal(t, "XOF", first.Currency)
	assert.Equal(t, int64(10), first.Count)
	assert.True(t, decimal.RequireFromString("1500.50").Equal(first.Amount))

	assert.Equal(t, domain.TransactionType("ACHAT_MDS"), records[1].TransactionType)
}

func TestManualRepository_Load(t *testing.T) {
	fp := writeExtract(t, "manual.csv",
		"NBRE_TRANSACTION,MONTANT_TOTAL,CUR,FILIALE,RESEAU\n"+
			"5,\"2,000\",XOF,SG - SENEGAL,MASTERCARD INTERNATIONAL\n")

	records, err := repository.NewManualRepository(fp, ',').Load()
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, domain.SourceManual, records[0].Source)
	assert.Equal(t, int64(5), records[0].Count)
	assert.True(t, decimal.NewFromInt(2000).Equal(records[0].Amount))
	assert.Empty(t, records[0].TransactionType)
	assert.Empty(t, records[0].ProcessingDate)
}

func TestSourceRepository_SkipsRowsWithoutSubsidiary(t *testing.T) {
	fp := writeExtract(t, "manual.csv",
		"NBRE_TRANSACTION,MONTANT_TOTAL,CUR,FILIALE,RESEAU\n"+
			"4,400,XOF,   ,MASTERCARD INTERNATIONAL\n"+
			"5,500,XOF,SG - SENEGAL,MASTERCARD INTERNATIONAL\n"+
			"6,600,XAF,,MASTERCARD INTERNATIONAL\n")

	records, err := repository.NewManualRepository(fp, ',').Load()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "SG - SENEGAL", records[0].Subsidiary)
	assert.Equal(t, int64(5), records[0].Count)
}

func TestGatewayRepository_InjectsTransactionType(t *testing.T) {
	fp := writeExtract(t, "gateway.csv",
		"NBRE_TRANSACTION MONTANT_TOTAL CUR FILIALE RESEAU\n"+
			"2 100 XOF SG-SENEGAL MASTERCARD\n")

	records, err := repository.NewGatewayRepository(fp, ',', "").Load()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, domain.Purchase, records[0].TransactionType)
	assert.Equal(t, domain.SourceGateway, records[0].Source)
	assert.Equal(t, "SG-SENEGAL", records[0].Subsidiary)
}

func TestSourceRepository_AbsentExtract(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"empty path", ""},
		{"missing file", filepath.Join(t.TempDir(), "TRANSACTION_POS_TRAITE_SG_24-05-23_020000.CSV")},
		{"directory", t.TempDir()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := repository.NewPOSRepository(tt.path, ',').Load()
			require.NoError(t, err)
			assert.NotNil(t, records)
			assert.Empty(t, records)
		})
	}
}

func TestSourceRepository_MissingColumn(t *testing.T) {
	fp := writeExtract(t, "pos.csv", "FILIALE;RESEAU;CUR\nSG - SENEGAL;MASTERCARD INTERNATIONAL;XOF\n")

	_, err := repository.NewPOSRepository(fp, ',').Load()
	require.Error(t, err)

	var formatErr *domain.FormatError
	assert.ErrorAs(t, err, &formatErr)
	assert.ErrorIs(t, err, domain.ErrMissingColumn)
}
