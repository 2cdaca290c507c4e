package filter_test

import (
	"testing"

	"github.com/Hiba-rahimi/mastercard-reconciliation/internal/domain"
	"github.com/Hiba-rahimi/mastercard-reconciliation/internal/filter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mastercard = "MASTERCARD INTERNATIONAL"

func TestFilter_POS(t *testing.T) {
	f := filter.New(mastercard, filter.DefaultExcludedTypeSuffix)

	records := []domain.SourceRecord{
		{Subsidiary: "SG - SENEGAL", Network: mastercard, TransactionType: "ACHAT", Count: 10},
		{Subsidiary: "SG - SENEGAL", Network: mastercard, TransactionType: "ACHAT_MDS", Count: 4},
		{Subsidiary: "SG - SENEGAL", Network: "VISA INTERNATIONAL", TransactionType: "ACHAT", Count: 7},
		{Subsidiary: "SG - GHANA", Network: mastercard, TransactionType: "MDS_ACHAT", Count: 2},
	}

	kept := f.POS(records)
	require.Len(t, kept, 2)
	assert.Equal(t, int64(10), kept[0].Count)
	assert.Equal(t, domain.TransactionType("MDS_ACHAT"), kept[1].TransactionType)
}

func TestFilter_GatewayAndManual(t *testing.T) {
	f := filter.New(mastercard, filter.DefaultExcludedTypeSuffix)

	records := []domain.SourceRecord{
		{Network: mastercard, TransactionType: "ACHAT_MDS", Count: 1},
		{Network: "mastercard international", Count: 2},
		{Network: "VISA INTERNATIONAL", Count: 3},
	}

	assert.Len(t, f.Gateway(records), 1)
	assert.Len(t, f.Manual(records), 1)
}

func TestFilter_EmptyInput(t *testing.T) {
	f := filter.New(mastercard, filter.DefaultExcludedTypeSuffix)

	assert.Empty(t, f.POS(nil))
	assert.Empty(t, f.Gateway([]domain.SourceRecord{}))
	assert.Empty(t, f.Manual(nil))
}

func TestTotalCount(t *testing.T) {
	records := []domain.SourceRecord{{Count: 10}, {Count: 5}, {Count: 0}}
	assert.Equal(t, int64(15), filter.TotalCount(records))
	assert.Equal(t, int64(0), filter.TotalCount(nil))
}
