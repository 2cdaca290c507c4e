package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// NotFound is the sentinel used when a lookup table has no entry for a key
const NotFound = "Not found"

// ISODate is the layout used for every date emitted by the reconciliation
const ISODate = "2006-01-02"

// RejectRecord is one rejected transaction found in the settlement report
type RejectRecord struct {
	Subsidiary      string          `json:"subsidiary"`
	Network         string          `json:"network"`
	ARN             string          `json:"arn"`
	Authorization   string          `json:"authorization"`
	TransactionDate string          `json:"transaction_date"`
	Amount          decimal.Decimal `json:"amount"`
	RawAmount       string          `json:"raw_amount"`
	CurrencyCode    string          `json:"currency_code"`
	Currency        string          `json:"currency"`
	Reason          string          `json:"reason"`
}

// RejectSummary aggregates rejects of one subsidiary
type RejectSummary struct {
	Subsidiary   string          `json:"subsidiary"`
	RejectCount  int64           `json:"reject_count"`
	RejectAmount decimal.Decimal `json:"reject_amount"`
}

// SettlementReport is the parsed content of a network settlement report
type SettlementReport struct {
	RunDate      time.Time
	BusinessDate time.Time
	TotalCount   int64
	Rejects      []RejectRecord
	Summary      []RejectSummary
}

// SubsidiariesWithRejects returns the set of subsidiaries present in a reject summary
func SubsidiariesWithRejects(summary []RejectSummary) map[string]RejectSummary {
	set := make(map[string]RejectSummary, len(summary))
	for _, s := range summary {
		set[s.Subsidiary] = s
	}
	return set
}
