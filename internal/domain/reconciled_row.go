package domain

import "github.com/shopspring/decimal"

// MatchStatus is the reconciliation state of a subsidiary row
type MatchStatus string

// Match statuses, stored as the archive expects them
const (
	StatusMatched    MatchStatus = "OK"
	StatusMismatched MatchStatus = "NOT OK"
)

// UnifiedTotal is one merged row keyed by subsidiary, network, currency, type and date
type UnifiedTotal struct {
	Subsidiary      string          `json:"subsidiary"`
	Network         string          `json:"network"`
	Currency        string          `json:"currency"`
	TransactionType TransactionType `json:"transaction_type"`
	ProcessingDate  string          `json:"processing_date"`
	Count           int64           `json:"count"`
	Amount          decimal.Decimal `json:"amount"`
}

// ReconciledRow is the outcome of the reconciliation for one unified row
type ReconciledRow struct {
	Subsidiary    string          `json:"subsidiary"`
	Network       string          `json:"network"`
	Type          TransactionType `json:"type"`
	Date          string          `json:"date"`
	Currency      string          `json:"currency"`
	TotalCount    int64           `json:"total_count"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Status        MatchStatus     `json:"status"`
	RejectCount   int64           `json:"reject_count"`
	RejectAmount  decimal.Decimal `json:"reject_amount"`
	CoveredCount  int64           `json:"covered_count"`
	CoveredAmount decimal.Decimal `json:"covered_amount"`
}

// RecycledTransaction is a previously rejected transaction submitted again
type RecycledTransaction struct {
	Subsidiary       string          `json:"subsidiary"`
	Network          string          `json:"network"`
	ARN              string          `json:"arn"`
	Authorization    string          `json:"authorization"`
	TransactionDate  string          `json:"transaction_date"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	ReprocessingDate string          `json:"reprocessing_date"`
}
