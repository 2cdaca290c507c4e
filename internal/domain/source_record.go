package domain

import (
	"github.com/shopspring/decimal"
)

// TransactionType represents the type of transaction
type TransactionType string

// Transaction types
const (
	Purchase TransactionType = "ACHAT"
	Refund   TransactionType = "REMBOURSEMENT"
)

// SourceKind identifies which internal extract a record came from
type SourceKind string

// Internal transaction sources
const (
	SourcePOS     SourceKind = "POS"
	SourceManual  SourceKind = "SAIS_MANU"
	SourceGateway SourceKind = "CYBERSOURCE"
)

// FileTag returns the tag the source carries in its extract file name
func (k SourceKind) FileTag() string {
	return string(k)
}

// SourceRecord is one normalized row of an internal extract
type SourceRecord struct {
	Source          SourceKind
	Subsidiary      string
	Network         string
	Currency        string
	TransactionType TransactionType
	ProcessingDate  string // as written in the extract, empty when the source has no date column
	Count           int64
	Amount          decimal.Decimal
}
