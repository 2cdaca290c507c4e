package domain

import (
	"context"
	"time"
)

// SourceRepository defines the interface for reading one internal extract
type SourceRepository interface {
	// Load returns the normalized rows, or no rows when the extract was not supplied
	Load() ([]SourceRecord, error)

	// Kind returns which source the repository reads
	Kind() SourceKind
}

// RecycledRepository defines the interface for reading resubmitted rejects
type RecycledRepository interface {
	Load() ([]RecycledTransaction, error)
}

// LookupTable maps a code to a display name
type LookupTable interface {
	// Name returns the mapped name, or NotFound
	Name(code string) string
}

// StatusCount is the number of archived rows in a match status
type StatusCount struct {
	Subsidiary string      `json:"subsidiary,omitempty"`
	Status     MatchStatus `json:"status"`
	Count      int64       `json:"count"`
}

// SubsidiaryAmount is an archived amount total per subsidiary
type SubsidiaryAmount struct {
	Subsidiary string  `json:"subsidiary"`
	Count      int64   `json:"count"`
	Amount     float64 `json:"amount"`
}

// ArchiveRepository is the append-only store of reconciliation outputs
type ArchiveRepository interface {
	SaveResults(ctx context.Context, runID string, rows []ReconciledRow) error
	SaveRejectSummary(ctx context.Context, runID, businessDate string, summary []RejectSummary) error
	SaveRejects(ctx context.Context, runID string, rejects []RejectRecord) error

	// FindResultsByDate returns archived rows stamped with the given ISO date
	FindResultsByDate(ctx context.Context, date string) ([]ReconciledRow, error)

	// FindResultsByStatus returns archived rows in the given match status
	FindResultsByStatus(ctx context.Context, status MatchStatus) ([]ReconciledRow, error)

	CountByStatus(ctx context.Context) ([]StatusCount, error)
	CountByStatusAndSubsidiary(ctx context.Context) ([]StatusCount, error)
	CoveredAmountsBySubsidiary(ctx context.Context, since *time.Time) ([]SubsidiaryAmount, error)
	RejectsBySubsidiary(ctx context.Context, since *time.Time) ([]SubsidiaryAmount, error)
}
