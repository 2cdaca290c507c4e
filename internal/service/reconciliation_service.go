package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Hiba-rahimi/mastercard-reconciliation/internal/domain"
	"github.com/Hiba-rahimi/mastercard-reconciliation/internal/filter"
	"github.com/Hiba-rahimi/mastercard-reconciliation/internal/merge"
	"github.com/Hiba-rahimi/mastercard-reconciliation/internal/repository"
	"github.com/Hiba-rahimi/mastercard-reconciliation/internal/settlement"
	"github.com/google/uuid"
)

const (
	artifactReport         = "settlement report"
	artifactRecycled       = "recycled workbook"
	artifactRejects        = "rejected transactions"
	artifactClassification = "classification"
	artifactArchive        = "archive"
)

// SourceKinds lists the internal extracts in merge order
var SourceKinds = []domain.SourceKind{domain.SourcePOS, domain.SourceManual, domain.SourceGateway}

// SourceInput locates one internal extract
type SourceInput struct {
	Path string

	// FileName is the name the extract was delivered under, checked against the
	// naming convention. Defaults to the base name of Path.
	FileName string
}

func (s SourceInput) name() string {
	if s.FileName != "" {
		return s.FileName
	}
	return filepath.Base(s.Path)
}

// RunInput holds every file of one reconciliation run
type RunInput struct {
	ReportPath   string
	Sources      map[domain.SourceKind]SourceInput
	RecycledPath string

	// Cutoff selects the recycled transactions reprocessed that day; defaults to the business date
	Cutoff  time.Time
	Archive bool
}

// ReconciliationService orchestrates the reconciliation process
type ReconciliationService struct {
	parser            *settlement.Parser
	filter            *filter.Filter
	classifier        domain.Classifier
	repos             RepositoryFactory
	archive           domain.ArchiveRepository
	validateFileNames bool
}

// NewReconciliationService creates a new ReconciliationService. archive may be nil.
func NewReconciliationService(
	parser *settlement.Parser,
	f *filter.Filter,
	classifier domain.Classifier,
	repos RepositoryFactory,
	archive domain.ArchiveRepository,
	validateFileNames bool,
) *ReconciliationService {
	return &ReconciliationService{
		parser:            parser,
		filter:            f,
		classifier:        classifier,
		repos:             repos,
		archive:           archive,
		validateFileNames: validateFileNames,
	}
}

// Run performs one reconciliation. Problems with optional inputs are reported
// as warnings on the result; an unreadable report or a failed classification
// aborts the run with a *domain.RunError and nothing is archived.
func (s *ReconciliationService) Run(ctx context.Context, in RunInput) (*domain.ReconciliationResult, error) {
	runID := uuid.NewString()
	logger := slog.With("run_id", runID)

	raw, err := os.ReadFile(in.ReportPath)
	if err != nil {
		return nil, domain.NewRunError(artifactReport, "Cannot read the settlement report", err)
	}
	text := string(raw)

	runDate, businessDate, err := settlement.ExtractRunDate(text)
	if err != nil {
		return nil, domain.NewRunError(artifactReport, "Cannot find the run date in the settlement report", err)
	}
	logger.Info("Starting reconciliation",
		"run_date", runDate.Format(domain.ISODate),
		"business_date", businessDate.Format(domain.ISODate),
	)

	result := &domain.ReconciliationResult{
		RunID:        runID,
		RunDate:      runDate,
		BusinessDate: businessDate,
		ReportTotal:  settlement.ExtractTotalCount(text),
		SourceTotals: make(map[domain.SourceKind]int64, len(SourceKinds)),
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sources := make(map[domain.SourceKind][]domain.SourceRecord, len(SourceKinds))
	for _, kind := range SourceKinds {
		records := s.loadSource(kind, in.Sources[kind], businessDate, result)
		sources[kind] = records
		result.SourceTotals[kind] = filter.TotalCount(records)
	}

	pos, manual, gateway := sources[domain.SourcePOS], sources[domain.SourceManual], sources[domain.SourceGateway]

	var unified []domain.UnifiedTotal
	if recycled, ok := s.loadRecycled(in.RecycledPath, result); ok {
		cutoff := in.Cutoff
		if cutoff.IsZero() {
			cutoff = businessDate
		}
		result.Recycled, unified, result.UnifiedTotal = merge.MergeWithRecycled(recycled, pos, manual, gateway, cutoff)
		logger.Info("Recycled transactions applied", "count", len(result.Recycled), "cutoff", cutoff.Format(domain.ISODate))
	} else {
		unified, result.UnifiedTotal = merge.Merge(pos, manual, gateway)
	}

	rejects, err := s.parser.ExtractRejections(text)
	if err != nil {
		logger.Warn("Reject extraction failed", "error", err)
		result.Warnings = append(result.Warnings, domain.WarningFrom(artifactRejects, "Rejected transactions could not be read from the settlement report", err))
		rejects = []domain.RejectRecord{}
	}
	summary := settlement.CalculateRejectSummary(rejects)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, outcome, err := s.classifier.Reconcile(domain.ClassificationInput{
		UnifiedCount: result.UnifiedTotal,
		ReportCount:  result.ReportTotal,
		Rows:         unified,
		Summary:      summary,
		BusinessDate: businessDate.Format(domain.ISODate),
	})
	if err != nil {
		return nil, domain.NewRunError(artifactClassification, "Reconciliation could not classify the unified totals", err)
	}

	result.Rows = rows
	result.Outcome = outcome
	if outcome == domain.OutcomeDiscrepancy {
		result.Summary = summary
		result.Rejects = rejects
	}

	logger.Info("Reconciliation done",
		"outcome", outcome,
		"report_total", result.ReportTotal,
		"unified_total", result.UnifiedTotal,
		"warnings", len(result.Warnings),
	)

	if in.Archive {
		s.archiveResult(ctx, result)
	}

	return result, nil
}

// loadSource validates, reads and filters one extract. Any failure becomes a
// warning and the source contributes nothing.
func (s *ReconciliationService) loadSource(kind domain.SourceKind, src SourceInput, businessDate time.Time, result *domain.ReconciliationResult) []domain.SourceRecord {
	artifact := string(kind) + " extract"

	if src.Path == "" {
		slog.Debug("Source extract not supplied", "source", kind)
		return []domain.SourceRecord{}
	}

	if s.validateFileNames {
		if err := repository.ValidateSourceFileName(src.name(), kind, businessDate); err != nil {
			slog.Warn("Source extract rejected", "source", kind, "file", src.name(), "error", err)
			result.Warnings = append(result.Warnings, domain.WarningFrom(artifact,
				fmt.Sprintf("%s was skipped: its name must be TRANSACTION_%s_TRAITE_SG_%s_HHMMSS.CSV",
					src.name(), kind.FileTag(), settlement.FormatBusinessDate(businessDate)),
				err))
			return []domain.SourceRecord{}
		}
	}

	records, err := s.repos.Source(kind, src.Path).Load()
	if err != nil {
		slog.Warn("Source extract unreadable", "source", kind, "error", err)
		result.Warnings = append(result.Warnings, domain.WarningFrom(artifact,
			fmt.Sprintf("%s could not be read and was skipped", src.name()), err))
		return []domain.SourceRecord{}
	}

	switch kind {
	case domain.SourcePOS:
		return s.filter.POS(records)
	case domain.SourceManual:
		return s.filter.Manual(records)
	default:
		return s.filter.Gateway(records)
	}
}

// loadRecycled reads the recycled workbook; ok is false when recycled
// transactions take no part in this run
func (s *ReconciliationService) loadRecycled(path string, result *domain.ReconciliationResult) ([]domain.RecycledTransaction, bool) {
	if path == "" {
		return nil, false
	}

	recycled, err := s.repos.Recycled(path).Load()
	if err != nil {
		slog.Warn("Recycled workbook unreadable", "error", err)
		result.Warnings = append(result.Warnings, domain.WarningFrom(artifactRecycled,
			"Recycled transactions could not be read, reconciliation continues without them", err))
		return nil, false
	}
	return recycled, true
}

// archiveResult stores the result; failures are reported as warnings only
func (s *ReconciliationService) archiveResult(ctx context.Context, result *domain.ReconciliationResult) {
	if s.archive == nil {
		result.Warnings = append(result.Warnings, domain.WarningFrom(artifactArchive, "Archiving is not configured, results were not stored", nil))
		return
	}

	steps := []struct {
		what string
		fn   func() error
	}{
		{"reconciled results", func() error { return s.archive.SaveResults(ctx, result.RunID, result.Rows) }},
		{"reject summary", func() error {
			return s.archive.SaveRejectSummary(ctx, result.RunID, result.BusinessDate.Format(domain.ISODate), result.Summary)
		}},
		{"rejected transactions", func() error { return s.archive.SaveRejects(ctx, result.RunID, result.Rejects) }},
	}

	archived := true
	for _, step := range steps {
		if err := step.fn(); err != nil {
			archived = false
			slog.Error("Archiving failed", "run_id", result.RunID, "what", step.what, "error", err)
			result.Warnings = append(result.Warnings, domain.WarningFrom(artifactArchive,
				fmt.Sprintf("The %s could not be archived", step.what), err))
		}
	}
	result.Archived = archived
}
