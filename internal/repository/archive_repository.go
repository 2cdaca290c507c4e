package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Hiba-rahimi/mastercard-reconciliation/internal/domain"
	"github.com/shopspring/decimal"
)

// SQLiteArchive implements the ArchiveRepository interface. Tables are append
// only, submitting the same run twice stores its rows twice.
type SQLiteArchive struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteArchive creates an archive over an initialized database
func NewSQLiteArchive(db *sql.DB) *SQLiteArchive {
	return &SQLiteArchive{db: db, now: time.Now}
}

func (a *SQLiteArchive) SaveResults(ctx context.Context, runID string, rows []domain.ReconciledRow) error {
	return a.bulkInsert(ctx, `INSERT INTO reconciled_results
		(run_id, subsidiary, network, type, date, currency, total_count, total_amount,
		 status, reject_count, reject_amount, covered_count, covered_amount, archived_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		len(rows), func(i int, archivedAt string) []any {
			r := rows[i]
			return []any{
				runID, r.Subsidiary, r.Network, string(r.Type), r.Date, r.Currency,
				r.TotalCount, r.TotalAmount.String(), string(r.Status),
				r.RejectCount, r.RejectAmount.String(), r.CoveredCount, r.CoveredAmount.String(),
				archivedAt,
			}
		})
}

func (a *SQLiteArchive) SaveRejectSummary(ctx context.Context, runID, businessDate string, summary []domain.RejectSummary) error {
	return a.bulkInsert(ctx, `INSERT INTO reject_summaries
		(run_id, business_date, subsidiary, reject_count, reject_amount, archived_at)
		VALUES (?,?,?,?,?,?)`,
		len(summary), func(i int, archivedAt string) []any {
			s := summary[i]
			return []any{runID, businessDate, s.Subsidiary, s.RejectCount, s.RejectAmount.String(), archivedAt}
		})
}

// SaveRejects stores rejects under the business date following their transaction date
func (a *SQLiteArchive) SaveRejects(ctx context.Context, runID string, rejects []domain.RejectRecord) error {
	return a.bulkInsert(ctx, `INSERT INTO rejected_transactions
		(run_id, business_date, subsidiary, network, arn, authorization, transaction_date,
		 amount, currency_code, currency, reason, archived_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		len(rejects), func(i int, archivedAt string) []any {
			r := rejects[i]
			return []any{
				runID, rejectBusinessDate(r.TransactionDate), r.Subsidiary, r.Network, r.ARN,
				r.Authorization, r.TransactionDate, r.Amount.String(), r.CurrencyCode, r.Currency,
				r.Reason, archivedAt,
			}
		})
}

func (a *SQLiteArchive) FindResultsByDate(ctx context.Context, date string) ([]domain.ReconciledRow, error) {
	return a.queryResults(ctx, "WHERE date = ?", date)
}

func (a *SQLiteArchive) FindResultsByStatus(ctx context.Context, status domain.MatchStatus) ([]domain.ReconciledRow, error) {
	return a.queryResults(ctx, "WHERE status = ?", string(status))
}

func (a *SQLiteArchive) CountByStatus(ctx context.Context) ([]domain.StatusCount, error) {
	rows, err := a.db.QueryContext(ctx,
		"SELECT status, COUNT(*) FROM reconciled_results GROUP BY status ORDER BY status",
	)
	if err != nil {
		return nil, fmt.Errorf("counting by status: %w", err)
	}
	defer rows.Close()

	var counts []domain.StatusCount
	for rows.Next() {
		var c domain.StatusCount
		var status string
		if err := rows.Scan(&status, &c.Count); err != nil {
			return nil, err
		}
		c.Status = domain.MatchStatus(status)
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (a *SQLiteArchive) CountByStatusAndSubsidiary(ctx context.Context) ([]domain.StatusCount, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT subsidiary, status, COUNT(*) FROM reconciled_results
		GROUP BY subsidiary, status ORDER BY subsidiary, status
	`)
	if err != nil {
		return nil, fmt.Errorf("counting by subsidiary and status: %w", err)
	}
	defer rows.Close()

	var counts []domain.StatusCount
	for rows.Next() {
		var c domain.StatusCount
		var status string
		if err := rows.Scan(&c.Subsidiary, &status, &c.Count); err != nil {
			return nil, err
		}
		c.Status = domain.MatchStatus(status)
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// CoveredAmountsBySubsidiary sums covered counts and amounts, optionally from a date on
func (a *SQLiteArchive) CoveredAmountsBySubsidiary(ctx context.Context, since *time.Time) ([]domain.SubsidiaryAmount, error) {
	return a.sumBySubsidiary(ctx, `
		SELECT subsidiary, COALESCE(SUM(covered_count),0), COALESCE(SUM(CAST(covered_amount AS REAL)),0)
		FROM reconciled_results`, "date", since)
}

// RejectsBySubsidiary sums archived rejects, optionally from a business date on
func (a *SQLiteArchive) RejectsBySubsidiary(ctx context.Context, since *time.Time) ([]domain.SubsidiaryAmount, error) {
	return a.sumBySubsidiary(ctx, `
		SELECT subsidiary, COUNT(*), COALESCE(SUM(CAST(amount AS REAL)),0)
		FROM rejected_transactions`, "business_date", since)
}

// --- helpers ---

func (a *SQLiteArchive) bulkInsert(ctx context.Context, query string, n int, args func(i int, archivedAt string) []any) error {
	if n == 0 {
		return nil
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	archivedAt := a.now().UTC().Format(time.RFC3339)
	for i := 0; i < n; i++ {
		if _, err := stmt.ExecContext(ctx, args(i, archivedAt)...); err != nil {
			return fmt.Errorf("insert %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (a *SQLiteArchive) queryResults(ctx context.Context, where string, args ...any) ([]domain.ReconciledRow, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT subsidiary, network, type, date, currency, total_count, total_amount,
		       status, reject_count, reject_amount, covered_count, covered_amount
		FROM reconciled_results `+where+` ORDER BY id`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying results: %w", err)
	}
	defer rows.Close()

	results := make([]domain.ReconciledRow, 0)
	for rows.Next() {
		var (
			r                                      domain.ReconciledRow
			txnType, status                        string
			totalAmount, rejectAmount, coveredAmnt string
		)
		err := rows.Scan(
			&r.Subsidiary, &r.Network, &txnType, &r.Date, &r.Currency,
			&r.TotalCount, &totalAmount, &status,
			&r.RejectCount, &rejectAmount, &r.CoveredCount, &coveredAmnt,
		)
		if err != nil {
			return nil, err
		}

		r.Type = domain.TransactionType(txnType)
		r.Status = domain.MatchStatus(status)
		r.TotalAmount, _ = decimal.NewFromString(totalAmount)
		r.RejectAmount, _ = decimal.NewFromString(rejectAmount)
		r.CoveredAmount, _ = decimal.NewFromString(coveredAmnt)

		results = append(results, r)
	}
	return results, rows.Err()
}

func (a *SQLiteArchive) sumBySubsidiary(ctx context.Context, query, dateCol string, since *time.Time) ([]domain.SubsidiaryAmount, error) {
	var args []any
	if since != nil {
		query += " WHERE " + dateCol + " >= ?"
		args = append(args, since.Format(domain.ISODate))
	}
	query += " GROUP BY subsidiary ORDER BY subsidiary"

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("summing by subsidiary: %w", err)
	}
	defer rows.Close()

	var sums []domain.SubsidiaryAmount
	for rows.Next() {
		var s domain.SubsidiaryAmount
		if err := rows.Scan(&s.Subsidiary, &s.Count, &s.Amount); err != nil {
			return nil, err
		}
		sums = append(sums, s)
	}
	return sums, rows.Err()
}

// rejectBusinessDate is the day after the transaction date, or the raw value when unparsable
func rejectBusinessDate(txnDate string) string {
	t, err := time.Parse(domain.ISODate, txnDate)
	if err != nil {
		return txnDate
	}
	return t.AddDate(0, 0, 1).Format(domain.ISODate)
}
