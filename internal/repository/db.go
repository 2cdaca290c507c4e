package repository

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// InitDB opens (or creates) the archive database at the given path and ensures
// all required tables exist. Pass ":memory:" for an in-memory database.
func InitDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if dsn == ":memory:" {
		// every pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set wal mode: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return db, nil
}

func createTables(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS reconciled_results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			subsidiary TEXT NOT NULL,
			network TEXT NOT NULL,
			type TEXT NOT NULL,
			date TEXT NOT NULL,
			currency TEXT NOT NULL,
			total_count INTEGER NOT NULL,
			total_amount TEXT NOT NULL,
			status TEXT NOT NULL,
			reject_count INTEGER NOT NULL,
			reject_amount TEXT NOT NULL,
			covered_count INTEGER NOT NULL,
			covered_amount TEXT NOT NULL,
			archived_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reconciled_results_date ON reconciled_results(date)`,
		`CREATE INDEX IF NOT EXISTS idx_reconciled_results_status ON reconciled_results(status)`,
		`CREATE INDEX IF NOT EXISTS idx_reconciled_results_subsidiary ON reconciled_results(subsidiary)`,

		`CREATE TABLE IF NOT EXISTS reject_summaries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			business_date TEXT NOT NULL,
			subsidiary TEXT NOT NULL,
			reject_count INTEGER NOT NULL,
			reject_amount TEXT NOT NULL,
			archived_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reject_summaries_date ON reject_summaries(business_date)`,

		`CREATE TABLE IF NOT EXISTS rejected_transactions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			business_date TEXT NOT NULL,
			subsidiary TEXT NOT NULL,
			network TEXT NOT NULL,
			arn TEXT NOT NULL,
			authorization TEXT NOT NULL,
			transaction_date TEXT NOT NULL,
			amount TEXT NOT NULL,
			currency_code TEXT NOT NULL,
			currency TEXT NOT NULL,
			reason TEXT NOT NULL,
			archived_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_rejected_transactions_date ON rejected_transactions(business_date)`,
		`CREATE INDEX IF NOT EXISTS idx_rejected_transactions_subsidiary ON rejected_transactions(subsidiary)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}

	return nil
}
