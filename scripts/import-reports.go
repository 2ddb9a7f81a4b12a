//go:build ignore

// Import a labeled CSV export into a SQLite reports database readable by
// corpus.SQLiteSource.
// Usage: go run ./scripts/import-reports.go -in testdata/issues.csv -out testdata/reports.db
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"

	_ "modernc.org/sqlite"

	"github.com/Veer-004/go-triage/corpus"
)

const schema = `
CREATE TABLE IF NOT EXISTS reports (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	description TEXT NOT NULL,
	category    TEXT NOT NULL,
	status      TEXT NOT NULL DEFAULT 'Pending'
);
CREATE INDEX IF NOT EXISTS idx_reports_category ON reports(category);
`

func main() {
	in := flag.String("in", "testdata/issues.csv", "Labeled CSV export")
	out := flag.String("out", "testdata/reports.db", "SQLite database to create or append to")
	flag.Parse()

	ctx := context.Background()

	examples, err := corpus.CSVSource{Path: *in}.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", *in, err)
		os.Exit(1)
	}

	n, err := importReports(ctx, *out, examples)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", *out, err)
		os.Exit(1)
	}

	fmt.Printf("Imported %d reports into %s\n", n, *out)
}

func importReports(ctx context.Context, path string, examples []corpus.Example) (int, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return 0, fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return 0, fmt.Errorf("creating schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO reports (description, category) VALUES (?, ?)")
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, ex := range examples {
		if _, err := stmt.ExecContext(ctx, ex.Text, ex.Category); err != nil {
			return 0, fmt.Errorf("inserting report: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing: %w", err)
	}
	return len(examples), nil
}
