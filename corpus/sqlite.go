package corpus

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strings"

	_ "modernc.org/sqlite"
)

// DefaultQuery selects the labeled rows of the reports table.
const DefaultQuery = "SELECT description, category FROM reports"

// SQLiteSource reads examples from a SQLite database. Query must return
// two text columns, complaint text first.
type SQLiteSource struct {
	Path      string
	Query     string       // default DefaultQuery
	StripHTML bool         // run text through StripMarkup
	Logger    *slog.Logger // default slog.Default()
}

// Load implements Source. The database is closed before Load returns.
func (s SQLiteSource) Load(ctx context.Context) ([]Example, error) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	query := s.Query
	if query == "" {
		query = DefaultQuery
	}

	// sql.Open would silently create an empty database.
	if _, err := os.Stat(s.Path); err != nil {
		return nil, fmt.Errorf("opening corpus: %w", err)
	}

	db, err := sql.Open("sqlite", s.Path)
	if err != nil {
		return nil, fmt.Errorf("opening corpus: %w", err)
	}
	defer func() { _ = db.Close() }()

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying corpus: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var examples []Example
	var skipped int
	for row := 1; rows.Next(); row++ {
		var text, category sql.NullString
		if err := rows.Scan(&text, &category); err != nil {
			return nil, fmt.Errorf("scanning row %d: %w", row, err)
		}
		if text.Valid && s.StripHTML {
			text.String = StripMarkup(text.String)
		}
		if !text.Valid || !category.Valid || !valid(text.String, category.String) {
			logger.Warn("skipping row with missing fields", "path", s.Path, "row", row)
			skipped++
			continue
		}
		examples = append(examples, Example{
			Text:     text.String,
			Category: strings.TrimSpace(category.String),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading corpus: %w", err)
	}

	logger.Debug("loaded corpus", "path", s.Path, "examples", len(examples), "skipped", skipped)

	if len(examples) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoExamples, s.Path)
	}
	return examples, nil
}
