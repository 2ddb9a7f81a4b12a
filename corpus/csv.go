package corpus

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Default column names of the complaint export.
const (
	DefaultTextColumn     = "description"
	DefaultCategoryColumn = "category"
)

// CSVSource reads examples from a CSV file with a header row.
type CSVSource struct {
	Path           string
	TextColumn     string       // default DefaultTextColumn
	CategoryColumn string       // default DefaultCategoryColumn
	StripHTML      bool         // run text through StripMarkup
	Logger         *slog.Logger // default slog.Default()
}

// Load implements Source.
func (s CSVSource) Load(ctx context.Context) ([]Example, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("opening corpus: %w", err)
	}
	defer func() { _ = f.Close() }()

	return s.read(ctx, f)
}

func (s CSVSource) read(ctx context.Context, r io.Reader) ([]Example, error) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	textCol := s.TextColumn
	if textCol == "" {
		textCol = DefaultTextColumn
	}
	catCol := s.CategoryColumn
	if catCol == "" {
		catCol = DefaultCategoryColumn
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %s is empty", ErrNoExamples, s.Path)
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}

	textIdx, catIdx := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")) {
		case textCol:
			textIdx = i
		case catCol:
			catIdx = i
		}
	}
	if textIdx < 0 || catIdx < 0 {
		return nil, fmt.Errorf("header %v lacks %q or %q column", header, textCol, catCol)
	}

	var examples []Example
	var skipped int
	for n := 1; ; n++ {
		if n%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				logger.Warn("skipping malformed row", "path", s.Path, "line", parseErr.Line, "error", parseErr.Err)
				skipped++
				continue
			}
			return nil, fmt.Errorf("reading corpus: %w", err)
		}

		if textIdx >= len(record) || catIdx >= len(record) {
			line, _ := cr.FieldPos(0)
			logger.Warn("skipping row with missing fields", "path", s.Path, "line", line)
			skipped++
			continue
		}
		text := record[textIdx]
		if s.StripHTML {
			text = StripMarkup(text)
		}
		if !valid(text, record[catIdx]) {
			line, _ := cr.FieldPos(0)
			logger.Warn("skipping row with missing fields", "path", s.Path, "line", line)
			skipped++
			continue
		}

		examples = append(examples, Example{
			Text:     text,
			Category: strings.TrimSpace(record[catIdx]),
		})
	}

	logger.Debug("loaded corpus", "path", s.Path, "examples", len(examples), "skipped", skipped)

	if len(examples) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoExamples, s.Path)
	}
	return examples, nil
}
