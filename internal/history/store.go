// Package history records analysis results in a SQLite database.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/leapstack-labs/minilang/pkg/analyzer"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// DefaultLimit is the number of records List returns when no limit is given.
const DefaultLimit = 20

// timeLayout sorts lexically in chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Sources of recorded analyses.
const (
	SourceHTTP = "http"
	SourceREPL = "repl"
)

// Record is one stored analysis.
type Record struct {
	ID               string    `json:"id" yaml:"id"`
	CreatedAt        time.Time `json:"created_at" yaml:"created_at"`
	Source           string    `json:"source" yaml:"source"`
	AutoCorrect      bool      `json:"auto_correct" yaml:"auto_correct"`
	Status           string    `json:"status" yaml:"status"`
	Input            string    `json:"input" yaml:"input"`
	CorrectedText    string    `json:"corrected_text" yaml:"corrected_text"`
	ParserError      string    `json:"parser_error,omitempty" yaml:"parser_error,omitempty"`
	StructuralErrors int       `json:"structural_errors" yaml:"structural_errors"`
}

// Store is a SQLite-backed history of analyses. Safe for concurrent use.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the database at path and migrates it.
// Use ":memory:" for a throwaway store.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("history path is empty")
	}

	dsn := path
	if path != ":memory:" {
		dsn = "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	// a single connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping history database: %w", err)
	}
	if err := Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewWithDB(db), nil
}

// NewWithDB wraps an already migrated connection.
func NewWithDB(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record stores a copy of res under a new id.
func (s *Store) Record(ctx context.Context, source string, res *analyzer.Result) (*Record, error) {
	if res == nil {
		return nil, errors.New("nil result")
	}

	rec := &Record{
		ID:               uuid.NewString(),
		CreatedAt:        s.now().UTC(),
		Source:           source,
		AutoCorrect:      res.AutoCorrect,
		Status:           string(res.Status),
		Input:            res.OriginalInput,
		CorrectedText:    res.CorrectedText,
		ParserError:      res.ParserError,
		StructuralErrors: len(res.StructuralErrors),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO analyses (id, created_at, source, auto_correct, status, input, corrected_text, parser_error, structural_errors)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.CreatedAt.Format(timeLayout), rec.Source, rec.AutoCorrect,
		rec.Status, rec.Input, rec.CorrectedText, rec.ParserError, rec.StructuralErrors,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to record analysis: %w", err)
	}
	return rec, nil
}

// List returns up to limit records, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, source, auto_correct, status, input, corrected_text, parser_error, structural_errors
		FROM analyses
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := []Record{}
	for rows.Next() {
		var (
			rec     Record
			created string
		)
		if err := rows.Scan(&rec.ID, &created, &rec.Source, &rec.AutoCorrect, &rec.Status,
			&rec.Input, &rec.CorrectedText, &rec.ParserError, &rec.StructuralErrors); err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		rec.CreatedAt, err = time.Parse(timeLayout, created)
		if err != nil {
			return nil, fmt.Errorf("invalid timestamp for analysis %s: %w", rec.ID, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	return records, nil
}
