package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/minilang/pkg/analyzer"
)

func analyze(t *testing.T, code string, autoCorrect bool) *analyzer.Result {
	t.Helper()
	return analyzer.New(nil).Analyze(context.Background(), code, autoCorrect)
}

func TestOpenAndMigrate(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")

	store, err := Open(ctx, path)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	version, err := Version(store.db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	// reopening an existing database is a no-op migration
	require.NoError(t, store.Close())
	store, err = Open(ctx, path)
	require.NoError(t, err)
}

func TestOpenEmptyPath(t *testing.T) {
	_, err := Open(context.Background(), "")
	require.Error(t, err)
}

func TestRecordAndList(t *testing.T) {
	ctx := context.Background()
	store, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	tick := 0
	store.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	inputs := []struct {
		code        string
		autoCorrect bool
		source      string
	}{
		{"int x = 5;", false, SourceHTTP},
		{"pritn(\"hi", true, SourceREPL},
		{"print(x)", false, SourceHTTP},
	}
	for _, in := range inputs {
		rec, err := store.Record(ctx, in.source, analyze(t, in.code, in.autoCorrect))
		require.NoError(t, err)
		assert.NotEmpty(t, rec.ID)
	}

	records, err := store.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)

	newest := records[0]
	assert.Equal(t, "print(x)", newest.Input)
	assert.Equal(t, "error", newest.Status)
	assert.Equal(t, SourceHTTP, newest.Source)
	assert.NotEmpty(t, newest.ParserError)
	assert.Zero(t, newest.StructuralErrors)
	assert.Equal(t, base.Add(3*time.Second), newest.CreatedAt)

	second := records[1]
	assert.Equal(t, SourceREPL, second.Source)
	assert.True(t, second.AutoCorrect)
	assert.Equal(t, "print(\"hi\");", second.CorrectedText)
	assert.Equal(t, 2, second.StructuralErrors)

	all, err := store.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, "success", all[2].Status)
}

func TestRecordNilResult(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	_, err = NewWithDB(db).Record(context.Background(), SourceHTTP, nil)
	require.Error(t, err)
}

func TestStoreFailures(t *testing.T) {
	columns := []string{"id", "created_at", "source", "auto_correct", "status",
		"input", "corrected_text", "parser_error", "structural_errors"}

	tests := []struct {
		name   string
		setup  func(mock sqlmock.Sqlmock)
		run    func(s *Store) error
		errMsg string
	}{
		{
			name: "insert fails",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO analyses").WillReturnError(assert.AnError)
			},
			run: func(s *Store) error {
				_, err := s.Record(context.Background(), SourceHTTP, &analyzer.Result{Status: analyzer.StatusSuccess})
				return err
			},
			errMsg: "failed to record analysis",
		},
		{
			name: "query fails",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT (.+) FROM analyses").WillReturnError(assert.AnError)
			},
			run: func(s *Store) error {
				_, err := s.List(context.Background(), 5)
				return err
			},
			errMsg: "failed to list analyses",
		},
		{
			name: "bad timestamp",
			setup: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(columns).
					AddRow("abc", "yesterday", SourceHTTP, false, "success", "", "", "", 0)
				mock.ExpectQuery("SELECT (.+) FROM analyses").WithArgs(5).WillReturnRows(rows)
			},
			run: func(s *Store) error {
				_, err := s.List(context.Background(), 5)
				return err
			},
			errMsg: "invalid timestamp for analysis abc",
		},
		{
			name: "row error",
			setup: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(columns).
					AddRow("abc", "2026-01-02T03:04:05.000000000Z", SourceHTTP, false, "success", "", "", "", 0).
					RowError(0, assert.AnError)
				mock.ExpectQuery("SELECT (.+) FROM analyses").WillReturnRows(rows)
			},
			run: func(s *Store) error {
				_, err := s.List(context.Background(), 5)
				return err
			},
			errMsg: "failed to list analyses",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer func() { _ = db.Close() }()

			tt.setup(mock)
			err = tt.run(NewWithDB(db))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestListDefaultLimit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("SELECT (.+) FROM analyses").
		WithArgs(DefaultLimit).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	records, err := NewWithDB(db).List(context.Background(), -1)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NoError(t, mock.ExpectationsWereMet())
}
