package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL
// mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	if dsn == "" {
		dsn = "eventwire.sqlite3"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS parse_runs (
	id             TEXT PRIMARY KEY,
	created_at     DATETIME NOT NULL,
	input_id       TEXT,
	source_url     TEXT,
	text           TEXT NOT NULL,
	response_json  TEXT NOT NULL,
	schema_version TEXT NOT NULL,
	model_version  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS feedback (
	id            TEXT PRIMARY KEY,
	created_at    DATETIME NOT NULL,
	parse_run_id  TEXT REFERENCES parse_runs(id) ON DELETE SET NULL,
	input_id      TEXT,
	text          TEXT,
	expected_json TEXT NOT NULL,
	notes         TEXT
);

CREATE INDEX IF NOT EXISTS idx_parse_runs_input_id ON parse_runs(input_id);
CREATE INDEX IF NOT EXISTS idx_feedback_parse_run_id ON feedback(parse_run_id);
CREATE INDEX IF NOT EXISTS idx_feedback_created_at ON feedback(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveParseRun(ctx context.Context, run *ParseRun) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	run.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO parse_runs (id, created_at, input_id, source_url, text, response_json, schema_version, model_version)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt, nullable(run.InputID), nullable(run.SourceURL),
		run.Text, string(run.Response), run.SchemaVersion, run.ModelVersion,
	)
	return eris.Wrap(err, "sqlite: insert parse run")
}

func (s *SQLiteStore) GetParseRun(ctx context.Context, id string) (*ParseRun, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, input_id, source_url, text, response_json, schema_version, model_version
		 FROM parse_runs WHERE id = ?`, id)

	var (
		run                ParseRun
		inputID, sourceURL sql.NullString
		response           string
	)
	err := row.Scan(&run.ID, &run.CreatedAt, &inputID, &sourceURL, &run.Text,
		&response, &run.SchemaVersion, &run.ModelVersion)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get parse run %s", id)
	}
	run.InputID = inputID.String
	run.SourceURL = sourceURL.String
	run.Response = []byte(response)
	return &run, nil
}

func (s *SQLiteStore) SaveFeedback(ctx context.Context, fb *Feedback) error {
	if fb.ParseRunID != nil {
		run, err := s.GetParseRun(ctx, *fb.ParseRunID)
		if err != nil {
			return err
		}
		fb.Text = run.Text
	}

	fb.ID = uuid.New().String()
	fb.CreatedAt = time.Now().UTC()

	var parseRunID any
	if fb.ParseRunID != nil {
		parseRunID = *fb.ParseRunID
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO feedback (id, created_at, parse_run_id, input_id, text, expected_json, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		fb.ID, fb.CreatedAt, parseRunID, nullable(fb.InputID), nullable(fb.Text),
		string(fb.Expected), nullable(fb.Notes),
	)
	return eris.Wrap(err, "sqlite: insert feedback")
}

func (s *SQLiteStore) ListFeedbackCases(ctx context.Context) ([]FeedbackCase, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, text, expected_json FROM feedback ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list feedback")
	}
	defer rows.Close()

	var cases []FeedbackCase
	for rows.Next() {
		var (
			id       string
			text     sql.NullString
			expected string
		)
		if err := rows.Scan(&id, &text, &expected); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan feedback")
		}
		if !text.Valid || text.String == "" {
			// Cases without text cannot feed the eval harness.
			continue
		}
		cases = append(cases, FeedbackCase{
			ID:       "feedback-" + id,
			Text:     text.String,
			Expected: []byte(expected),
		})
	}
	return cases, eris.Wrap(rows.Err(), "sqlite: iterate feedback")
}

// nullable maps "" to NULL so empty optional columns stay queryable as such.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
