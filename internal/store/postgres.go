package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
)

// Pool is the subset of pgxpool.Pool the store uses. pgxmock satisfies it
// in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresFromPool wraps an existing pool; used by tests.
func NewPostgresFromPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS parse_runs (
	id             UUID PRIMARY KEY,
	created_at     TIMESTAMPTZ NOT NULL,
	input_id       TEXT,
	source_url     TEXT,
	text           TEXT NOT NULL,
	response_json  JSONB NOT NULL,
	schema_version TEXT NOT NULL,
	model_version  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS feedback (
	id            UUID PRIMARY KEY,
	created_at    TIMESTAMPTZ NOT NULL,
	parse_run_id  UUID REFERENCES parse_runs(id) ON DELETE SET NULL,
	input_id      TEXT,
	text          TEXT,
	expected_json JSONB NOT NULL,
	notes         TEXT
);

CREATE INDEX IF NOT EXISTS idx_parse_runs_input_id ON parse_runs(input_id);
CREATE INDEX IF NOT EXISTS idx_feedback_parse_run_id ON feedback(parse_run_id);
CREATE INDEX IF NOT EXISTS idx_feedback_created_at ON feedback(created_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) SaveParseRun(ctx context.Context, run *ParseRun) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	run.CreatedAt = time.Now().UTC()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO parse_runs (id, created_at, input_id, source_url, text, response_json, schema_version, model_version)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		run.ID, run.CreatedAt, nullable(run.InputID), nullable(run.SourceURL),
		run.Text, string(run.Response), run.SchemaVersion, run.ModelVersion,
	)
	return eris.Wrap(err, "postgres: insert parse run")
}

func (s *PostgresStore) GetParseRun(ctx context.Context, id string) (*ParseRun, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, created_at, input_id, source_url, text, response_json, schema_version, model_version
		 FROM parse_runs WHERE id = $1`, id)

	var (
		run                ParseRun
		inputID, sourceURL *string
		response           string
	)
	err := row.Scan(&run.ID, &run.CreatedAt, &inputID, &sourceURL, &run.Text,
		&response, &run.SchemaVersion, &run.ModelVersion)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get parse run %s", id)
	}
	if inputID != nil {
		run.InputID = *inputID
	}
	if sourceURL != nil {
		run.SourceURL = *sourceURL
	}
	run.Response = []byte(response)
	return &run, nil
}

func (s *PostgresStore) SaveFeedback(ctx context.Context, fb *Feedback) error {
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
	_, err := s.pool.Exec(ctx,
		`INSERT INTO feedback (id, created_at, parse_run_id, input_id, text, expected_json, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		fb.ID, fb.CreatedAt, parseRunID, nullable(fb.InputID), nullable(fb.Text),
		string(fb.Expected), nullable(fb.Notes),
	)
	return eris.Wrap(err, "postgres: insert feedback")
}

func (s *PostgresStore) ListFeedbackCases(ctx context.Context) ([]FeedbackCase, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, text, expected_json FROM feedback ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list feedback")
	}
	defer rows.Close()

	var cases []FeedbackCase
	for rows.Next() {
		var (
			id       string
			text     *string
			expected string
		)
		if err := rows.Scan(&id, &text, &expected); err != nil {
			return nil, eris.Wrap(err, "postgres: scan feedback")
		}
		if text == nil || *text == "" {
			continue
		}
		cases = append(cases, FeedbackCase{
			ID:       "feedback-" + id,
			Text:     *text,
			Expected: []byte(expected),
		})
	}
	return cases, eris.Wrap(rows.Err(), "postgres: iterate feedback")
}
