// Package store persists parse runs and feedback. Persistence is a
// best-effort side channel: the pipeline never depends on it, and store
// failures are logged by callers, never propagated to a parse response.
package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/eventwire/internal/config"
)

// ErrNotFound is returned when a referenced row does not exist.
var ErrNotFound = eris.New("store: not found")

// ParseRun is one recorded parse call: the input text and the exact
// response served for it.
type ParseRun struct {
	ID            string          `json:"id"`
	CreatedAt     time.Time       `json:"created_at"`
	InputID       string          `json:"input_id,omitempty"`
	SourceURL     string          `json:"source_url,omitempty"`
	Text          string          `json:"text"`
	Response      json.RawMessage `json:"response"`
	SchemaVersion string          `json:"schema_version"`
	ModelVersion  string          `json:"model_version"`
}

// Feedback is a correction recorded against a parse run or a raw input id,
// kept for offline evaluation only.
type Feedback struct {
	ID         string          `json:"id"`
	CreatedAt  time.Time       `json:"created_at"`
	ParseRunID *string         `json:"parse_run_id,omitempty"`
	InputID    string          `json:"input_id,omitempty"`
	Text       string          `json:"text,omitempty"`
	Expected   json.RawMessage `json:"expected"`
	Notes      string          `json:"notes,omitempty"`
}

// FeedbackCase is the eval-harness shape of one feedback row.
type FeedbackCase struct {
	ID       string          `json:"id"`
	Text     string          `json:"text"`
	Expected json.RawMessage `json:"expected"`
}

// Store defines the persistence interface.
type Store interface {
	// SaveParseRun inserts the run, assigning ID (when empty) and
	// CreatedAt.
	SaveParseRun(ctx context.Context, run *ParseRun) error
	GetParseRun(ctx context.Context, id string) (*ParseRun, error)

	// SaveFeedback assigns ID and CreatedAt. When ParseRunID is set the
	// run's text is copied onto the feedback row; a missing run is
	// ErrNotFound.
	SaveFeedback(ctx context.Context, fb *Feedback) error

	// ListFeedbackCases returns eval-shaped rows in insertion order,
	// skipping feedback with no recoverable text.
	ListFeedbackCases(ctx context.Context) ([]FeedbackCase, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open creates the configured store backend. Driver "none" (or empty)
// disables persistence and returns nil.
func Open(ctx context.Context, cfg config.Store) (Store, error) {
	switch cfg.Driver {
	case "", "none":
		return nil, nil
	case "sqlite":
		return NewSQLite(cfg.DatabaseURL)
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}
