package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"ReviewScraper/internal/domain"
	"ReviewScraper/internal/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS records (
	source     TEXT NOT NULL,
	paper_id   TEXT NOT NULL,
	title      TEXT NOT NULL,
	scores     TEXT NOT NULL,
	decision   TEXT NOT NULL DEFAULT '',
	payload    TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	PRIMARY KEY (source, paper_id)
);
CREATE INDEX IF NOT EXISTS idx_records_updated ON records(updated_at DESC);
`

// StoredRecord is a record together with the time it was last saved.
type StoredRecord struct {
	Record    domain.Record
	UpdatedAt time.Time
}

// SQLiteRepository keeps the history of extracted records in a local SQLite file.
type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

var _ ports.RecordRepository = (*SQLiteRepository)(nil)

// Open creates the database file and its directory if needed and applies the schema.
func Open(path string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &SQLiteRepository{db: db, now: time.Now}, nil
}

// Close releases the database handle.
func (r *SQLiteRepository) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// AlreadyStored returns the subset of ids that exist for source.
func (r *SQLiteRepository) AlreadyStored(ctx context.Context, source string, ids []string) (map[string]bool, error) {
	if r.db == nil || len(ids) == 0 {
		return map[string]bool{}, nil
	}

	query, args, err := sq.Select("paper_id").
		From("records").
		Where(sq.Eq{"source": source, "paper_id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query stored: %w", err)
	}
	defer rows.Close()

	result := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		result[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return result, nil
}

// SaveRecord upserts the record keyed by its source and paper identifier.
func (r *SQLiteRepository) SaveRecord(ctx context.Context, rec domain.Record) error {
	if r.db == nil {
		return nil
	}

	scores, err := json.Marshal(rec.Scores)
	if err != nil {
		return fmt.Errorf("marshal scores: %w", err)
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	query, args, err := sq.Insert("records").
		Columns("source", "paper_id", "title", "scores", "decision", "payload", "updated_at").
		Values(rec.Source, rec.ID, rec.Title, string(scores), rec.Decision, string(payload), r.now().UTC().Format(time.RFC3339)).
		Suffix(`ON CONFLICT (source, paper_id) DO UPDATE
			SET title = excluded.title,
			    scores = excluded.scores,
			    decision = excluded.decision,
			    payload = excluded.payload,
			    updated_at = excluded.updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert record %s: %w", rec.ID, err)
	}
	return nil
}

// ListRecords returns stored records ordered by source and paper identifier.
// An empty source lists every site; limit <= 0 means no limit.
func (r *SQLiteRepository) ListRecords(ctx context.Context, source string, limit int) ([]StoredRecord, error) {
	builder := sq.Select("payload", "updated_at").
		From("records").
		OrderBy("source", "paper_id")
	if source != "" {
		builder = builder.Where(sq.Eq{"source": source})
	}
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var out []StoredRecord
	for rows.Next() {
		var payload, updated string
		if err := rows.Scan(&payload, &updated); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		var stored StoredRecord
		if err := json.Unmarshal([]byte(payload), &stored.Record); err != nil {
			return nil, fmt.Errorf("decode record: %w", err)
		}
		if stored.UpdatedAt, err = time.Parse(time.RFC3339, updated); err != nil {
			return nil, fmt.Errorf("parse updated_at: %w", err)
		}
		out = append(out, stored)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return out, nil
}
