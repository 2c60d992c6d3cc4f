package dataset

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ppiankov/regulqa/internal/model"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS requirements (
	id             TEXT PRIMARY KEY,
	seq            INTEGER NOT NULL,
	source         TEXT NOT NULL DEFAULT '',
	tier           TEXT NOT NULL DEFAULT '',
	sector         TEXT NOT NULL DEFAULT '',
	document       TEXT NOT NULL DEFAULT '',
	req_text       TEXT NOT NULL,
	ambig_presence TEXT NOT NULL DEFAULT '',
	ambig_type     TEXT NOT NULL DEFAULT '',
	reg_clause     TEXT NOT NULL DEFAULT '',
	severity       TEXT NOT NULL DEFAULT '',
	notes          TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS requirements_seq ON requirements(seq);
`

// Annotation columns keep a non-blank stored value over an incoming one.
// Provenance columns are immutable once a row exists.
const upsert = `
INSERT INTO requirements (id, seq, source, tier, sector, document, req_text,
	ambig_presence, ambig_type, reg_clause, severity, notes)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	ambig_presence = CASE WHEN trim(requirements.ambig_presence) = '' THEN excluded.ambig_presence ELSE requirements.ambig_presence END,
	ambig_type     = CASE WHEN trim(requirements.ambig_type) = '' THEN excluded.ambig_type ELSE requirements.ambig_type END,
	reg_clause     = CASE WHEN trim(requirements.reg_clause) = '' THEN excluded.reg_clause ELSE requirements.reg_clause END,
	severity       = CASE WHEN trim(requirements.severity) = '' THEN excluded.severity ELSE requirements.severity END,
	notes          = CASE WHEN trim(requirements.notes) = '' THEN excluded.notes ELSE requirements.notes END
`

// ErrTextConflict is returned when a stored id already holds a different
// req_text, e.g. after the pool was rebuilt from changed inputs
var ErrTextConflict = errors.New("id holds a different req_text")

// Store persists records in SQLite
type Store struct {
	db *sql.DB
}

// OpenStore opens (or creates) a record store. Use ":memory:" for tests.
func OpenStore(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if path == ":memory:" {
		// Every connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// Save upserts records in one transaction. Rows without an id, and rows whose
// id is stored with another req_text, fail the whole batch.
func (s *Store) Save(ctx context.Context, records []model.Record) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	lookup, err := tx.PrepareContext(ctx, `SELECT req_text FROM requirements WHERE id = ?`)
	if err != nil {
		return fmt.Errorf("prepare lookup: %w", err)
	}
	defer func() { _ = lookup.Close() }()

	stmt, err := tx.PrepareContext(ctx, upsert)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, rec := range records {
		if rec.ID == "" {
			return fmt.Errorf("record %d has no id", i)
		}

		var stored string
		switch err = lookup.QueryRowContext(ctx, rec.ID).Scan(&stored); {
		case errors.Is(err, sql.ErrNoRows):
			err = nil
		case err != nil:
			return fmt.Errorf("lookup %s: %w", rec.ID, err)
		case stored != rec.ReqText:
			return fmt.Errorf("%s: %w: stored %q, got %q", rec.ID, ErrTextConflict, stored, rec.ReqText)
		}

		_, err = stmt.ExecContext(ctx,
			rec.ID, i, rec.Source, string(rec.Tier), string(rec.Sector), rec.Document, rec.ReqText,
			string(rec.AmbigPresence), rec.AmbigType, rec.RegClause, string(rec.Severity), rec.Notes,
		)
		if err != nil {
			return fmt.Errorf("upsert %s: %w", rec.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Load returns all records in insertion order
func (s *Store) Load(ctx context.Context) ([]model.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, tier, sector, document, req_text,
			ambig_presence, ambig_type, reg_clause, severity, notes
		FROM requirements ORDER BY seq, id`)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.Record
	for rows.Next() {
		var rec model.Record
		var tier, sector, presence, severity string
		if err := rows.Scan(&rec.ID, &rec.Source, &tier, &sector, &rec.Document, &rec.ReqText,
			&presence, &rec.AmbigType, &rec.RegClause, &severity, &rec.Notes); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec.Tier = model.Tier(tier)
		rec.Sector = model.Sector(sector)
		rec.AmbigPresence = model.Presence(presence)
		rec.Severity = model.Severity(severity)
		records = append(records, rec)
	}
	return records, rows.Err()
}
