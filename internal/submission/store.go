// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package submission

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/citation-engine/pkg/types"
)

const dbFile = "predictions.db"

// Store persists prediction records in a SQLite database, so repeated runs
// over the same corpus accumulate without duplication.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the predictions database at
// outputDir/predictions.db, creating the schema if it does not exist.
func NewStore(cfg types.SubmissionConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	dbPath := filepath.Join(cfg.OutputDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS predictions (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			article_id TEXT NOT NULL,
			dataset_id TEXT NOT NULL,
			type TEXT NOT NULL,
			UNIQUE(article_id, dataset_id, type)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_predictions_article ON predictions(article_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Put inserts records in one transaction, silently skipping triples already
// present. Returns the number of rows actually inserted.
func (s *Store) Put(ctx context.Context, records []types.Record) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO predictions (article_id, dataset_id, type) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, r := range records {
		res, err := stmt.ExecContext(ctx, r.ArticleID, r.DatasetID, r.Type)
		if err != nil {
			return inserted, fmt.Errorf("inserting record for %s: %w", r.ArticleID, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}
	if err := tx.Commit(); err != nil {
		return inserted, fmt.Errorf("committing: %w", err)
	}
	return inserted, nil
}

// List returns every stored prediction in submission order, with row IDs
// assigned sequentially from zero.
func (s *Store) List(ctx context.Context) ([]types.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT article_id, dataset_id, type FROM predictions
		 ORDER BY article_id, dataset_id, type`)
	if err != nil {
		return nil, fmt.Errorf("querying predictions: %w", err)
	}
	defer rows.Close()

	var out []types.Record
	for rows.Next() {
		var r types.Record
		if err := rows.Scan(&r.ArticleID, &r.DatasetID, &r.Type); err != nil {
			return nil, fmt.Errorf("scanning prediction: %w", err)
		}
		r.RowID = len(out)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating predictions: %w", err)
	}
	return out, nil
}
