// Package store persists aggregate summaries to SQLite so they can be queried
// across studies.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/modspec/specgain/internal/models"
)

// Store wraps SQLite access for study summaries.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close() //nolint:errcheck
		return nil, fmt.Errorf("migrating %s: %w", path, err)
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS specialization_summary (
            study TEXT NOT NULL,
            family TEXT NOT NULL,
            model_role TEXT NOT NULL,
            routing_mode TEXT NOT NULL,
            n INTEGER NOT NULL,
            accuracy REAL NOT NULL,
            PRIMARY KEY (study, family, model_role, routing_mode)
        );`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// ReplaceSummary replaces every stored row of study with summary in one
// transaction, so re-exporting the same run leaves the table unchanged.
func (s *Store) ReplaceSummary(ctx context.Context, study string, summary models.Summary) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM specialization_summary WHERE study = ?`, study); err != nil {
		return fmt.Errorf("clearing study %q: %w", study, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO specialization_summary(study, family, model_role, routing_mode, n, accuracy)
        VALUES(?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close() //nolint:errcheck

	for _, row := range summary {
		if _, err := stmt.ExecContext(ctx, study, row.Family, row.ModelRole, row.RoutingMode, row.N, row.Accuracy); err != nil {
			return fmt.Errorf("inserting %s/%s/%s: %w", row.Family, row.ModelRole, row.RoutingMode, err)
		}
	}
	return tx.Commit()
}

// Summary returns the stored rows of study sorted by family, role and routing mode.
func (s *Store) Summary(ctx context.Context, study string) (models.Summary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT family, model_role, routing_mode, n, accuracy
        FROM specialization_summary WHERE study = ?
        ORDER BY family, model_role, routing_mode`, study)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var out models.Summary
	for rows.Next() {
		var r models.AggregateRow
		if err := rows.Scan(&r.Family, &r.ModelRole, &r.RoutingMode, &r.N, &r.Accuracy); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Studies lists the studies that have stored rows.
func (s *Store) Studies(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT study FROM specialization_summary ORDER BY study`)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var out []string
	for rows.Next() {
		var study string
		if err := rows.Scan(&study); err != nil {
			return nil, err
		}
		out = append(out, study)
	}
	return out, rows.Err()
}
