package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is bumped whenever schema.sql changes shape.
const schemaVersion = 1

// ErrSchemaMismatch is returned when the ledger was written by a different
// schema version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// initSchema creates a fresh ledger or checks the version of an existing one
// inside a single transaction.
func (s *Store) initSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	version, found, err := readSchemaVersion(ctx, tx)
	if err != nil {
		return err
	}
	if found {
		if version != schemaVersion {
			return fmt.Errorf("%w: %s has version %d, mkvsplit expects %d (delete it to start a new ledger)",
				ErrSchemaMismatch, s.path, version, schemaVersion)
		}
		return nil
	}

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_version (version) VALUES (?)`, schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	return tx.Commit()
}

// readSchemaVersion reports the stored version; found is false for an
// empty database.
func readSchemaVersion(ctx context.Context, tx *sql.Tx) (version int, found bool, err error) {
	var name string
	err = tx.QueryRowContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'schema_version'`,
	).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("inspect schema: %w", err)
	}
	if err := tx.QueryRowContext(ctx, `SELECT MAX(version) FROM schema_version`).Scan(&version); err != nil {
		return 0, false, fmt.Errorf("read schema version: %w", err)
	}
	return version, true, nil
}
