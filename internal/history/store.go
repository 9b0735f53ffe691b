package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"mkvsplit/internal/config"
)

// ErrDisabled is returned by OpenFromConfig when the ledger is turned off.
var ErrDisabled = errors.New("history disabled")

// Store manages the extraction ledger backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// OpenFromConfig opens the ledger configured in cfg.
func OpenFromConfig(cfg *config.Config) (*Store, error) {
	if cfg == nil || !cfg.History.Enabled {
		return nil, ErrDisabled
	}
	return Open(cfg.History.Path)
}

// Open initializes or connects to the ledger database at path.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("history path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

const entryColumns = "id, run_id, source_path, source_size, source_mtime, categories, container, status, warnings, outputs_json, error_message, exit_code, started_at, finished_at"

// Record inserts an entry and returns it with its assigned ID.
func (s *Store) Record(ctx context.Context, entry Entry) (Entry, error) {
	if strings.TrimSpace(entry.RunID) == "" {
		return Entry{}, errors.New("record history: run id required")
	}
	if strings.TrimSpace(entry.Source.Path) == "" {
		return Entry{}, errors.New("record history: source path required")
	}
	now := time.Now().UTC()
	if entry.StartedAt.IsZero() {
		entry.StartedAt = now
	}
	if entry.FinishedAt.IsZero() {
		entry.FinishedAt = now
	}
	outputs, err := json.Marshal(entry.Outputs)
	if err != nil {
		return Entry{}, fmt.Errorf("marshal outputs: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO extractions (
            run_id, source_path, source_size, source_mtime, categories, container,
            status, warnings, outputs_json, error_message, exit_code, started_at, finished_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.RunID,
		entry.Source.Path,
		entry.Source.Size,
		formatTime(entry.Source.ModTime),
		categoryKey(entry.Categories),
		nullableString(entry.Container),
		string(entry.Status),
		boolToInt(entry.Warnings),
		string(outputs),
		nullableString(entry.ErrorMessage),
		nullableInt(entry.ExitCode),
		formatTime(entry.StartedAt),
		formatTime(entry.FinishedAt),
	)
	if err != nil {
		return Entry{}, fmt.Errorf("insert history entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Entry{}, fmt.Errorf("last insert id: %w", err)
	}
	entry.ID = id
	entry.Categories = splitCategories(categoryKey(entry.Categories))
	return entry, nil
}

// Lookup finds the latest successful extraction of the same source content
// with the same categories that wrote exactly outputs. ok is true only when
// such an entry exists and its outputs are all still on disk. When no entry
// wrote those outputs the newest matching entry is returned with ok false.
func (s *Store) Lookup(ctx context.Context, source Source, categories, outputs []string) (entry *Entry, ok bool, err error) {
	entries, err := s.query(ctx,
		`SELECT `+entryColumns+` FROM extractions
         WHERE source_path = ? AND source_size = ? AND source_mtime = ? AND categories = ? AND status = ?
         ORDER BY id DESC`,
		source.Path,
		source.Size,
		formatTime(source.ModTime),
		categoryKey(categories),
		string(StatusExtracted),
	)
	if err != nil {
		return nil, false, fmt.Errorf("lookup history: %w", err)
	}
	if len(entries) == 0 {
		return nil, false, nil
	}
	for i := range entries {
		if entries[i].Wrote(outputs) {
			return &entries[i], entries[i].OutputsPresent(), nil
		}
	}
	return &entries[0], false, nil
}

// Recent lists the newest entries first. A non-positive limit returns all.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM extractions ORDER BY id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return s.query(ctx, query, args...)
}

// ByRun lists a run's entries in processing order.
func (s *Store) ByRun(ctx context.Context, runID string) ([]Entry, error) {
	return s.query(ctx, `SELECT `+entryColumns+` FROM extractions WHERE run_id = ? ORDER BY id`, runID)
}

// Clear removes entries. With all unset only failed and skipped entries go.
func (s *Store) Clear(ctx context.Context, all bool) (int64, error) {
	query := `DELETE FROM extractions WHERE status IN (?, ?)`
	args := []any{string(StatusFailed), string(StatusSkipped)}
	if all {
		query = `DELETE FROM extractions`
		args = nil
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("clear history: %w", err)
	}
	return res.RowsAffected()
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return entries, nil
}
