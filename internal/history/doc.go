// Package history persists a ledger of extraction attempts in SQLite.
//
// Every processed source file gets one row per run: the run's UUID, the
// source's path, size and modification time, the selected categories, the
// outcome and the files written. The extract command consults Lookup to skip
// sources whose outputs are already on disk, and `mkvsplit history` lists
// recent rows.
//
// The schema is versioned through a schema_version table. A database created
// by a different schema version is rejected with ErrSchemaMismatch; delete
// the file (or run `mkvsplit history clear --all`) to start over.
package history
