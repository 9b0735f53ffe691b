package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

func scanEntry(scanner interface{ Scan(dest ...any) error }) (*Entry, error) {
	var (
		entry       Entry
		mtimeRaw    string
		categories  string
		container   sql.NullString
		status      string
		warnings    int
		outputsJSON sql.NullString
		errorMsg    sql.NullString
		exitCode    sql.NullInt64
		startedRaw  string
		finishedRaw string
	)
	if err := scanner.Scan(
		&entry.ID,
		&entry.RunID,
		&entry.Source.Path,
		&entry.Source.Size,
		&mtimeRaw,
		&categories,
		&container,
		&status,
		&warnings,
		&outputsJSON,
		&errorMsg,
		&exitCode,
		&startedRaw,
		&finishedRaw,
	); err != nil {
		return nil, err
	}

	entry.Source.ModTime = parseTime(mtimeRaw)
	entry.Categories = splitCategories(categories)
	entry.Container = container.String
	entry.Status = Status(status)
	entry.Warnings = warnings != 0
	entry.ErrorMessage = errorMsg.String
	entry.ExitCode = int(exitCode.Int64)
	entry.StartedAt = parseTime(startedRaw)
	entry.FinishedAt = parseTime(finishedRaw)
	if outputsJSON.Valid && outputsJSON.String != "" {
		if err := json.Unmarshal([]byte(outputsJSON.String), &entry.Outputs); err != nil {
			return nil, fmt.Errorf("decode outputs: %w", err)
		}
	}
	return &entry, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableInt(value int) any {
	if value == 0 {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
