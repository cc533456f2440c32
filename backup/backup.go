// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package backup serializes the full habit state to a JSON document and
// validates documents supplied for import.
package backup

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/daily-habits/metrics"
	"github.com/danielhkuo/daily-habits/models"
)

var (
	ErrMalformed    = errors.New("backup file could not be parsed")
	ErrInvalidShape = errors.New("backup file has an invalid format")
)

// Filename is the export file name for the given day.
func Filename(now time.Time) string {
	return fmt.Sprintf("HabitTracker_Backup_%s.json", now.Format("2006-01-02"))
}

// Export renders the snapshot as an indented JSON document.
func Export(snapshot models.Backup, now time.Time) (filename string, data []byte, err error) {
	if snapshot.Habits == nil {
		snapshot.Habits = []models.Habit{}
	}
	if snapshot.CompletionLog == nil {
		snapshot.CompletionLog = models.CompletionLog{}
	}

	data, err = json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", nil, fmt.Errorf("failed to encode backup: %w", err)
	}

	filename = Filename(now)
	metrics.RecordBackupSize("export", len(data))
	slog.Info("backup exported", "file", filename, "habits", len(snapshot.Habits), "size", humanize.Bytes(uint64(len(data))))
	return filename, data, nil
}

// Parse decodes and validates an import document. habits must be an array
// and completionLog must be an object.
func Parse(data []byte) (models.Backup, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return models.Backup{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	rawHabits, ok := doc["habits"]
	if !ok || !isKind(rawHabits, '[') {
		return models.Backup{}, fmt.Errorf("%w: habits must be a list", ErrInvalidShape)
	}
	rawLog, ok := doc["completionLog"]
	if !ok || !isKind(rawLog, '{') {
		return models.Backup{}, fmt.Errorf("%w: completionLog must be an object", ErrInvalidShape)
	}

	var out models.Backup
	if err := json.Unmarshal(rawHabits, &out.Habits); err != nil {
		return models.Backup{}, fmt.Errorf("%w: habits: %v", ErrInvalidShape, err)
	}
	if err := json.Unmarshal(rawLog, &out.CompletionLog); err != nil {
		return models.Backup{}, fmt.Errorf("%w: completionLog: %v", ErrInvalidShape, err)
	}

	metrics.RecordBackupSize("import", len(data))
	slog.Info("backup parsed", "habits", len(out.Habits), "size", humanize.Bytes(uint64(len(data))))
	return out, nil
}

func isKind(raw json.RawMessage, open byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == open
}
