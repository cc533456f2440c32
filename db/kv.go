// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/daily-habits/models"
)

// Storage keys for the two persisted blobs
const (
	HabitsKey = "dailyHabits_habits_v1"
	LogKey    = "dailyHabits_log_v1"
)

// KVStore persists the habit list and completion log as JSON blobs.
type KVStore struct {
	db *sql.DB
}

func NewKVStore(db *sql.DB) *KVStore {
	return &KVStore{db: db}
}

// Get returns the raw value for key. ok is false when the key is absent.
func (s *KVStore) Get(ctx context.Context, key string) (value string, ok bool, err error) {
	err = s.db.QueryRowContext(ctx, `
		SELECT value FROM kv_store WHERE key = $1
	`, key).Scan(&value)

	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, true, nil
}

// Set writes a single key.
func (s *KVStore) Set(ctx context.Context, key, value string) error {
	return setValue(ctx, s.db, key, value)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func setValue(ctx context.Context, ex execer, key, value string) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Load reads the full state. Missing keys yield an empty list and log.
func (s *KVStore) Load(ctx context.Context) (models.Backup, error) {
	state := models.Backup{
		Habits:        []models.Habit{},
		CompletionLog: models.CompletionLog{},
	}

	raw, ok, err := s.Get(ctx, HabitsKey)
	if err != nil {
		return models.Backup{}, err
	}
	if ok {
		if err := json.Unmarshal([]byte(raw), &state.Habits); err != nil {
			return models.Backup{}, fmt.Errorf("failed to decode %s: %w", HabitsKey, err)
		}
	}

	raw, ok, err = s.Get(ctx, LogKey)
	if err != nil {
		return models.Backup{}, err
	}
	if ok {
		if err := json.Unmarshal([]byte(raw), &state.CompletionLog); err != nil {
			return models.Backup{}, fmt.Errorf("failed to decode %s: %w", LogKey, err)
		}
	}

	// "null" decodes to nil
	if state.Habits == nil {
		state.Habits = []models.Habit{}
	}
	if state.CompletionLog == nil {
		state.CompletionLog = models.CompletionLog{}
	}

	return state, nil
}

// Save writes both keys in one transaction.
func (s *KVStore) Save(ctx context.Context, state models.Backup) error {
	habits := state.Habits
	if habits == nil {
		habits = []models.Habit{}
	}
	log := state.CompletionLog
	if log == nil {
		log = models.CompletionLog{}
	}

	habitsJSON, err := json.Marshal(habits)
	if err != nil {
		return fmt.Errorf("failed to encode habits: %w", err)
	}
	logJSON, err := json.Marshal(log)
	if err != nil {
		return fmt.Errorf("failed to encode completion log: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := setValue(ctx, tx, HabitsKey, string(habitsJSON)); err != nil {
		return err
	}
	if err := setValue(ctx, tx, LogKey, string(logJSON)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit state: %w", err)
	}
	return nil
}
