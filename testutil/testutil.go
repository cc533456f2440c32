// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/danielhkuo/daily-habits/cliparse"
	"github.com/danielhkuo/daily-habits/db"
	"github.com/danielhkuo/daily-habits/models"
)

// SetupTestDB creates a fresh sqlite database file with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.TypeSQLite, filepath.Join(t.TempDir(), "habits_test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          3318,
		DatabaseURL:   ":memory:",
		DatabaseType:  db.TypeSQLite,
		Notifications: true,
		TickInterval:  time.Second,
		LogLevel:      "info",
	}
}

// FixedClock returns a clock reading t until Set is called
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{now: t}
}

func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

// ErrSaveFailed is returned by MemPersister after SetFailSaves(true)
var ErrSaveFailed = errors.New("save failed")

// MemPersister keeps persisted state in memory and counts saves
type MemPersister struct {
	mu        sync.Mutex
	state     models.Backup
	saves     int
	failSaves bool
}

func (p *MemPersister) Load(ctx context.Context) (models.Backup, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return cloneBackup(p.state), nil
}

func (p *MemPersister) Save(ctx context.Context, state models.Backup) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failSaves {
		return ErrSaveFailed
	}
	p.state = cloneBackup(state)
	p.saves++
	return nil
}

// Persisted returns a copy of the last saved state
func (p *MemPersister) Persisted() models.Backup {
	p.mu.Lock()
	defer p.mu.Unlock()
	return cloneBackup(p.state)
}

func (p *MemPersister) SaveCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.saves
}

func (p *MemPersister) SetFailSaves(fail bool) {
	p.mu.Lock()
	p.failSaves = fail
	p.mu.Unlock()
}

func cloneBackup(b models.Backup) models.Backup {
	return models.Backup{
		Habits:        append([]models.Habit{}, b.Habits...),
		CompletionLog: b.CompletionLog.Clone(),
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
