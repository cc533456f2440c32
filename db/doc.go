// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles the database connection, schema creation, and the
key-value persistence adapter.

# Connecting

Open picks the driver from the database type and pings the connection:

	conn, err := db.Open(db.TypeSQLite, "habits.db")

sqlite (modernc.org/sqlite, pure Go) is the default; postgres uses lib/pq.

# Schema Creation

CreateSchema initializes the only table:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS.

  - kv_store: key, JSON value, updated_at

# Persisted Keys

	dailyHabits_habits_v1 → [{"id":..., "name":..., "duration":...}]
	dailyHabits_log_v1    → {"habit-...": ["2024/01/15", ...]}

KVStore.Save writes both keys in a single transaction so the habit list and
the completion log never drift apart. KVStore.Load treats missing keys as an
empty store.
*/
package db
