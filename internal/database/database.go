package database

import (
	"database/sql"
	"fmt"
	"log"

	_ "modernc.org/sqlite"
)

// DB wraps the SQL database connection
type DB struct {
	*sql.DB
}

// New opens the SQLite database at the given path
func New(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows one writer at a time; a single connection avoids
	// SQLITE_BUSY between concurrent record updates.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("✅ SQLite database opened at %s", path)

	return &DB{db}, nil
}

// Initialize creates all required tables and runs schema migrations.
// Safe to call on every start.
func (db *DB) Initialize() error {
	log.Println("🔍 Checking database schema...")

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS plants (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			date_saved INTEGER NOT NULL,
			image_base64 TEXT,
			analysis_result TEXT NOT NULL DEFAULT '',
			personal_notes TEXT,
			soil_type TEXT,
			watering_interval INTEGER,
			last_watered INTEGER,
			journal TEXT NOT NULL DEFAULT '[]'
		)
	`); err != nil {
		return fmt.Errorf("failed to create plants table: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS reminders (
			id TEXT PRIMARY KEY,
			plant_name TEXT NOT NULL,
			action TEXT NOT NULL,
			due_in_hours REAL NOT NULL,
			created_at INTEGER NOT NULL,
			due_date INTEGER NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("failed to create reminders table: %w", err)
	}

	// Flat key-value table carried over from the first app generation.
	// Only read by the legacy garden migration.
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS legacy_store (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("failed to create legacy_store table: %w", err)
	}

	if err := db.runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("✅ Database initialized successfully")
	return nil
}

// runMigrations runs database migrations for schema updates
func (db *DB) runMigrations() error {
	// Migration: Add scientific_name column to plants table (if missing)
	if exists, err := db.columnExists("plants", "scientific_name"); err == nil && !exists {
		log.Println("📦 Running migration: Adding scientific_name to plants table")
		if _, err := db.Exec("ALTER TABLE plants ADD COLUMN scientific_name TEXT"); err != nil {
			return fmt.Errorf("failed to add scientific_name to plants: %w", err)
		}
		log.Println("✅ Migration completed: plants.scientific_name added")
	}

	return nil
}

// columnExists checks whether a column is present on a table
func (db *DB) columnExists(tableName, columnName string) (bool, error) {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", tableName))
	if err != nil {
		return false, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid        int
			name, typ  string
			notNull    int
			defaultVal sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &defaultVal, &pk); err != nil {
			return false, err
		}
		if name == columnName {
			return true, nil
		}
	}
	return false, rows.Err()
}
