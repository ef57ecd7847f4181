package storage

import (
	"database/sql"
	"fmt"
	"path/filepath"

	_ "modernc.org/sqlite"
)

type DB struct {
	conn *sql.DB
}

// Open opens the database and initializes the schema
func Open(configDir string) (*DB, error) {
	dbPath := filepath.Join(configDir, "tlumok.db")

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// initSchema creates the database schema
func (db *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS passes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,

		source_language TEXT NOT NULL,
		target_language TEXT NOT NULL,

		source_text TEXT NOT NULL,
		translated_text TEXT NOT NULL,
		character_count INTEGER NOT NULL,
		chunk_count INTEGER NOT NULL,

		duration_ms INTEGER NOT NULL,
		from_dictionary BOOLEAN NOT NULL,

		success BOOLEAN NOT NULL,
		error_message TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_passes_timestamp ON passes(timestamp);
	CREATE INDEX IF NOT EXISTS idx_passes_success ON passes(success);

	CREATE TABLE IF NOT EXISTS dictionary (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,

		source_language TEXT NOT NULL,
		target_language TEXT NOT NULL,
		original_text TEXT NOT NULL,
		translated_text TEXT NOT NULL,

		UNIQUE(source_language, target_language, original_text, translated_text)
	);

	CREATE INDEX IF NOT EXISTS idx_dictionary_lookup
		ON dictionary(source_language, target_language, original_text);
	`

	_, err := db.conn.Exec(schema)
	return err
}
