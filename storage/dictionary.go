package storage

import (
	"database/sql"
	"errors"
	"fmt"
)

// Dictionary is the stored original -> translated lookup for one language
// pair. Multiple translations may accumulate for the same original; Lookup
// returns the most recent one.
type Dictionary struct {
	db     *DB
	source string
	target string
}

// Dictionary returns the dictionary bound to a language pair
func (db *DB) Dictionary(source, target string) *Dictionary {
	return &Dictionary{db: db, source: source, target: target}
}

// Lookup returns the most recently saved translation for original, with
// ok=false when the dictionary has no entry
func (d *Dictionary) Lookup(original string) (string, bool, error) {
	query := `
		SELECT translated_text FROM dictionary
		WHERE source_language = ? AND target_language = ? AND original_text = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`

	var translated string
	err := d.db.conn.QueryRow(query, d.source, d.target, original).Scan(&translated)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to look up dictionary entry: %w", err)
	}
	return translated, true, nil
}

// Entries returns every saved translation for original, newest first
func (d *Dictionary) Entries(original string) ([]string, error) {
	query := `
		SELECT translated_text FROM dictionary
		WHERE source_language = ? AND target_language = ? AND original_text = ?
		ORDER BY created_at DESC, id DESC
	`

	rows, err := d.db.conn.Query(query, d.source, d.target, original)
	if err != nil {
		return nil, fmt.Errorf("failed to query dictionary entries: %w", err)
	}
	defer rows.Close()

	var entries []string
	for rows.Next() {
		var translated string
		if err := rows.Scan(&translated); err != nil {
			return nil, fmt.Errorf("failed to scan dictionary entry: %w", err)
		}
		entries = append(entries, translated)
	}

	return entries, rows.Err()
}

// Save records a translation for original. Saving the same pair twice is a
// no-op
func (d *Dictionary) Save(original, translated string) error {
	query := `
		INSERT OR IGNORE INTO dictionary (
			source_language, target_language, original_text, translated_text
		) VALUES (?, ?, ?, ?)
	`

	if _, err := d.db.conn.Exec(query, d.source, d.target, original, translated); err != nil {
		return fmt.Errorf("failed to save dictionary entry: %w", err)
	}
	return nil
}
