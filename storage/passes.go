package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// Pass represents one full clipboard-to-clipboard translation, covering all
// of its chunks
type Pass struct {
	ID             int64
	Timestamp      time.Time
	SourceLanguage string
	TargetLanguage string
	SourceText     string
	TranslatedText string
	CharacterCount int
	ChunkCount     int
	DurationMs     int64
	FromDictionary bool
	Success        bool
	ErrorMessage   string
}

// SavePass saves a translation pass to the database
func (db *DB) SavePass(p *Pass) error {
	query := `
		INSERT INTO passes (
			source_language, target_language, source_text, translated_text,
			character_count, chunk_count, duration_ms, from_dictionary,
			success, error_message
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := db.conn.Exec(query,
		p.SourceLanguage, p.TargetLanguage, p.SourceText, p.TranslatedText,
		p.CharacterCount, p.ChunkCount, p.DurationMs, p.FromDictionary,
		p.Success, p.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("failed to save pass: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %w", err)
	}

	p.ID = id
	return nil
}

// GetPasses retrieves translation passes with pagination, newest first
func (db *DB) GetPasses(limit, offset int) ([]Pass, error) {
	query := `
		SELECT
			id, timestamp, source_language, target_language, source_text,
			translated_text, character_count, chunk_count, duration_ms,
			from_dictionary, success, error_message
		FROM passes
		ORDER BY timestamp DESC, id DESC
		LIMIT ? OFFSET ?
	`

	rows, err := db.conn.Query(query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query passes: %w", err)
	}
	defer rows.Close()

	var passes []Pass
	for rows.Next() {
		var p Pass
		var errorMessage sql.NullString

		err := rows.Scan(
			&p.ID, &p.Timestamp, &p.SourceLanguage, &p.TargetLanguage, &p.SourceText,
			&p.TranslatedText, &p.CharacterCount, &p.ChunkCount, &p.DurationMs,
			&p.FromDictionary, &p.Success, &errorMessage,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pass: %w", err)
		}

		if errorMessage.Valid {
			p.ErrorMessage = errorMessage.String
		}

		passes = append(passes, p)
	}

	return passes, rows.Err()
}

// DeletePass deletes a pass by ID
func (db *DB) DeletePass(id int64) error {
	result, err := db.conn.Exec(`DELETE FROM passes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete pass: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("pass not found")
	}

	return nil
}

// GetPassCount returns the total number of passes
func (db *DB) GetPassCount() (int, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM passes").Scan(&count)
	return count, err
}
