package storage

import (
	"fmt"
)

// OverallStats represents aggregate pass statistics
type OverallStats struct {
	TotalPasses     int
	TotalCharacters int64
	TotalChunks     int64
	SuccessCount    int
	FailureCount    int
	DictionaryHits  int
	AvgDurationMs   float64
}

// DailyStats represents pass statistics for a single day
type DailyStats struct {
	Date         string
	TotalPasses  int
	SuccessCount int
	FailureCount int
}

// GetOverallStats retrieves overall statistics for the last N days
func (db *DB) GetOverallStats(days int) (*OverallStats, error) {
	query := `
		SELECT
			COUNT(*) as total_passes,
			COALESCE(SUM(character_count), 0) as total_characters,
			COALESCE(SUM(chunk_count), 0) as total_chunks,
			COALESCE(SUM(CASE WHEN success = 1 THEN 1 ELSE 0 END), 0) as success_count,
			COALESCE(SUM(CASE WHEN success = 0 THEN 1 ELSE 0 END), 0) as failure_count,
			COALESCE(SUM(CASE WHEN from_dictionary = 1 THEN 1 ELSE 0 END), 0) as dictionary_hits,
			COALESCE(AVG(duration_ms), 0) as avg_duration_ms
		FROM passes
		WHERE timestamp >= datetime('now', '-' || ? || ' days')
	`

	var stats OverallStats
	err := db.conn.QueryRow(query, days).Scan(
		&stats.TotalPasses, &stats.TotalCharacters, &stats.TotalChunks,
		&stats.SuccessCount, &stats.FailureCount, &stats.DictionaryHits,
		&stats.AvgDurationMs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query overall stats: %w", err)
	}

	return &stats, nil
}

// GetDailyStats retrieves statistics grouped by date for the last N days
func (db *DB) GetDailyStats(days int) ([]DailyStats, error) {
	query := `
		SELECT
			DATE(timestamp) as date,
			COUNT(*) as total_passes,
			SUM(CASE WHEN success = 1 THEN 1 ELSE 0 END) as success_count,
			SUM(CASE WHEN success = 0 THEN 1 ELSE 0 END) as failure_count
		FROM passes
		WHERE timestamp >= datetime('now', '-' || ? || ' days')
		GROUP BY DATE(timestamp)
		ORDER BY date DESC
	`

	rows, err := db.conn.Query(query, days)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily stats: %w", err)
	}
	defer rows.Close()

	var stats []DailyStats
	for rows.Next() {
		var s DailyStats
		if err := rows.Scan(&s.Date, &s.TotalPasses, &s.SuccessCount, &s.FailureCount); err != nil {
			return nil, fmt.Errorf("failed to scan daily stats: %w", err)
		}
		stats = append(stats, s)
	}

	return stats, rows.Err()
}
