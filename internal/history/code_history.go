package history

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hubenschmidt/pceh/internal/types"
)

// InsertCodeHistory persists one completed (or failed) run.
func (s *Store) InsertCodeHistory(entry types.CodeHistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	configJSON, err := marshalJSON(entry.Config)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	summaryJSON, err := marshalJSON(entry.Summary)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	metricsJSON, err := marshalJSON(entry.Metrics)
	if err != nil {
		return fmt.Errorf("marshal metrics: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO code_history (
			id, timestamp, benchmark_type, language, model_id,
			config_json, summary_json, metrics_json, session_id, status, preset_id
		) VALUES (?, ?, 'code', ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Timestamp, entry.Language, entry.ModelID,
		configJSON, summaryJSON, metricsJSON, entry.SessionID, entry.Status, entry.PresetID,
	)
	return err
}

// ListCodeHistory returns the most recent limit entries, newest first.
func (s *Store) ListCodeHistory(limit int) ([]types.CodeHistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(
		`SELECT id, timestamp, language, model_id, config_json, summary_json,
		        metrics_json, session_id, status, preset_id
		 FROM code_history ORDER BY timestamp DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []types.CodeHistoryEntry
	for rows.Next() {
		entry, err := scanCodeHistoryRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

func scanCodeHistoryRow(rows *sql.Rows) (types.CodeHistoryEntry, error) {
	var entry types.CodeHistoryEntry
	var configJSON, summaryJSON, metricsJSON string
	var sessionID, presetID sql.NullString

	if err := rows.Scan(
		&entry.ID, &entry.Timestamp, &entry.Language, &entry.ModelID,
		&configJSON, &summaryJSON, &metricsJSON, &sessionID, &entry.Status, &presetID,
	); err != nil {
		return entry, err
	}

	if err := json.Unmarshal([]byte(configJSON), &entry.Config); err != nil {
		return entry, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := json.Unmarshal([]byte(summaryJSON), &entry.Summary); err != nil {
		return entry, fmt.Errorf("unmarshal summary: %w", err)
	}
	if err := json.Unmarshal([]byte(metricsJSON), &entry.Metrics); err != nil {
		return entry, fmt.Errorf("unmarshal metrics: %w", err)
	}
	if sessionID.Valid {
		entry.SessionID = &sessionID.String
	}
	if presetID.Valid {
		entry.PresetID = &presetID.String
	}

	return entry, nil
}

// BestPassRateForModel returns the highest pass_rate a model achieved
// for language, or nil if it has no recorded runs.
func (s *Store) BestPassRateForModel(model string, language types.Language) (*float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var passRate sql.NullFloat64
	err := s.db.QueryRow(
		`SELECT MAX(json_extract(summary_json, '$.pass_rate'))
		 FROM code_history WHERE model_id = ? AND benchmark_type = 'code' AND language = ?`,
		model, language,
	).Scan(&passRate)
	if errors.Is(err, sql.ErrNoRows) || !passRate.Valid {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &passRate.Float64, nil
}

// LeaderboardEntry is one ranked row of CodeLeaderboard.
type LeaderboardEntry struct {
	ModelID      string
	BestPassRate float64
}

// CodeLeaderboard returns up to limit models for language, ranked by
// best pass_rate descending.
func (s *Store) CodeLeaderboard(language types.Language, limit int) ([]LeaderboardEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(
		`SELECT model_id, MAX(json_extract(summary_json, '$.pass_rate')) as best_pass_rate
		 FROM code_history
		 WHERE benchmark_type = 'code' AND language = ?
		 GROUP BY model_id
		 ORDER BY best_pass_rate DESC
		 LIMIT ?`,
		language, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LeaderboardEntry
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.ModelID, &e.BestPassRate); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
