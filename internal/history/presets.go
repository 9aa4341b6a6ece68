package history

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/hubenschmidt/pceh/internal/logging"
	"github.com/hubenschmidt/pceh/internal/types"
)

// InsertPreset saves a named, reusable benchmark configuration.
func (s *Store) InsertPreset(preset types.Preset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	problemIDs, err := marshalJSON(preset.ProblemIDs)
	if err != nil {
		return fmt.Errorf("marshal problem_ids: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO benchmark_presets (id, name, created_at, model_id, language, temperature, max_tokens, problem_ids)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		preset.ID, preset.Name, preset.CreatedAt, preset.ModelID, preset.Language,
		preset.Temperature, preset.MaxTokens, problemIDs,
	)
	if err == nil {
		logging.HistoryDebug("saved preset: %s", preset.Name)
	}
	return err
}

// ListPresets returns all saved presets ordered by name.
func (s *Store) ListPresets() ([]types.Preset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(
		`SELECT id, name, created_at, model_id, language, temperature, max_tokens, problem_ids
		 FROM benchmark_presets ORDER BY name ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []types.Preset
	for rows.Next() {
		preset, err := scanPresetRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, preset)
	}
	return out, rows.Err()
}

// GetPreset looks up a single preset by id.
func (s *Store) GetPreset(id string) (*types.Preset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRow(
		`SELECT id, name, created_at, model_id, language, temperature, max_tokens, problem_ids
		 FROM benchmark_presets WHERE id = ?`, id,
	)

	preset, err := scanPresetRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &preset, nil
}

// DeletePreset removes a preset by id.
func (s *Store) DeletePreset(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`DELETE FROM benchmark_presets WHERE id = ?`, id)
	if err == nil {
		logging.HistoryDebug("deleted preset: %s", id)
	}
	return err
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPresetRow(row rowScanner) (types.Preset, error) {
	var p types.Preset
	var problemIDs string
	var maxTokens sql.NullInt64

	if err := row.Scan(&p.ID, &p.Name, &p.CreatedAt, &p.ModelID, &p.Language, &p.Temperature, &maxTokens, &problemIDs); err != nil {
		return p, err
	}
	if maxTokens.Valid {
		v := int(maxTokens.Int64)
		p.MaxTokens = &v
	}
	if err := json.Unmarshal([]byte(problemIDs), &p.ProblemIDs); err != nil {
		return p, fmt.Errorf("unmarshal problem_ids: %w", err)
	}
	return p, nil
}
