package history

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/hubenschmidt/pceh/internal/types"
)

// InsertBatch persists a new in-progress batch for resume support.
func (s *Store) InsertBatch(batch types.BatchState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	models, languages, temps, maxTokens, problemIDs, err := marshalBatchSelections(batch)
	if err != nil {
		return err
	}
	pendingCombos, err := marshalJSON(batch.PendingCombos)
	if err != nil {
		return fmt.Errorf("marshal pending_combos: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO batch_state (
			session_id, created_at, updated_at, status,
			selected_models, selected_languages, selected_temperatures,
			selected_max_tokens, selected_problem_ids,
			auto_run_tests, skip_on_error,
			pending_combos, queue_total, queue_completed,
			failed_combo, error_message
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		batch.SessionID, batch.CreatedAt, batch.UpdatedAt, batch.Status,
		models, languages, temps, maxTokens, problemIDs,
		batch.AutoRunTests, batch.SkipOnError,
		pendingCombos, batch.QueueTotal, batch.QueueCompleted,
		nullableJSON(batch.FailedCombo), batch.ErrorMessage,
	)
	return err
}

// UpdateBatch updates the mutable fields of an existing batch, matching
// update_batch's column set exactly (selection fields are immutable
// after insert).
func (s *Store) UpdateBatch(batch types.BatchState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pendingCombos, err := marshalJSON(batch.PendingCombos)
	if err != nil {
		return fmt.Errorf("marshal pending_combos: %w", err)
	}

	_, err = s.db.Exec(
		`UPDATE batch_state SET
			updated_at = ?, status = ?,
			pending_combos = ?, queue_completed = ?,
			failed_combo = ?, error_message = ?
		 WHERE session_id = ?`,
		batch.UpdatedAt, batch.Status,
		pendingCombos, batch.QueueCompleted,
		nullableJSON(batch.FailedCombo), batch.ErrorMessage,
		batch.SessionID,
	)
	return err
}

// DeleteBatch removes a batch, called once its combo queue drains.
func (s *Store) DeleteBatch(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`DELETE FROM batch_state WHERE session_id = ?`, sessionID)
	return err
}

// IncompleteBatches returns running/paused batches, most recently
// updated first, for resume-on-startup discovery.
func (s *Store) IncompleteBatches() ([]types.BatchState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(
		`SELECT session_id, created_at, updated_at, status,
		        selected_models, selected_languages, selected_temperatures,
		        selected_max_tokens, selected_problem_ids,
		        auto_run_tests, skip_on_error,
		        pending_combos, queue_total, queue_completed,
		        failed_combo, error_message
		 FROM batch_state
		 WHERE status IN ('running', 'paused')
		 ORDER BY updated_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []types.BatchState
	for rows.Next() {
		batch, err := scanBatchRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, batch)
	}
	return out, rows.Err()
}

func scanBatchRow(rows *sql.Rows) (types.BatchState, error) {
	var b types.BatchState
	var models, languages, temps, maxTokens, problemIDs, pendingCombos string
	var failedCombo, errorMessage sql.NullString

	if err := rows.Scan(
		&b.SessionID, &b.CreatedAt, &b.UpdatedAt, &b.Status,
		&models, &languages, &temps, &maxTokens, &problemIDs,
		&b.AutoRunTests, &b.SkipOnError,
		&pendingCombos, &b.QueueTotal, &b.QueueCompleted,
		&failedCombo, &errorMessage,
	); err != nil {
		return b, err
	}

	for _, pair := range []struct {
		raw string
		dst interface{}
	}{
		{models, &b.SelectedModels},
		{languages, &b.SelectedLanguages},
		{temps, &b.SelectedTemperatures},
		{maxTokens, &b.SelectedMaxTokens},
		{problemIDs, &b.SelectedProblemIDs},
		{pendingCombos, &b.PendingCombos},
	} {
		if err := json.Unmarshal([]byte(pair.raw), pair.dst); err != nil {
			return b, fmt.Errorf("unmarshal batch_state column: %w", err)
		}
	}

	if failedCombo.Valid {
		var combo types.BenchmarkCombo
		if err := json.Unmarshal([]byte(failedCombo.String), &combo); err != nil {
			return b, fmt.Errorf("unmarshal failed_combo: %w", err)
		}
		b.FailedCombo = &combo
	}
	if errorMessage.Valid {
		b.ErrorMessage = &errorMessage.String
	}

	return b, nil
}

func marshalBatchSelections(batch types.BatchState) (models, languages, temps, maxTokens, problemIDs string, err error) {
	if models, err = marshalJSON(batch.SelectedModels); err != nil {
		return
	}
	if languages, err = marshalJSON(batch.SelectedLanguages); err != nil {
		return
	}
	if temps, err = marshalJSON(batch.SelectedTemperatures); err != nil {
		return
	}
	if maxTokens, err = marshalJSON(batch.SelectedMaxTokens); err != nil {
		return
	}
	if problemIDs, err = marshalJSON(batch.SelectedProblemIDs); err != nil {
		return
	}
	return
}

func nullableJSON(combo *types.BenchmarkCombo) interface{} {
	if combo == nil {
		return nil
	}
	b, err := json.Marshal(combo)
	if err != nil {
		return nil
	}
	return string(b)
}
