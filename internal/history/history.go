// Package history persists benchmark run history, in-progress batch
// state, and saved presets to a local SQLite database.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hubenschmidt/pceh/internal/logging"
	"github.com/hubenschmidt/pceh/internal/types"
)

// Store is a SQLite-backed HistoryStore. All access is serialized
// by a mutex held for each method, on top of a single connection
// (SetMaxOpenConns(1)).
type Store struct {
	db     *sql.DB
	dbPath string
	mu     sync.Mutex
}

// Open creates or opens the history database at path, creating parent
// directories and running initSchema.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set %s: %w", pragma, err)
		}
	}

	s := &Store{db: db, dbPath: path}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}

	logging.History("opened history store at %s", path)
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Path() string {
	return s.dbPath
}

const schema = `
CREATE TABLE IF NOT EXISTS code_history (
	id TEXT PRIMARY KEY,
	timestamp INTEGER NOT NULL,
	benchmark_type TEXT NOT NULL,
	language TEXT NOT NULL,
	model_id TEXT NOT NULL,
	config_json TEXT NOT NULL,
	summary_json TEXT NOT NULL,
	metrics_json TEXT NOT NULL,
	session_id TEXT,
	status TEXT NOT NULL,
	preset_id TEXT
);

CREATE TABLE IF NOT EXISTS batch_state (
	session_id TEXT PRIMARY KEY,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL,
	status TEXT NOT NULL,
	selected_models TEXT NOT NULL,
	selected_languages TEXT NOT NULL,
	selected_temperatures TEXT NOT NULL,
	selected_max_tokens TEXT NOT NULL,
	selected_problem_ids TEXT NOT NULL,
	auto_run_tests INTEGER NOT NULL,
	skip_on_error INTEGER NOT NULL,
	pending_combos TEXT NOT NULL,
	queue_total INTEGER NOT NULL,
	queue_completed INTEGER NOT NULL,
	failed_combo TEXT,
	error_message TEXT
);

CREATE TABLE IF NOT EXISTS benchmark_presets (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	model_id TEXT NOT NULL,
	language TEXT NOT NULL,
	temperature REAL NOT NULL,
	max_tokens INTEGER,
	problem_ids TEXT NOT NULL
);
`

func (s *Store) initSchema() error {
	_, err := s.db.Exec(schema)
	return err
}

func marshalJSON(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
