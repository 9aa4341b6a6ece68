// Package problemstore loads benchmark problem sets from on-disk JSON
// definitions. Problems are immutable after load.
package problemstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/hubenschmidt/pceh/internal/logging"
	"github.com/hubenschmidt/pceh/internal/types"
)

// Store is an in-memory index over loaded problem sets.
type Store struct {
	sets     []types.ProblemSet
	byID     map[string]types.Problem
}

// Load reads every *.json file in dir as a ProblemSet, in filename
// order, and builds an id-keyed lookup index.
func Load(dir string) (*Store, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read problems dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".json" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	s := &Store{byID: make(map[string]types.Problem)}
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read problem set %s: %w", name, err)
		}

		var set types.ProblemSet
		if err := json.Unmarshal(data, &set); err != nil {
			return nil, fmt.Errorf("failed to parse problem set %s: %w", name, err)
		}
		if set.Name == "" {
			set.Name = name
		}

		for _, p := range set.Problems {
			s.byID[p.ID] = p
		}
		s.sets = append(s.sets, set)
		logging.ProblemDebug("loaded problem set %s (%d problems)", set.Name, len(set.Problems))
	}

	logging.Problem("loaded %d problem sets from %s", len(s.sets), dir)
	return s, nil
}

// ListProblemSets returns every loaded set, in the order loaded.
func (s *Store) ListProblemSets() []types.ProblemSet {
	return s.sets
}

// Lookup returns the problem with the given id, if any.
func (s *Store) Lookup(id string) (types.Problem, bool) {
	p, ok := s.byID[id]
	return p, ok
}

// LookupMany returns the problems matching ids, in the given order,
// silently skipping any id that is not found.
func (s *Store) LookupMany(ids []string) []types.Problem {
	problems := make([]types.Problem, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.byID[id]; ok {
			problems = append(problems, p)
		}
	}
	return problems
}
