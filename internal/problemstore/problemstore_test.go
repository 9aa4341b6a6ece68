package problemstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubenschmidt/pceh/internal/types"
)

func writeSet(t *testing.T, dir, name string, set types.ProblemSet) {
	t.Helper()
	data, err := json.Marshal(set)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0644))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeSet(t, dir, "basics.json", types.ProblemSet{
		Name: "basics",
		Problems: []types.Problem{
			{
				ID:          "add-two",
				Title:       "Add Two Numbers",
				Difficulty:  types.Easy,
				Description: "Return a + b.",
				Signatures:  map[types.Language]string{types.Python: "def add(a, b):"},
				TestCases:   []types.TestCase{{Input: "[2,3]", Expected: "5"}},
				TimeLimitMs: 2000,
			},
		},
	})

	store, err := Load(dir)
	require.NoError(t, err)
	assert.Len(t, store.ListProblemSets(), 1)

	p, ok := store.Lookup("add-two")
	require.True(t, ok)
	assert.Equal(t, "Add Two Numbers", p.Title)
	assert.Equal(t, "def add(a, b):", p.Signature(types.Python))
}

func TestProblem_SignatureFallback(t *testing.T) {
	p := types.Problem{ID: "mystery", Signatures: map[types.Language]string{}}
	assert.Equal(t, "// implement mystery solution", p.Signature(types.Go))
}

func TestLookupMany_SkipsMissing(t *testing.T) {
	dir := t.TempDir()
	writeSet(t, dir, "s.json", types.ProblemSet{
		Problems: []types.Problem{{ID: "a"}, {ID: "b"}},
	})

	store, err := Load(dir)
	require.NoError(t, err)

	found := store.LookupMany([]string{"a", "missing", "b"})
	require.Len(t, found, 2)
	assert.Equal(t, "a", found[0].ID)
	assert.Equal(t, "b", found[1].ID)
}
