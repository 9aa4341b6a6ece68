package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubenschmidt/pceh/internal/types"
)

func TestParseLanguages_DefaultsToPython(t *testing.T) {
	langs, err := parseLanguages(nil)
	require.NoError(t, err)
	assert.Equal(t, []types.Language{types.Python}, langs)
}

func TestParseLanguages_RejectsUnknown(t *testing.T) {
	_, err := parseLanguages([]string{"python", "cobol"})
	assert.Error(t, err)
}

func TestParseLanguages_ParsesAll(t *testing.T) {
	langs, err := parseLanguages([]string{"python", "javascript", "go", "rust"})
	require.NoError(t, err)
	assert.Equal(t, []types.Language{types.Python, types.JavaScript, types.Go, types.Rust}, langs)
}

func TestIntsToPtrSlice_EmptyYieldsNilSentinel(t *testing.T) {
	out := intsToPtrSlice(nil)
	require.Len(t, out, 1)
	assert.Nil(t, out[0])
}

func TestIntsToPtrSlice_PreservesValuesAndOrder(t *testing.T) {
	out := intsToPtrSlice([]int{100, 200})
	require.Len(t, out, 2)
	require.NotNil(t, out[0])
	require.NotNil(t, out[1])
	assert.Equal(t, 100, *out[0])
	assert.Equal(t, 200, *out[1])
}

func TestTail_ShorterThanLimitReturnsAll(t *testing.T) {
	lines := []string{"a", "b"}
	assert.Equal(t, lines, tail(lines, 5))
}

func TestTail_TruncatesToLastN(t *testing.T) {
	lines := []string{"a", "b", "c", "d"}
	assert.Equal(t, []string{"c", "d"}, tail(lines, 2))
}
