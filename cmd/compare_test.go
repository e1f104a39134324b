package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCandidateCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "candidates.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadCandidates(t *testing.T) {
	path := writeCandidateCSV(t, `latitude,longitude,district,category
-6.225,106.825,Setia Budi,Fresh Juices
-6.235,106.805,,Coffee and Hot Beverages
`)

	locations, err := readCandidates(path)
	require.NoError(t, err)
	require.Len(t, locations, 2)

	assert.InDelta(t, -6.225, locations[0].Lat, 1e-9)
	assert.InDelta(t, 106.825, locations[0].Lng, 1e-9)
	assert.Equal(t, "Setia Budi", locations[0].District)
	assert.Equal(t, "Fresh Juices", locations[0].Category)
	assert.Empty(t, locations[1].District)
}

func TestReadCandidatesEmpty(t *testing.T) {
	path := writeCandidateCSV(t, "latitude,longitude,district,category\n")

	_, err := readCandidates(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no rows")
}

func TestReadCandidatesMissingFile(t *testing.T) {
	_, err := readCandidates(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}
