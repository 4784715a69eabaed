package journal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestListJournals_MissingDir(t *testing.T) {
	refs := ListJournals(filepath.Join(t.TempDir(), "nope"))
	assert.Empty(t, refs)
}

func TestListJournals_IgnoresNonJournalFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Journal.2024-01-02T030405.01.log", "")
	writeFile(t, dir, "Status.json", "{}")
	writeFile(t, dir, "NavRoute.json", "{}")
	writeFile(t, dir, "Journal.notatimestamp.log", "")
	writeFile(t, dir, "journal.2024-01-02T030405.01.log", "")

	refs := ListJournals(dir)
	require.Len(t, refs, 1)
	assert.Equal(t, filepath.Join(dir, "Journal.2024-01-02T030405.01.log"), refs[0].Path)
}

func TestListJournals_NewestFirst(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Journal.2024-01-02T030405.01.log", "")
	writeFile(t, dir, "Journal.2024-01-03T120000.01.log", "")
	writeFile(t, dir, "Journal.2023-12-31T235959.01.log", "")

	refs := ListJournals(dir)
	require.Len(t, refs, 3)
	assert.Contains(t, refs[0].Path, "2024-01-03T120000")
	assert.Contains(t, refs[1].Path, "2024-01-02T030405")
	assert.Contains(t, refs[2].Path, "2023-12-31T235959")
}

func TestListJournals_LegacyNames(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Journal.240102030405.01.log", "")
	writeFile(t, dir, "Journal.231231235959.01.log", "")

	refs := ListJournals(dir)
	require.Len(t, refs, 2)
	assert.Contains(t, refs[0].Path, "240102030405")
	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), refs[0].Stamp)
}

func TestListJournals_SameStampTieBreak(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Journal.2024-01-02T030405.01.log", "")
	writeFile(t, dir, "Journal.2024-01-02T030405.02.log", "")

	refs := ListJournals(dir)
	require.Len(t, refs, 2)
	// Equal embedded timestamps fall back to filename order, descending.
	assert.Contains(t, refs[0].Path, ".02.log")
	assert.Contains(t, refs[1].Path, ".01.log")
}

func TestLatest(t *testing.T) {
	dir := t.TempDir()

	_, ok := Latest(dir)
	assert.False(t, ok)

	writeFile(t, dir, "Journal.2024-01-02T030405.01.log", "")
	writeFile(t, dir, "Journal.2024-01-05T030405.01.log", "")

	ref, ok := Latest(dir)
	require.True(t, ok)
	assert.Contains(t, ref.Path, "2024-01-05")
}
