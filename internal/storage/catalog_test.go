package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestCatalog(t *testing.T) *Catalog {
	t.Helper()

	c, err := OpenCatalog(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCatalogSessionLifecycle(t *testing.T) {
	c := openTestCatalog(t)

	require.NoError(t, c.CreateSession("s1", "stage2", 42, "/tmp/s1.zer"))

	rec, err := c.Session("s1")
	require.NoError(t, err)
	assert.Equal(t, "stage2", rec.Stage)
	assert.Equal(t, int64(42), rec.Seed)
	assert.Equal(t, "/tmp/s1.zer", rec.ReplayPath)
	assert.Empty(t, rec.Outcome)
	assert.Zero(t, rec.Ticks)

	require.NoError(t, c.FinishSession("s1", 3600, "won: escaped by car"))

	rec, err = c.Session("s1")
	require.NoError(t, err)
	assert.Equal(t, int64(3600), rec.Ticks)
	assert.Equal(t, "won: escaped by car", rec.Outcome)
}

func TestCatalogDuplicateSessionID(t *testing.T) {
	c := openTestCatalog(t)

	require.NoError(t, c.CreateSession("dup", "stage1", 1, ""))
	assert.Error(t, c.CreateSession("dup", "stage1", 2, ""))
}

func TestCatalogUnknownSession(t *testing.T) {
	c := openTestCatalog(t)

	_, err := c.Session("ghost")
	assert.Error(t, err)
}

func TestCatalogRecentSessions(t *testing.T) {
	c := openTestCatalog(t)

	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, c.CreateSession(id, "stage1", int64(i), ""))
	}

	records, err := c.RecentSessions(2)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	// Неположительный лимит заменяется дефолтом
	records, err = c.RecentSessions(0)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}
