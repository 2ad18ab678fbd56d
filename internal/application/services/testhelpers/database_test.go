package testhelpers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsDirHoldsTheEventTable(t *testing.T) {
	dir := migrationsDir()

	ups, err := filepath.Glob(filepath.Join(dir, "*.up.sql"))
	require.NoError(t, err)
	require.NotEmpty(t, ups, "no up migrations under %s", dir)

	sql, err := os.ReadFile(ups[0])
	require.NoError(t, err)
	assert.Contains(t, string(sql), "gateway_events")
}

func TestMigrateUpNeedsMigrations(t *testing.T) {
	err := migrateUp(t.Context(), nil, t.TempDir())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no up migrations")
}
