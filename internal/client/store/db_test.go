package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/labaccess/internal/qr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	require.NoError(t, err)
	return n > 0
}

func TestInitDatabase_CreatesSchema(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repos, err := InitDatabase(ctx, filepath.Join(t.TempDir(), "labaccess.db"))
	require.NoError(t, err)
	defer repos.Close()

	for _, table := range []string{"goose_db_version", "identities", "metadata"} {
		assert.True(t, tableExists(t, repos.DB, table), "table %s", table)
	}
}

func TestInitDatabase_ReopenKeepsData(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "labaccess.db")

	repos, err := InitDatabase(ctx, dsn)
	require.NoError(t, err)
	_, err = repos.Identities.Append(ctx, qr.Identity{Name: "Ana", Surname: "Lee", Email: "ana@x.com", UserType: qr.UserTypeStudent})
	require.NoError(t, err)
	require.NoError(t, repos.Metadata.Set(ctx, "k", []byte("v")))
	require.NoError(t, repos.Close())

	repos, err = InitDatabase(ctx, dsn)
	require.NoError(t, err, "migrations must be idempotent")
	defer repos.Close()

	saved, err := repos.Identities.List(ctx)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, "Ana", saved[0].Identity.Name)

	v, err := repos.Metadata.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v)
}

func TestInitDatabase_CreatesParentDir(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repos, err := InitDatabase(ctx, filepath.Join(t.TempDir(), "nested", "dir", "labaccess.db"))
	require.NoError(t, err)
	defer repos.Close()

	assert.NoError(t, repos.DB.PingContext(ctx))
}
