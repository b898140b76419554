package main

import (
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordlebot/assets"
)

func TestMigrateEmbedded(t *testing.T) {
	db, err := openDB(filepath.Join(t.TempDir(), "nested", "wordlebot.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, migrate(db, assets.Migrations()))
	require.NoError(t, migrate(db, assets.Migrations()), "second run is a no-op")

	for _, table := range []string{"games", "daily_results", "_migrations"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		assert.NoError(t, err, table)
	}
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM _migrations`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestMigrateOrderAndFailure(t *testing.T) {
	db, err := openDB(filepath.Join(t.TempDir(), "order.db"))
	require.NoError(t, err)
	defer db.Close()

	fsys := fstest.MapFS{
		"002_more.sql": {Data: []byte(`ALTER TABLE a ADD COLUMN y INTEGER;`)},
		"001_base.sql": {Data: []byte(`CREATE TABLE a (x INTEGER);`)},
		"readme.txt":   {Data: []byte(`not a migration`)},
	}
	require.NoError(t, migrate(db, fsys))
	_, err = db.Exec(`INSERT INTO a (x, y) VALUES (1, 2)`)
	assert.NoError(t, err)

	fsys["003_bad.sql"] = &fstest.MapFile{Data: []byte(`CREATE TABLE nope (`)}
	assert.Error(t, migrate(db, fsys))
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM _migrations`).Scan(&n))
	assert.Equal(t, 2, n, "failed script is not recorded")
}
