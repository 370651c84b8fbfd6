package main

import (
	"io/fs"
	"testing"

	"bookmory/db"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectMigrations_ParsesEmbeddedMigrations(t *testing.T) {
	fsys, err := fs.Sub(db.Migrations, db.MigrationsDir)
	require.NoError(t, err)

	goose.SetBaseFS(fsys)
	t.Cleanup(func() { goose.SetBaseFS(nil) })

	migrations, err := goose.CollectMigrations(".", 0, goose.MaxVersion)
	require.NoError(t, err)
	require.Len(t, migrations, 4)

	for i, m := range migrations {
		assert.Equal(t, int64(i+1), m.Version)
	}
}
