package sqlite

import (
	"context"
	"github.com/gizahealth/inspector/internal/testhelpers"
	"github.com/stretchr/testify/require"
	"io"
	"testing"
)

func TestDatabase_migrate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		runs        [][]string
		testQueries []string
		wantVersion int
		wantErr     bool
	}{
		{
			name:        "no migrations",
			runs:        [][]string{{}},
			testQueries: []string{"SELECT * FROM sqlite_schema"},
			wantVersion: 0,
		},
		{
			name:        "create table",
			runs:        [][]string{{"CREATE TABLE test (id INTEGER PRIMARY KEY, name TEXT)"}},
			testQueries: []string{"INSERT INTO test (name) VALUES ('test')"},
			wantVersion: 1,
		},
		{
			name: "applies only new migrations",
			runs: [][]string{
				{"CREATE TABLE test (id INTEGER PRIMARY KEY)"},
				{"CREATE TABLE test (id INTEGER PRIMARY KEY)", "ALTER TABLE test ADD COLUMN name TEXT"},
			},
			testQueries: []string{"INSERT INTO test (name) VALUES ('test')"},
			wantVersion: 2,
		},
		{
			name:        "empty migration bumps version",
			runs:        [][]string{{"", "CREATE TABLE test (id INTEGER PRIMARY KEY)"}},
			testQueries: []string{"SELECT * FROM test"},
			wantVersion: 2,
		},
		{
			name: "failed migration is rolled back",
			runs: [][]string{
				{"CREATE TABLE test (id INTEGER PRIMARY KEY); CREATE TABLE test (id INTEGER PRIMARY KEY)"},
			},
			wantVersion: 0,
			wantErr:     true,
		},
		{
			name: "database newer than migrations",
			runs: [][]string{
				{"CREATE TABLE test (id INTEGER PRIMARY KEY)", "CREATE TABLE other (id INTEGER PRIMARY KEY)"},
				{"CREATE TABLE test (id INTEGER PRIMARY KEY)"},
			},
			wantVersion: 2,
			wantErr:     true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			db, err := connect(":memory:", testhelpers.NewLogger(io.Discard))
			require.NoError(t, err)
			t.Cleanup(func() { require.NoError(t, db.Close()) })

			for i, migrations := range tt.runs {
				err = db.migrate(ctx, migrations)
				if tt.wantErr && i == len(tt.runs)-1 {
					require.Error(t, err)
				} else {
					require.NoError(t, err)
				}
			}
			for _, query := range tt.testQueries {
				_, err = db.ReadWrite.ExecContext(ctx, query)
				require.NoError(t, err)
			}
			var version int
			require.NoError(t, db.ReadWrite.GetContext(ctx, &version, "PRAGMA user_version"))
			require.Equal(t, tt.wantVersion, version)
		})
	}
}

func TestNewDatabase(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	db, err := NewDatabase(ctx, ":memory:", testhelpers.NewLogger(io.Discard))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, db.Close()) })

	var tables []string
	require.NoError(t, db.ReadOnly.SelectContext(ctx, &tables,
		"SELECT name FROM sqlite_schema WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name"))
	require.Equal(t, []string{"facilities", "inspection_answers", "inspection_reports", "inspectors", "sessions"}, tables)

	_, err = db.ReadOnly.ExecContext(ctx, "INSERT INTO inspectors (id, name, role) VALUES ('u9', 'x', 'Admin')")
	require.Error(t, err, "read-only pool must reject writes")
}
