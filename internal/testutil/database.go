// Package testutil provides testing utilities shared by package tests.
//
// Database Setup:
//
//	db := testutil.SetupSQLiteDB(t)
//	defer testutil.TeardownDB(t, db)
//
// Every call creates a fresh file-backed SQLite database inside t.TempDir() with
// the embedded migrations applied, so tests never share state.
package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/allisson/gw2proxy/internal/database"
)

// SetupSQLiteDB creates a migrated SQLite database in a temporary directory.
func SetupSQLiteDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Connect(database.Config{
		Driver:           database.DriverSQLite,
		ConnectionString: filepath.Join(t.TempDir(), "app.db"),
	})
	require.NoError(t, err, "failed to connect to sqlite")

	err = database.Migrate(db, database.DriverSQLite)
	require.NoError(t, err, "failed to run sqlite migrations")

	return db
}

// TeardownDB closes the database connection.
func TeardownDB(t *testing.T, db *sql.DB) {
	t.Helper()
	if db != nil {
		err := db.Close()
		require.NoError(t, err, "failed to close database connection")
	}
}

// CleanupSQLiteDB deletes every row from the application tables.
func CleanupSQLiteDB(t *testing.T, db *sql.DB) {
	t.Helper()

	_, err := db.Exec("DELETE FROM credentials")
	require.NoError(t, err, "failed to cleanup credentials table")
}
