// Package databasetest opens a migrated postgres database for repository tests.
package databasetest

import (
	"database/sql"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fkhayef/yatube/internal/database"
)

// EnvURL names the variable holding the test database connection string
const EnvURL = "TEST_DATABASE_URL"

// Open connects to the database named by TEST_DATABASE_URL, applies the
// migrations and empties every table. The test is skipped when the variable
// is not set.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	url := os.Getenv(EnvURL)
	if url == "" {
		t.Skipf("%s not set, skipping postgres test", EnvURL)
	}

	db, err := database.NewPostgresConnection(url)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db, "up"))

	_, err = db.Exec(`TRUNCATE posts, groups, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	return db
}

// CreateUser inserts a user row with a throwaway password hash
func CreateUser(t *testing.T, db *sql.DB, username string) int64 {
	t.Helper()

	var id int64
	err := db.QueryRow(
		`INSERT INTO users (username, email, password_hash) VALUES ($1, $2, 'x') RETURNING id`,
		username, username+"@example.com",
	).Scan(&id)
	require.NoError(t, err)
	return id
}
