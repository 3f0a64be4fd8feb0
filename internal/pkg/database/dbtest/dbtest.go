// Package dbtest opens migrated in-memory ledger stores for tests.
package dbtest

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/visitswap/visitswap-api/internal/pkg/database"
)

// New returns a fresh SQLite database with all migrations applied.
// Every call gets its own named in-memory database.
func New(t testing.TB) *sqlx.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := database.Open(database.DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.Migrate(db, database.DriverSQLite))
	return db
}
