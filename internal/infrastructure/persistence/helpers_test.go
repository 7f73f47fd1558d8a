package persistence

import (
	"testing"

	"github.com/google/uuid"
	"github.com/sellerdesk/core/internal/infrastructure/config"
	"github.com/stretchr/testify/require"
)

// openTestDatabase opens a fresh in-memory sqlite database with the
// schema migrated
func openTestDatabase(t *testing.T) *Database {
	t.Helper()

	db, err := NewDatabase(&config.DatabaseConfig{
		Driver: "sqlite",
		Path:   ":memory:",
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate())

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

func newUUID() uuid.UUID {
	return uuid.New()
}
