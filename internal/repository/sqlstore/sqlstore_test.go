package sqlstore

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/revloop/loyaltyapi/internal/config"
	"github.com/revloop/loyaltyapi/pkg/crypto"
)

// openTestDB creates a throwaway sqlite database with the full schema.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	cfg := config.DatabaseConfig{
		Driver: "sqlite3",
		Path:   filepath.Join(t.TempDir(), "test.db"),
	}
	db, err := NewConnection(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, EnsureSchema(db))
	return db
}

func testSealer() *crypto.Sealer {
	return crypto.NewSealer("test-token-secret")
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}
