package services

import (
	"database/sql"
	"testing"

	"github.com/isdelr/geonotes-be/internal/database"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T, schema string) *sql.DB {
	t.Helper()
	db, err := database.Open(database.MemoryDSN, schema)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func strPtr(s string) *string { return &s }
