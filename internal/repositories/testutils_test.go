package repositories_test

import (
	"context"
	"github.com/myrjola/cluequest/internal/sqlite"
	"github.com/myrjola/cluequest/internal/testhelpers"
	"github.com/stretchr/testify/require"
	"io"
	"testing"
)

func newTestDB(t *testing.T) *sqlite.Database {
	t.Helper()
	ctx := context.Background()
	logger := testhelpers.NewLogger(io.Discard)
	db, err := sqlite.NewDatabase(ctx, ":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, db.Close())
	})
	return db
}

func createTestUser(t *testing.T, db *sqlite.Database, id []byte) {
	t.Helper()
	ctx := context.Background()
	_, err := db.ReadWrite.ExecContext(ctx,
		"INSERT INTO users (id, display_name) VALUES (?, ?)", id, "Anonymous detective")
	require.NoError(t, err)
}
