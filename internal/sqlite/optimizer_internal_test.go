package sqlite

import (
	"context"
	"github.com/myrjola/cluequest/internal/testhelpers"
	"github.com/stretchr/testify/require"
	"io"
	"testing"
	"time"
)

// The optimizer loop runs until ctx is cancelled. NewDatabase has to hand it
// off to a goroutine or the caller never gets past opening the database.
func TestNewDatabase_returnsWhileOptimizerRuns(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		db, err := NewDatabase(ctx, ":memory:", testhelpers.NewLogger(io.Discard))
		if err == nil {
			err = db.Close()
		}
		errCh <- err
	}()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("NewDatabase did not return within 5s")
	}
}
