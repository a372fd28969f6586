package main

import (
	"bytes"
	"context"
	"encoding/json"
	"github.com/myrjola/cluequest/internal/contexthelpers"
	"github.com/myrjola/cluequest/internal/models"
	"github.com/myrjola/cluequest/internal/repositories"
	"github.com/myrjola/cluequest/internal/sqlite"
	"github.com/myrjola/cluequest/internal/story"
	"github.com/myrjola/cluequest/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

// recordProgress tells a vanished user apart from an unknown story. The user arm
// is unreachable through the router because the authenticate middleware drops
// sessions whose user row is gone, so the handler is called directly here.
func Test_recordProgress_notFound(t *testing.T) {
	ctx := context.Background()
	logger := testhelpers.NewLogger(io.Discard)
	db, err := sqlite.NewDatabase(ctx, ":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, db.Close())
	})

	stories := repositories.NewStoryRepository(db, logger)
	users := repositories.NewUserRepository(db, logger)
	app := &application{
		logger:  logger,
		tracker: story.NewTracker(stories, users, logger),
		stories: stories,
		users:   users,
	}

	knownID := []byte("known-user")
	require.NoError(t, users.Create(ctx, &models.User{ID: knownID, DisplayName: "Anonymous detective"}))

	post := func(t *testing.T, userID []byte) *httptest.ResponseRecorder {
		t.Helper()
		body, marshalErr := json.Marshal(progressRequest{StoryID: "no-such-story", Suspect: "Nobody"})
		require.NoError(t, marshalErr)
		r := httptest.NewRequest(http.MethodPost, "/api/game/progress", bytes.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
		r = contexthelpers.AuthenticateContext(r, userID)
		w := httptest.NewRecorder()
		app.recordProgress(w, r)
		return w
	}

	t.Run("missing user", func(t *testing.T) {
		w := post(t, []byte("vanished-user"))
		assert.Equal(t, http.StatusNotFound, w.Code)
		var got apiMessage
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "User not found", got.Message)
	})

	t.Run("missing story", func(t *testing.T) {
		w := post(t, knownID)
		assert.Equal(t, http.StatusNotFound, w.Code)
		var got apiMessage
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "Story not found", got.Message)
	})
}
