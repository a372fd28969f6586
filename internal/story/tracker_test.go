package story_test

import (
	"context"
	"github.com/myrjola/cluequest/internal/models"
	"github.com/myrjola/cluequest/internal/repositories"
	"github.com/myrjola/cluequest/internal/story"
	"github.com/myrjola/cluequest/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"io"
	"testing"
)

func TestTracker_RecordSolve(t *testing.T) {
	ctx := context.Background()
	logger := testhelpers.NewLogger(io.Discard)

	newSolvedFixture := func(t *testing.T) (fixture, *models.Story, *story.Tracker) {
		t.Helper()
		f := newFixture(t)
		solved := &models.Story{
			Setting:     "s",
			Description: "d",
			Victim:      "v",
			Suspects: map[string]string{
				"Lena Hartman": "", "Clara Osei": "", "Viktor Brandt": "", "Tomas Ruiz": "",
			},
			Clues:       []string{"c"},
			RedHerrings: []string{"r"},
			Culprit:     "Lena Hartman",
			Explanation: "e",
		}
		require.NoError(t, f.stories.Insert(ctx, solved))
		return f, solved, story.NewTracker(f.stories, f.users, logger)
	}

	t.Run("wrong suspect leaves progress untouched", func(t *testing.T) {
		f, solved, tracker := newSolvedFixture(t)

		result, err := tracker.RecordSolve(ctx, f.userID, solved.ID, "Clara Osei")
		require.NoError(t, err)
		assert.False(t, result.Correct)
		assert.EqualValues(t, 0, result.Progress)

		user, err := f.users.Get(ctx, f.userID)
		require.NoError(t, err)
		assert.EqualValues(t, 0, user.Progress)
	})

	t.Run("correct suspect increments progress", func(t *testing.T) {
		f, solved, tracker := newSolvedFixture(t)

		result, err := tracker.RecordSolve(ctx, f.userID, solved.ID, "Lena Hartman")
		require.NoError(t, err)
		assert.True(t, result.Correct)
		assert.EqualValues(t, 1, result.Progress)

		user, err := f.users.Get(ctx, f.userID)
		require.NoError(t, err)
		assert.EqualValues(t, 1, user.Progress)
	})

	t.Run("accusation check ignores case and whitespace", func(t *testing.T) {
		f, solved, tracker := newSolvedFixture(t)

		result, err := tracker.RecordSolve(ctx, f.userID, solved.ID, "  lena hartman ")
		require.NoError(t, err)
		assert.True(t, result.Correct)
	})

	t.Run("a name that is not even a suspect is just wrong", func(t *testing.T) {
		f, solved, tracker := newSolvedFixture(t)

		result, err := tracker.RecordSolve(ctx, f.userID, solved.ID, "Hercule Poirot")
		require.NoError(t, err)
		assert.False(t, result.Correct)
	})

	t.Run("unknown story returns ErrNoRecord", func(t *testing.T) {
		f, _, tracker := newSolvedFixture(t)

		_, err := tracker.RecordSolve(ctx, f.userID, "no-such-story", "Lena Hartman")
		assert.ErrorIs(t, err, repositories.ErrNoRecord)
	})

	t.Run("unknown user returns ErrNoRecord", func(t *testing.T) {
		_, solved, tracker := newSolvedFixture(t)

		_, err := tracker.RecordSolve(ctx, []byte("no-such-user"), solved.ID, "Lena Hartman")
		assert.ErrorIs(t, err, repositories.ErrNoRecord)
	})
}
