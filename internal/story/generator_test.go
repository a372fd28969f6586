package story_test

import (
	"context"
	"github.com/myrjola/cluequest/internal/ai"
	"github.com/myrjola/cluequest/internal/repositories"
	"github.com/myrjola/cluequest/internal/sqlite"
	"github.com/myrjola/cluequest/internal/story"
	"github.com/myrjola/cluequest/internal/testhelpers"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"io"
	"testing"
)

// scriptedClient plays back queued completions. Once the queue is drained it keeps
// returning the final response.
type scriptedClient struct {
	responses []string
	calls     int
}

func (c *scriptedClient) SyncCompletion(_ context.Context, _ []openai.ChatCompletionMessage) (string, error) {
	response := c.responses[len(c.responses)-1]
	if c.calls < len(c.responses) {
		response = c.responses[c.calls]
	}
	c.calls++
	return response, nil
}

var _ ai.Client = (*scriptedClient)(nil)

const validCase = `{
  "setting": "A snowed-in alpine hotel",
  "description": "The concierge was found in the wine cellar, the door locked from the outside.",
  "victim": "Henri Delacroix, concierge and keeper of the guest ledger.",
  "suspects": {
    "Clara Osei": "Sommelier. Says she was decanting upstairs.",
    "Viktor Brandt": "Guest with gambling debts in the ledger.",
    "Lena Hartman": "Night porter who holds the cellar key.",
    "Tomas Ruiz": "Chef who argued with the victim at dinner."
  },
  "clues": ["The cellar key was returned to the wrong hook.", "Wax drippings on the stairs."],
  "red_herrings": ["A broken wine bottle near the door.", "Viktor's torn betting slip."],
  "culprit": "Lena Hartman",
  "explanation": "Lena locked the cellar to hide the thefts Henri had found in the ledger."
}`

type fixture struct {
	stories *repositories.StoryRepository
	users   *repositories.UserRepository
	userID  []byte
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	logger := testhelpers.NewLogger(io.Discard)
	db, err := sqlite.NewDatabase(ctx, ":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, db.Close())
	})

	userID := []byte("player-1")
	_, err = db.ReadWrite.ExecContext(ctx,
		"INSERT INTO users (id, display_name) VALUES (?, ?)", userID, "Anonymous detective")
	require.NoError(t, err)

	return fixture{
		stories: repositories.NewStoryRepository(db, logger),
		users:   repositories.NewUserRepository(db, logger),
		userID:  userID,
	}
}

func TestGenerator_Generate(t *testing.T) {
	ctx := context.Background()
	logger := testhelpers.NewLogger(io.Discard)

	t.Run("persists and returns a valid case", func(t *testing.T) {
		f := newFixture(t)
		client := &scriptedClient{responses: []string{validCase}}
		generator := story.NewGenerator(client, f.stories, f.users, logger)

		got, err := generator.Generate(ctx, f.userID)
		require.NoError(t, err)
		assert.NotEmpty(t, got.ID)
		assert.Len(t, got.Suspects, 4)
		assert.True(t, got.HasSuspect(got.Culprit))

		persisted, err := f.stories.Get(ctx, got.ID)
		require.NoError(t, err)
		assert.Equal(t, got, persisted)
		assert.Equal(t, 1, client.calls)
	})

	t.Run("retries once on malformed output", func(t *testing.T) {
		f := newFixture(t)
		client := &scriptedClient{responses: []string{"Sure! Here is your mystery:", validCase}}
		generator := story.NewGenerator(client, f.stories, f.users, logger)

		got, err := generator.Generate(ctx, f.userID)
		require.NoError(t, err)
		assert.Equal(t, "Lena Hartman", got.Culprit)
		assert.Equal(t, 2, client.calls)
	})

	t.Run("gives up after the second failure and persists nothing", func(t *testing.T) {
		f := newFixture(t)
		client := &scriptedClient{responses: []string{"not json"}}
		generator := story.NewGenerator(client, f.stories, f.users, logger)

		_, err := generator.Generate(ctx, f.userID)
		require.Error(t, err)
		assert.Equal(t, 2, client.calls)

		count, err := f.stories.Count(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 0, count)
	})

	t.Run("rejects a culprit that is not a suspect", func(t *testing.T) {
		f := newFixture(t)
		badCase := `{
  "setting": "s", "description": "d", "victim": "v",
  "suspects": {"A B": "", "C D": "", "E F": "", "G H": ""},
  "clues": ["c"], "red_herrings": ["r"],
  "culprit": "X Y", "explanation": "e"
}`
		client := &scriptedClient{responses: []string{badCase}}
		generator := story.NewGenerator(client, f.stories, f.users, logger)

		_, err := generator.Generate(ctx, f.userID)
		require.Error(t, err)

		count, err := f.stories.Count(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 0, count)
	})

	t.Run("unknown user returns ErrNoRecord", func(t *testing.T) {
		f := newFixture(t)
		client := &scriptedClient{responses: []string{validCase}}
		generator := story.NewGenerator(client, f.stories, f.users, logger)

		_, err := generator.Generate(ctx, []byte("no-such-user"))
		assert.ErrorIs(t, err, repositories.ErrNoRecord)
		assert.Equal(t, 0, client.calls)
	})

	t.Run("stub client output passes validation", func(t *testing.T) {
		f := newFixture(t)
		generator := story.NewGenerator(ai.NewStubClient(), f.stories, f.users, logger)

		got, err := generator.Generate(ctx, f.userID)
		require.NoError(t, err)
		assert.Equal(t, ai.StubCulprit, got.Culprit)
	})
}
