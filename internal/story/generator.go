package story

import (
	"context"
	"encoding/json"
	"github.com/myrjola/cluequest/internal/ai"
	"github.com/myrjola/cluequest/internal/errors"
	"github.com/myrjola/cluequest/internal/models"
	"github.com/myrjola/cluequest/internal/repositories"
	"github.com/sashabaranov/go-openai"
	"log/slog"
	"strings"
)

// Generator produces new cases. It resolves the player's level, prompts the
// completion API, validates the returned JSON as untrusted input, and persists the
// case only after it passes validation so that a failed generation leaves no rows
// behind.
type Generator struct {
	ai      ai.Client
	stories *repositories.StoryRepository
	users   *repositories.UserRepository
	logger  *slog.Logger
}

func NewGenerator(
	aiClient ai.Client,
	stories *repositories.StoryRepository,
	users *repositories.UserRepository,
	logger *slog.Logger,
) *Generator {
	return &Generator{
		ai:      aiClient,
		stories: stories,
		users:   users,
		logger:  logger.With("source", "Generator"),
	}
}

// Generate creates, persists, and returns a new case for the user.
//
// Returns [repositories.ErrNoRecord] when the user has no backing record.
func (g *Generator) Generate(ctx context.Context, userID []byte) (*models.Story, error) {
	user, err := g.users.Get(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "resolve user")
	}

	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleUser,
			Content: Prompt(user.Level()),
		},
	}

	// The model occasionally returns malformed or schema-violating JSON. Retry once
	// with the same prompt before giving up.
	var story *models.Story
	for attempt := 0; ; attempt++ {
		var content string
		if content, err = g.ai.SyncCompletion(ctx, messages); err == nil {
			story, err = parseStory(content)
		}
		if err == nil {
			break
		}
		if attempt >= 1 {
			return nil, errors.Wrap(err, "generate story")
		}
		g.logger.LogAttrs(ctx, slog.LevelWarn, "retrying story generation", errors.SlogError(err))
	}

	if err = g.stories.Insert(ctx, story); err != nil {
		return nil, errors.Wrap(err, "persist story")
	}
	return story, nil
}

// storyPayload is the wire format requested from the completion API. It differs from
// [models.Story] only in the red_herrings key.
type storyPayload struct {
	Setting     string            `json:"setting"`
	Description string            `json:"description"`
	Victim      string            `json:"victim"`
	Suspects    map[string]string `json:"suspects"`
	Clues       []string          `json:"clues"`
	RedHerrings []string          `json:"red_herrings"`
	Culprit     string            `json:"culprit"`
	Explanation string            `json:"explanation"`
}

// parseStory decodes and validates the completion output.
func parseStory(content string) (*models.Story, error) {
	var payload storyPayload
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &payload); err != nil {
		return nil, errors.Wrap(err, "JSON decode story")
	}
	story := models.Story{
		Setting:     payload.Setting,
		Description: payload.Description,
		Victim:      payload.Victim,
		Suspects:    payload.Suspects,
		Clues:       payload.Clues,
		RedHerrings: payload.RedHerrings,
		Culprit:     payload.Culprit,
		Explanation: payload.Explanation,
	}
	if err := validateStory(&story); err != nil {
		return nil, errors.Wrap(err, "validate story")
	}
	return &story, nil
}

// validateStory treats the generator output as untrusted input and checks the case
// invariants before anything is persisted.
func validateStory(story *models.Story) error {
	required := map[string]string{
		"setting":     story.Setting,
		"description": story.Description,
		"victim":      story.Victim,
		"culprit":     story.Culprit,
		"explanation": story.Explanation,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			return errors.New("missing required field", slog.String("field", field))
		}
	}
	if len(story.Suspects) != suspectCount {
		return errors.New("unexpected suspect count", slog.Int("count", len(story.Suspects)))
	}
	if !story.HasSuspect(story.Culprit) {
		return errors.New("culprit is not a suspect", slog.String("culprit", story.Culprit))
	}
	if len(story.Clues) == 0 {
		return errors.New("story has no clues")
	}
	if len(story.RedHerrings) == 0 {
		return errors.New("story has no red herrings")
	}
	return nil
}
