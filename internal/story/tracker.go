package story

import (
	"context"
	"github.com/myrjola/cluequest/internal/errors"
	"github.com/myrjola/cluequest/internal/repositories"
	"log/slog"
	"strings"
)

// Tracker verifies accusations and records solved cases.
//
// The check happens server-side against the persisted culprit so that the client
// cannot claim a solve it didn't earn.
type Tracker struct {
	stories *repositories.StoryRepository
	users   *repositories.UserRepository
	logger  *slog.Logger
}

func NewTracker(
	stories *repositories.StoryRepository,
	users *repositories.UserRepository,
	logger *slog.Logger,
) *Tracker {
	return &Tracker{
		stories: stories,
		users:   users,
		logger:  logger.With("source", "Tracker"),
	}
}

type SolveResult struct {
	Correct  bool
	Progress int64
}

// RecordSolve checks the accused suspect against the story's culprit and increments
// the user's progress when the accusation is correct. For a wrong accusation it
// returns the unchanged progress and mutates nothing.
//
// Returns [repositories.ErrNoRecord] when the user or the story does not exist.
func (t *Tracker) RecordSolve(
	ctx context.Context,
	userID []byte,
	storyID string,
	suspect string,
) (SolveResult, error) {
	user, err := t.users.Get(ctx, userID)
	if err != nil {
		return SolveResult{}, errors.Wrap(err, "resolve user")
	}
	solved, err := t.stories.Get(ctx, storyID)
	if err != nil {
		return SolveResult{}, errors.Wrap(err, "resolve story")
	}

	if !strings.EqualFold(strings.TrimSpace(suspect), strings.TrimSpace(solved.Culprit)) {
		return SolveResult{Correct: false, Progress: user.Progress}, nil
	}

	progress, err := t.users.IncrementProgress(ctx, userID)
	if err != nil {
		return SolveResult{}, errors.Wrap(err, "increment progress")
	}
	t.logger.LogAttrs(ctx, slog.LevelInfo, "case solved",
		slog.String("story_id", storyID), slog.Int64("progress", progress))
	return SolveResult{Correct: true, Progress: progress}, nil
}
