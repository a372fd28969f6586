package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"github.com/google/uuid"
	"github.com/myrjola/cluequest/internal/errors"
	"github.com/myrjola/cluequest/internal/models"
	"github.com/myrjola/cluequest/internal/sqlite"
	"log/slog"
)

type StoryRepository struct {
	dbs    *sqlite.Database
	logger *slog.Logger
}

func NewStoryRepository(dbs *sqlite.Database, logger *slog.Logger) *StoryRepository {
	return &StoryRepository{
		dbs:    dbs,
		logger: logger.With("source", "StoryRepository"),
	}
}

// storyRow is the database shape of a story. The suspect map and clue lists are
// stored as JSON text columns.
type storyRow struct {
	ID          string `db:"id"`
	Setting     string `db:"setting"`
	Description string `db:"description"`
	Victim      string `db:"victim"`
	Suspects    string `db:"suspects"`
	Clues       string `db:"clues"`
	RedHerrings string `db:"red_herrings"`
	Culprit     string `db:"culprit"`
	Explanation string `db:"explanation"`
}

// Insert persists the story. A missing ID is assigned before the write so that the
// caller always gets back a story with its identifier set.
func (r *StoryRepository) Insert(ctx context.Context, story *models.Story) error {
	if story.ID == "" {
		story.ID = uuid.NewString()
	}

	suspects, err := json.Marshal(story.Suspects)
	if err != nil {
		return errors.Wrap(err, "JSON encode suspects")
	}
	clues, err := json.Marshal(story.Clues)
	if err != nil {
		return errors.Wrap(err, "JSON encode clues")
	}
	redHerrings, err := json.Marshal(story.RedHerrings)
	if err != nil {
		return errors.Wrap(err, "JSON encode red herrings")
	}

	stmt := `INSERT INTO stories (id, setting, description, victim, suspects, clues, red_herrings, culprit, explanation)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err = r.dbs.ReadWrite.ExecContext(ctx, stmt,
		story.ID,
		story.Setting,
		story.Description,
		story.Victim,
		string(suspects),
		string(clues),
		string(redHerrings),
		story.Culprit,
		story.Explanation,
	); err != nil {
		return errors.Wrap(err, "insert story", slog.String("story_id", story.ID))
	}
	return nil
}

func (r *StoryRepository) Get(ctx context.Context, id string) (*models.Story, error) {
	var row storyRow
	stmt := `SELECT id, setting, description, victim, suspects, clues, red_herrings, culprit, explanation
FROM stories WHERE id = ?`
	if err := r.dbs.ReadOnly.GetContext(ctx, &row, stmt, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrap(ErrNoRecord, "get story", slog.String("story_id", id))
		}
		return nil, errors.Wrap(err, "get story")
	}

	story := models.Story{
		ID:          row.ID,
		Setting:     row.Setting,
		Description: row.Description,
		Victim:      row.Victim,
		Culprit:     row.Culprit,
		Explanation: row.Explanation,
	}
	if err := json.Unmarshal([]byte(row.Suspects), &story.Suspects); err != nil {
		return nil, errors.Wrap(err, "JSON decode suspects", slog.String("story_id", id))
	}
	if err := json.Unmarshal([]byte(row.Clues), &story.Clues); err != nil {
		return nil, errors.Wrap(err, "JSON decode clues", slog.String("story_id", id))
	}
	if err := json.Unmarshal([]byte(row.RedHerrings), &story.RedHerrings); err != nil {
		return nil, errors.Wrap(err, "JSON decode red herrings", slog.String("story_id", id))
	}
	return &story, nil
}

// Count returns the number of persisted stories. Used by tests to assert that failed
// generations leave no rows behind.
func (r *StoryRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.dbs.ReadOnly.GetContext(ctx, &count, `SELECT COUNT(*) FROM stories`); err != nil {
		return 0, errors.Wrap(err, "count stories")
	}
	return count, nil
}
