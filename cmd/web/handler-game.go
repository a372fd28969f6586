package main

import (
	"github.com/myrjola/cluequest/internal/contexthelpers"
	"github.com/myrjola/cluequest/internal/errors"
	"github.com/myrjola/cluequest/internal/models"
	"github.com/myrjola/cluequest/internal/repositories"
	"log/slog"
	"net/http"
	"strconv"
)

// Game stages. A player without an active case is at the start stage. The other
// stages navigate within the active case.
const (
	stageStart     = "start"
	stageClueHunt  = "clue_hunt"
	stageInterview = "interview"
	stageGuess     = "guess"
)

func validStage(stage string) bool {
	switch stage {
	case stageClueHunt, stageInterview, stageGuess:
		return true
	}
	return false
}

type gameTemplateData struct {
	BaseTemplateData

	Stage           string
	Level           int64
	Notice          string
	Story           *models.Story
	Suspects        []string
	Clues           []string
	SelectedClue    int
	SelectedSuspect string
}

// game renders the game view for the current session state.
func (app *application) game(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := contexthelpers.AuthenticatedUserID(ctx)

	user, err := app.users.Get(ctx, userID)
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "resolve user"))
		return
	}

	data := gameTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		Stage:            stageStart,
		Level:            user.Level(),
		Notice:           app.sessionManager.PopString(ctx, string(gameNoticeSessionKey)),
		SelectedClue:     -1,
	}

	storyID := app.sessionManager.GetString(ctx, string(activeStorySessionKey))
	if storyID != "" {
		var active *models.Story
		if active, err = app.stories.Get(ctx, storyID); err != nil {
			// A stale session may point at a story that no longer exists. Fall back
			// to the start stage instead of failing the page.
			if !errors.Is(err, repositories.ErrNoRecord) {
				app.serverError(w, r, errors.Wrap(err, "resolve active story"))
				return
			}
			app.clearGameSession(r)
		} else {
			data.Story = active
			data.Suspects = active.SuspectNames()
			data.Clues = active.AllClues()
			data.Stage = app.sessionManager.GetString(ctx, string(gameStageSessionKey))
			if !validStage(data.Stage) {
				data.Stage = stageClueHunt
			}
			data.SelectedClue = app.sessionManager.GetInt(ctx, string(selectedClueSessionKey)) - 1
			data.SelectedSuspect = app.sessionManager.GetString(ctx, string(selectedSuspectSessionKey))
		}
	}

	app.render(w, r, http.StatusOK, "game", data)
}

// gameStart generates a fresh case and enters the clue hunt.
func (app *application) gameStart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := contexthelpers.AuthenticatedUserID(ctx)

	generated, err := app.generator.Generate(ctx, userID)
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "generate case"))
		return
	}

	// A new case supersedes whatever case was in progress.
	app.clearGameSession(r)
	app.sessionManager.Put(ctx, string(activeStorySessionKey), generated.ID)
	app.sessionManager.Put(ctx, string(gameStageSessionKey), stageClueHunt)

	app.refreshGame(w, r)
}

// gameStage switches between the clue hunt, interviews, and the final guess.
func (app *application) gameStage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stage := r.PostFormValue("stage")
	if !validStage(stage) {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}
	if app.sessionManager.GetString(ctx, string(activeStorySessionKey)) == "" {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}
	app.sessionManager.Put(ctx, string(gameStageSessionKey), stage)

	app.refreshGame(w, r)
}

// gameClue examines one clue from the list. The index is 1-based in the session so
// that the zero value means no selection.
func (app *application) gameClue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	index, err := strconv.Atoi(r.PostFormValue("clue"))
	if err != nil || index < 0 {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}
	story, ok := app.activeStory(w, r)
	if !ok {
		return
	}
	if index >= len(story.AllClues()) {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}
	app.sessionManager.Put(ctx, string(selectedClueSessionKey), index+1)
	app.sessionManager.Put(ctx, string(gameStageSessionKey), stageClueHunt)

	app.refreshGame(w, r)
}

// gameSuspect opens a suspect's interview.
func (app *application) gameSuspect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	suspect := r.PostFormValue("suspect")
	story, ok := app.activeStory(w, r)
	if !ok {
		return
	}
	if !story.HasSuspect(suspect) {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}
	app.sessionManager.Put(ctx, string(selectedSuspectSessionKey), suspect)
	app.sessionManager.Put(ctx, string(gameStageSessionKey), stageInterview)

	app.refreshGame(w, r)
}

// gameAccuse makes the final accusation. A correct accusation closes the case and
// advances the player's level, a wrong one keeps the case open.
func (app *application) gameAccuse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := contexthelpers.AuthenticatedUserID(ctx)
	suspect := r.PostFormValue("suspect")

	active, ok := app.activeStory(w, r)
	if !ok {
		return
	}
	if !active.HasSuspect(suspect) {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}

	result, err := app.tracker.RecordSolve(ctx, userID, active.ID, suspect)
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "record solve", slog.String("story_id", active.ID)))
		return
	}

	if result.Correct {
		app.clearGameSession(r)
		app.sessionManager.Put(ctx, string(gameNoticeSessionKey),
			"Case closed! "+active.Explanation)
	} else {
		app.sessionManager.Put(ctx, string(gameStageSessionKey), stageGuess)
		app.sessionManager.Put(ctx, string(gameNoticeSessionKey), "Wrong guess! Try again.")
	}

	app.refreshGame(w, r)
}

// activeStory resolves the case the session is working on. Responds with an error
// when there is none.
func (app *application) activeStory(w http.ResponseWriter, r *http.Request) (*models.Story, bool) {
	ctx := r.Context()
	storyID := app.sessionManager.GetString(ctx, string(activeStorySessionKey))
	if storyID == "" {
		app.clientError(w, r, http.StatusBadRequest)
		return nil, false
	}
	story, err := app.stories.Get(ctx, storyID)
	if err != nil {
		if errors.Is(err, repositories.ErrNoRecord) {
			app.clearGameSession(r)
			app.clientError(w, r, http.StatusBadRequest)
			return nil, false
		}
		app.serverError(w, r, errors.Wrap(err, "resolve active story"))
		return nil, false
	}
	return story, true
}

func (app *application) clearGameSession(r *http.Request) {
	ctx := r.Context()
	app.sessionManager.Remove(ctx, string(activeStorySessionKey))
	app.sessionManager.Remove(ctx, string(gameStageSessionKey))
	app.sessionManager.Remove(ctx, string(selectedClueSessionKey))
	app.sessionManager.Remove(ctx, string(selectedSuspectSessionKey))
}

// refreshGame re-renders the game view. htmx requests get the page directly, plain
// form posts follow the POST-redirect-GET pattern.
func (app *application) refreshGame(w http.ResponseWriter, r *http.Request) {
	h := app.htmx.NewHandler(w, r)
	if h.IsHxRequest() {
		app.game(w, r)
		return
	}
	http.Redirect(w, r, "/game", http.StatusSeeOther)
}
