package main

import (
	"github.com/myrjola/cluequest/internal/contexthelpers"
	"github.com/myrjola/cluequest/internal/errors"
	"github.com/myrjola/cluequest/internal/repositories"
	"log/slog"
	"net/http"
	"strings"
)

type progressRequest struct {
	StoryID string `json:"storyId"`
	Suspect string `json:"suspect"`
}

type progressResponse struct {
	Message  string `json:"message"`
	Correct  bool   `json:"correct"`
	Progress int64  `json:"progress"`
}

// recordProgress is the JSON API for making an accusation. The accusation is checked
// against the persisted case, the client is never trusted to report a solve.
func (app *application) recordProgress(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !contexthelpers.IsAuthenticated(ctx) {
		app.writeJSON(w, r, http.StatusUnauthorized, apiMessage{Message: "Unauthorized"})
		return
	}
	userID := contexthelpers.AuthenticatedUserID(ctx)

	var req progressRequest
	if err := readJSON(r, &req); err != nil {
		app.writeJSON(w, r, http.StatusBadRequest, apiMessage{Message: "Invalid request body"})
		return
	}
	if strings.TrimSpace(req.StoryID) == "" || strings.TrimSpace(req.Suspect) == "" {
		app.writeJSON(w, r, http.StatusBadRequest, apiMessage{Message: "Invalid request body"})
		return
	}

	result, err := app.tracker.RecordSolve(ctx, userID, req.StoryID, req.Suspect)
	if err != nil {
		if errors.Is(err, repositories.ErrNoRecord) {
			// Either the user or the story is gone. Tell the client which.
			if exists, existsErr := app.users.Exists(ctx, userID); existsErr == nil && exists {
				app.writeJSON(w, r, http.StatusNotFound, apiMessage{Message: "Story not found"})
				return
			}
			app.writeJSON(w, r, http.StatusNotFound, apiMessage{Message: "User not found"})
			return
		}
		app.logger.LogAttrs(ctx, slog.LevelError, "record progress",
			slog.String("story_id", req.StoryID), errors.SlogError(err))
		app.writeJSON(w, r, http.StatusInternalServerError, apiMessage{Message: "Failed to update progress"})
		return
	}

	message := "Wrong guess! Try again."
	if result.Correct {
		message = "Progress updated successfully"
	}
	app.writeJSON(w, r, http.StatusOK, progressResponse{
		Message:  message,
		Correct:  result.Correct,
		Progress: result.Progress,
	})
}
