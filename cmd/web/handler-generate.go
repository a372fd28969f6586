package main

import (
	"github.com/myrjola/cluequest/internal/contexthelpers"
	"github.com/myrjola/cluequest/internal/errors"
	"github.com/myrjola/cluequest/internal/repositories"
	"log/slog"
	"net/http"
)

type apiMessage struct {
	Message string `json:"message"`
}

// generateCase is the JSON API for starting a new case. The difficulty scales with
// the authenticated user's progress.
func (app *application) generateCase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !contexthelpers.IsAuthenticated(ctx) {
		app.writeJSON(w, r, http.StatusUnauthorized, apiMessage{Message: "Unauthorized"})
		return
	}
	userID := contexthelpers.AuthenticatedUserID(ctx)

	generated, err := app.generator.Generate(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNoRecord) {
			app.writeJSON(w, r, http.StatusNotFound, apiMessage{Message: "User not found"})
			return
		}
		app.logger.LogAttrs(ctx, slog.LevelError, "generate case", errors.SlogError(err))
		app.writeJSON(w, r, http.StatusInternalServerError, apiMessage{Message: "Failed to generate story"})
		return
	}

	app.writeJSON(w, r, http.StatusOK, generated)
}
