package main

import (
	"encoding/json"
	"github.com/myrjola/cluequest/internal/errors"
	"log/slog"
	"net/http"
)

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.logger.LogAttrs(r.Context(), slog.LevelError, "server error",
		slog.String("method", method), slog.String("uri", uri), errors.SlogError(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (app *application) clientError(w http.ResponseWriter, r *http.Request, status int) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.logger.Debug(http.StatusText(status), "method", method, "uri", uri, slog.Any("formdata", r.Form))
	http.Error(w, http.StatusText(status), status)
}

// writeJSON sends a JSON response with the given status. Errors at this point mean
// the response is already underway, so they are only logged.
func (app *application) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	encoded, err := json.Marshal(data)
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "JSON encode response"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err = w.Write(encoded); err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelError, "write response", errors.SlogError(err))
	}
}

// readJSON decodes the request body into dst, rejecting unknown fields.
func readJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return errors.Wrap(err, "JSON decode request")
	}
	return nil
}
