package main

import (
	"github.com/gizahealth/inspector/internal/errors"
	"log/slog"
	"net/http"
)

type healthResponse struct {
	Status     string `json:"status"`
	Categories int    `json:"categories"`
	Questions  int    `json:"questions"`
}

// healthy responds with 200 once the store answers queries.
func (app *application) healthy(w http.ResponseWriter, r *http.Request) {
	if _, err := app.store.ListInspectors(r.Context()); err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelWarn, "store unavailable", errors.SlogError(err))
		app.writeError(w, r, http.StatusServiceUnavailable, "store unavailable")
		return
	}
	app.writeJSON(w, r, http.StatusOK, healthResponse{
		Status:     "ok",
		Categories: app.catalog.Len(),
		Questions:  app.catalog.QuestionCount(),
	})
}
