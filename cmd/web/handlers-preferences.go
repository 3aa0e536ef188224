package main

import (
	"github.com/gizahealth/inspector/internal/contexthelpers"
	"github.com/gizahealth/inspector/internal/errors"
	"github.com/gizahealth/inspector/internal/models"
	"log/slog"
	"net/http"
)

func (app *application) listInspectors(w http.ResponseWriter, r *http.Request) {
	inspectors, err := app.store.ListInspectors(r.Context())
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "list inspectors"))
		return
	}
	app.writeJSON(w, r, http.StatusOK, inspectors)
}

type preferencesResponse struct {
	Language  models.Language  `json:"language"`
	Inspector models.Inspector `json:"inspector"`
}

func (app *application) writePreferences(w http.ResponseWriter, r *http.Request, lang models.Language, inspectorID string) {
	inspector, err := app.store.GetInspector(r.Context(), inspectorID)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, preferencesResponse{Language: lang, Inspector: inspector})
}

func (app *application) getPreferences(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	app.writePreferences(w, r, contexthelpers.Language(ctx), contexthelpers.InspectorID(ctx))
}

type preferencesRequest struct {
	Language    *string `json:"language"`
	InspectorID *string `json:"inspectorId"`
}

// putPreferences switches the client's language and acting inspector for subsequent requests.
func (app *application) putPreferences(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req preferencesRequest
	if err := readJSON(w, r, &req); err != nil {
		app.handleError(w, r, err)
		return
	}

	lang := contexthelpers.Language(ctx)
	if req.Language != nil {
		var ok bool
		if lang, ok = models.ParseLanguage(*req.Language); !ok {
			app.handleError(w, r, errors.Wrap(errBadRequest, "unsupported language", slog.String("language", *req.Language)))
			return
		}
	}
	inspectorID := contexthelpers.InspectorID(ctx)
	if req.InspectorID != nil {
		if _, err := app.store.GetInspector(ctx, *req.InspectorID); err != nil {
			app.handleError(w, r, err)
			return
		}
		inspectorID = *req.InspectorID
	}

	if err := app.sessionManager.RenewToken(ctx); err != nil {
		app.serverError(w, r, errors.Wrap(err, "renew session token"))
		return
	}
	app.sessionManager.Put(ctx, languageSessionKey, string(lang))
	app.sessionManager.Put(ctx, inspectorIDSessionKey, inspectorID)
	app.writePreferences(w, r, lang, inspectorID)
}
