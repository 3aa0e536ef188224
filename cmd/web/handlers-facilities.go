package main

import (
	"github.com/gizahealth/inspector/internal/contexthelpers"
	"github.com/gizahealth/inspector/internal/errors"
	"github.com/gizahealth/inspector/internal/models"
	"github.com/google/uuid"
	"log/slog"
	"net/http"
)

type facilityView struct {
	models.Facility
	TypeLabel    string `json:"typeLabel"`
	LicenseLabel string `json:"licenseLabel"`
}

func newFacilityView(f models.Facility, lang models.Language) facilityView {
	return facilityView{
		Facility:     f,
		TypeLabel:    f.Type.Label(lang),
		LicenseLabel: f.LicenseLabel(lang),
	}
}

// listFacilities lists the facilities matching the optional search term q.
func (app *application) listFacilities(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	facilities, err := app.store.ListFacilities(ctx)
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "list facilities"))
		return
	}
	lang := contexthelpers.Language(ctx)
	term := r.URL.Query().Get("q")
	views := []facilityView{}
	for _, f := range facilities {
		if f.Matches(term) {
			views = append(views, newFacilityView(f, lang))
		}
	}
	app.writeJSON(w, r, http.StatusOK, views)
}

func (app *application) getFacility(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	facility, err := app.store.GetFacility(ctx, r.PathValue("facilityID"))
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, newFacilityView(facility, contexthelpers.Language(ctx)))
}

func (app *application) addFacility(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var draft models.FacilityDraft
	if err := readJSON(w, r, &draft); err != nil {
		app.handleError(w, r, err)
		return
	}
	facility, err := draft.Facility(uuid.NewString())
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	if err = app.store.AddFacility(ctx, facility); err != nil {
		app.handleError(w, r, errors.Wrap(err, "add facility"))
		return
	}
	app.metrics.FacilityAdded()
	app.logger.LogAttrs(ctx, slog.LevelInfo, "facility added",
		slog.String("facility_id", facility.ID), slog.String("type", string(facility.Type)))
	app.writeJSON(w, r, http.StatusCreated, newFacilityView(facility, contexthelpers.Language(ctx)))
}
