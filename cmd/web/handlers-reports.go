package main

import (
	"github.com/gizahealth/inspector/internal/aggregate"
	"github.com/gizahealth/inspector/internal/contexthelpers"
	"github.com/gizahealth/inspector/internal/errors"
	"github.com/gizahealth/inspector/internal/models"
	"net/http"
)

type reportView struct {
	models.InspectionReport
	FacilityName   string                  `json:"facilityName"`
	Classification models.ComplianceStatus `json:"classification"`
	// ClassificationLabel and InspectionTypeLabel are translated to the client's language.
	ClassificationLabel string `json:"classificationLabel"`
	InspectionTypeLabel string `json:"inspectionTypeLabel"`
}

func (app *application) newReportView(report models.InspectionReport, facility models.Facility, lang models.Language) reportView {
	classification := aggregate.Classify(report)
	return reportView{
		InspectionReport:    report,
		FacilityName:        facility.Name.In(lang),
		Classification:      classification,
		ClassificationLabel: classification.Label(lang),
		InspectionTypeLabel: report.InspectionType.Label(lang),
	}
}

// listReports lists the submitted reports newest first, optionally filtered by ?facility=.
func (app *application) listReports(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reports, err := app.store.ListInspections(ctx)
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "list inspections"))
		return
	}
	facilities, err := app.store.ListFacilities(ctx)
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "list facilities"))
		return
	}
	byID := make(map[string]models.Facility, len(facilities))
	for _, f := range facilities {
		byID[f.ID] = f
	}

	lang := contexthelpers.Language(ctx)
	filter := r.URL.Query().Get("facility")
	views := []reportView{}
	for _, report := range reports {
		if filter != "" && report.FacilityID != filter {
			continue
		}
		views = append(views, app.newReportView(report, byID[report.FacilityID], lang))
	}
	app.writeJSON(w, r, http.StatusOK, views)
}

func (app *application) getDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	facilities, err := app.store.ListFacilities(ctx)
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "list facilities"))
		return
	}
	reports, err := app.store.ListInspections(ctx)
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "list inspections"))
		return
	}
	app.writeJSON(w, r, http.StatusOK, aggregate.Dashboard(facilities, reports))
}
