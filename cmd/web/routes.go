package main

import (
	"github.com/justinas/alice"
	"net/http"
	"time"
)

// summaryWaitTimeout bounds how long POST .../summary?wait=1 blocks.
const summaryWaitTimeout = 45 * time.Second

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()

	session := alice.New(app.sessionManager.LoadAndSave, app.preferences)

	mux.HandleFunc("GET /api/healthy", app.healthy)
	mux.Handle("GET /metrics", app.metrics.Handler())

	mux.Handle("GET /api/catalog", session.ThenFunc(app.getCatalog))

	mux.Handle("GET /api/facilities", session.ThenFunc(app.listFacilities))
	mux.Handle("POST /api/facilities", session.ThenFunc(app.addFacility))
	mux.Handle("GET /api/facilities/{facilityID}", session.ThenFunc(app.getFacility))
	mux.Handle("POST /api/facilities/{facilityID}/inspections", session.ThenFunc(app.startInspection))

	mux.Handle("GET /api/inspectors", session.ThenFunc(app.listInspectors))
	mux.Handle("GET /api/preferences", session.ThenFunc(app.getPreferences))
	mux.Handle("PUT /api/preferences", session.ThenFunc(app.putPreferences))

	mux.Handle("GET /api/inspections/{sessionID}", session.ThenFunc(app.getInspection))
	mux.Handle("PUT /api/inspections/{sessionID}/answers/{questionID}", session.ThenFunc(app.putAnswer))
	mux.Handle("PUT /api/inspections/{sessionID}/details", session.ThenFunc(app.putDetails))
	mux.Handle("POST /api/inspections/{sessionID}/dictation", session.ThenFunc(app.postDictation))
	mux.Handle("POST /api/inspections/{sessionID}/navigation", session.ThenFunc(app.postNavigation))
	mux.Handle("POST /api/inspections/{sessionID}/location", session.ThenFunc(app.postLocation))
	mux.Handle("POST /api/inspections/{sessionID}/summary", session.ThenFunc(app.postSummary))
	mux.Handle("POST /api/inspections/{sessionID}/submit", session.ThenFunc(app.postSubmit))

	mux.Handle("GET /api/reports", session.ThenFunc(app.listReports))
	mux.Handle("GET /api/dashboard", session.ThenFunc(app.getDashboard))

	mux.Handle("/", http.HandlerFunc(app.notFound))

	common := alice.New(app.recoverPanic, app.logRequest, app.metrics.Instrument, secureHeaders)
	return common.Then(mux)
}
