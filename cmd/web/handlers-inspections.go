package main

import (
	"context"
	"github.com/gizahealth/inspector/internal/aggregate"
	"github.com/gizahealth/inspector/internal/capture"
	"github.com/gizahealth/inspector/internal/contexthelpers"
	"github.com/gizahealth/inspector/internal/errors"
	"github.com/gizahealth/inspector/internal/inspection"
	"github.com/gizahealth/inspector/internal/models"
	"log/slog"
	"net/http"
)

type inspectionResponse struct {
	SessionID string              `json:"sessionId"`
	Snapshot  inspection.Snapshot `json:"snapshot"`
}

// builder looks up the inspection session named in the request path.
func (app *application) builder(r *http.Request) (string, *inspection.Builder, error) {
	id := r.PathValue("sessionID")
	b, err := app.sessions.get(id)
	if err != nil {
		return id, nil, err
	}
	return id, b, nil
}

func (app *application) writeSnapshot(w http.ResponseWriter, r *http.Request, status int, id string, b *inspection.Builder) {
	app.writeJSON(w, r, status, inspectionResponse{SessionID: id, Snapshot: b.Snapshot()})
}

func (app *application) startInspection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	facility, err := app.store.GetFacility(ctx, r.PathValue("facilityID"))
	if err != nil {
		app.handleError(w, r, err)
		return
	}

	b, err := inspection.NewBuilder(inspection.BuilderConfig{
		Catalog:     app.catalog,
		Facility:    facility,
		InspectorID: contexthelpers.InspectorID(ctx),
		Language:    contexthelpers.Language(ctx),
		Summarizer:  app.summarizer,
		Now:         nil,
		NewID:       nil,
		Logger:      app.logger,
	})
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "new builder"))
		return
	}
	id := app.sessions.add(b)
	app.metrics.SessionOpened()
	app.logger.LogAttrs(ctx, slog.LevelInfo, "inspection started",
		slog.String("session_id", id), slog.String("facility_id", facility.ID))
	app.writeSnapshot(w, r, http.StatusCreated, id, b)
}

func (app *application) getInspection(w http.ResponseWriter, r *http.Request) {
	id, b, err := app.builder(r)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeSnapshot(w, r, http.StatusOK, id, b)
}

// answerRequest updates the fields that are present. Status is applied first so that a note or photo sent along
// with it does not default the answer to Compliant.
type answerRequest struct {
	Status *string `json:"status"`
	Note   *string `json:"note"`
	Photo  *string `json:"photo"`
}

func (app *application) putAnswer(w http.ResponseWriter, r *http.Request) {
	id, b, err := app.builder(r)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	var req answerRequest
	if err = readJSON(w, r, &req); err != nil {
		app.handleError(w, r, err)
		return
	}
	questionID := models.QuestionID(r.PathValue("questionID"))

	// Validate everything before touching the builder so a bad photo leaves the answer alone.
	var status models.ComplianceStatus
	if req.Status != nil {
		if status, err = models.ParseComplianceStatus(*req.Status); err != nil {
			app.handleError(w, r, err)
			return
		}
	}
	var photo string
	if req.Photo != nil && *req.Photo != "" {
		if photo, err = capture.DecodePhoto(*req.Photo); err != nil {
			app.handleError(w, r, err)
			return
		}
	}
	if req.Status == nil && req.Note == nil && req.Photo == nil {
		app.handleError(w, r, errors.Wrap(errBadRequest, "empty answer"))
		return
	}

	if req.Status != nil {
		if err = b.RecordAnswer(questionID, status); err != nil {
			app.handleError(w, r, err)
			return
		}
	}
	if req.Note != nil {
		if err = b.RecordNote(questionID, *req.Note); err != nil {
			app.handleError(w, r, err)
			return
		}
	}
	if req.Photo != nil {
		if err = b.RecordPhoto(questionID, photo); err != nil {
			app.handleError(w, r, err)
			return
		}
	}
	app.writeSnapshot(w, r, http.StatusOK, id, b)
}

type detailsRequest struct {
	InspectionType *models.InspectionType `json:"inspectionType"`
	Recommendation *string                `json:"recommendation"`
	Language       *string                `json:"language"`
}

func (app *application) putDetails(w http.ResponseWriter, r *http.Request) {
	id, b, err := app.builder(r)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	var req detailsRequest
	if err = readJSON(w, r, &req); err != nil {
		app.handleError(w, r, err)
		return
	}
	var lang models.Language
	if req.Language != nil {
		var ok bool
		if lang, ok = models.ParseLanguage(*req.Language); !ok {
			app.handleError(w, r, errors.Wrap(errBadRequest, "unsupported language", slog.String("language", *req.Language)))
			return
		}
	}
	if req.InspectionType != nil {
		if err = b.SetInspectionType(*req.InspectionType); err != nil {
			app.handleError(w, r, err)
			return
		}
	}
	if req.Recommendation != nil {
		if err = b.SetRecommendation(*req.Recommendation); err != nil {
			app.handleError(w, r, err)
			return
		}
	}
	if req.Language != nil {
		if err = b.SetLanguage(lang); err != nil {
			app.handleError(w, r, err)
			return
		}
	}
	app.writeSnapshot(w, r, http.StatusOK, id, b)
}

type dictationRequest struct {
	Transcript string `json:"transcript"`
}

// postDictation appends a speech-to-text transcript to the recommendation.
func (app *application) postDictation(w http.ResponseWriter, r *http.Request) {
	id, b, err := app.builder(r)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	var req dictationRequest
	if err = readJSON(w, r, &req); err != nil {
		app.handleError(w, r, err)
		return
	}
	transcript, err := capture.NormalizeTranscript(req.Transcript)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	if err = b.AppendRecommendation(transcript); err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeSnapshot(w, r, http.StatusOK, id, b)
}

type navigationRequest struct {
	Action string `json:"action"`
	Index  int    `json:"index"`
}

func (app *application) postNavigation(w http.ResponseWriter, r *http.Request) {
	id, b, err := app.builder(r)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	var req navigationRequest
	if err = readJSON(w, r, &req); err != nil {
		app.handleError(w, r, err)
		return
	}
	switch req.Action {
	case "next":
		err = b.AdvanceCategory()
	case "previous":
		err = b.RetreatCategory()
	case "goto":
		err = b.GoToCategory(req.Index)
	default:
		err = errors.Wrap(errBadRequest, "unknown navigation action", slog.String("action", req.Action))
	}
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeSnapshot(w, r, http.StatusOK, id, b)
}

type locationRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// postLocation geotags the session with the position measured by the client device.
func (app *application) postLocation(w http.ResponseWriter, r *http.Request) {
	id, b, err := app.builder(r)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	var req locationRequest
	if err = readJSON(w, r, &req); err != nil {
		app.handleError(w, r, err)
		return
	}
	locator := capture.FixedLocator{Latitude: req.Latitude, Longitude: req.Longitude}
	if _, err = b.CaptureLocation(r.Context(), locator); err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeSnapshot(w, r, http.StatusOK, id, b)
}

// postSummary starts a summary request and responds immediately with 202. With ?wait=1 it responds once the
// summary is stored, or with 202 when the request is superseded or takes too long.
func (app *application) postSummary(w http.ResponseWriter, r *http.Request) {
	id, b, err := app.builder(r)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	task, err := b.RequestSummary(r.Context())
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	if r.URL.Query().Get("wait") != "1" {
		app.writeSnapshot(w, r, http.StatusAccepted, id, b)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), summaryWaitTimeout)
	defer cancel()
	switch _, err = task.Wait(ctx); {
	case err == nil:
		app.writeSnapshot(w, r, http.StatusOK, id, b)
	case errors.Is(err, inspection.ErrSuperseded), errors.Is(err, context.DeadlineExceeded):
		app.writeSnapshot(w, r, http.StatusAccepted, id, b)
	default:
		app.handleError(w, r, err)
	}
}

func (app *application) postSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, b, err := app.builder(r)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	report, err := b.Submit(ctx, app.store)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.sessions.remove(id)
	app.metrics.ReportSubmitted(aggregate.Classify(report))
	app.metrics.SessionClosed()
	app.writeJSON(w, r, http.StatusCreated, app.newReportView(report, b.Facility(), contexthelpers.Language(ctx)))
}
