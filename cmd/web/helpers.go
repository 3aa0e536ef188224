package main

import (
	"encoding/json"
	"github.com/gizahealth/inspector/internal/capture"
	"github.com/gizahealth/inspector/internal/catalog"
	"github.com/gizahealth/inspector/internal/errors"
	"github.com/gizahealth/inspector/internal/inspection"
	"github.com/gizahealth/inspector/internal/models"
	"github.com/gizahealth/inspector/internal/repositories"
	"log/slog"
	"net/http"
)

const maxBodyBytes = 16 << 20

var errBadRequest = errors.NewSentinel("bad request")

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.logger.LogAttrs(r.Context(), slog.LevelError, "server error",
		slog.String("method", method), slog.String("uri", uri), errors.SlogError(err))
	app.writeError(w, r, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

func (app *application) clientError(w http.ResponseWriter, r *http.Request, status int, err error) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.logger.LogAttrs(r.Context(), slog.LevelDebug, http.StatusText(status),
		slog.String("method", method), slog.String("uri", uri), errors.SlogError(err))
	app.writeError(w, r, status, err.Error())
}

func (app *application) notFound(w http.ResponseWriter, r *http.Request) {
	app.clientError(w, r, http.StatusNotFound, errors.NewSentinel("no such endpoint"))
}

// handleError responds with the status matching err.
func (app *application) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, repositories.ErrNotFound),
		errors.Is(err, catalog.ErrQuestionNotFound),
		errors.Is(err, catalog.ErrCategoryNotFound),
		errors.Is(err, errSessionNotFound):
		app.clientError(w, r, http.StatusNotFound, err)
	case errors.Is(err, inspection.ErrSubmitted),
		errors.Is(err, repositories.ErrDuplicate):
		app.clientError(w, r, http.StatusConflict, err)
	case errors.Is(err, errBadRequest),
		errors.Is(err, models.ErrInvalidStatus),
		errors.Is(err, models.ErrInvalidFacility),
		errors.Is(err, inspection.ErrInvalidType),
		errors.Is(err, capture.ErrCapture):
		app.clientError(w, r, http.StatusBadRequest, err)
	default:
		app.serverError(w, r, err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (app *application) writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	app.writeJSON(w, r, status, errorResponse{Error: msg})
}

func (app *application) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		err = errors.Wrap(err, "marshal response")
		app.logger.LogAttrs(r.Context(), slog.LevelError, "failed to write response", errors.SlogError(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

// readJSON decodes the request body into v. Unknown fields are rejected.
func readJSON(w http.ResponseWriter, r *http.Request, v any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return errors.Wrap(errBadRequest, "decode request body", slog.String("cause", err.Error()))
	}
	return nil
}
