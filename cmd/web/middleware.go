package main

import (
	"fmt"
	"github.com/gizahealth/inspector/internal/contexthelpers"
	"github.com/gizahealth/inspector/internal/logging"
	"github.com/gizahealth/inspector/internal/models"
	"github.com/google/uuid"
	"log/slog"
	"net/http"
)

func secureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		w.Header().Set("Referrer-Policy", "origin-when-cross-origin")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "deny")
		w.Header().Set("Cache-Control", "no-store")

		next.ServeHTTP(w, r)
	})
}

func (app *application) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var (
			proto  = r.Proto
			method = r.Method
			uri    = r.URL.RequestURI()
		)

		ctx := logging.WithAttrs(r.Context(), slog.String("request_id", uuid.NewString()))
		app.logger.LogAttrs(ctx, slog.LevelDebug, "received request",
			slog.String("proto", proto), slog.String("method", method), slog.String("uri", uri))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")
				app.serverError(w, r, fmt.Errorf("%s", err)) //nolint:goerr113 // the panic value is all we know
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// preferences loads the client's language and inspector from the session, falling back to the configured defaults.
func (app *application) preferences(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		lang, ok := models.ParseLanguage(app.sessionManager.GetString(ctx, languageSessionKey))
		if !ok {
			lang = app.defaultLanguage
		}
		inspectorID := app.sessionManager.GetString(ctx, inspectorIDSessionKey)
		if inspectorID == "" {
			inspectorID = app.defaultInspector
		}
		r = contexthelpers.SetPreferences(r, lang, inspectorID)
		r = r.WithContext(logging.WithAttrs(r.Context(), slog.String("inspector_id", inspectorID)))
		next.ServeHTTP(w, r)
	})
}
