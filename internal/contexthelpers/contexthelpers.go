// Package contexthelpers carries per-client preferences through the request context.
package contexthelpers

import (
	"context"
	"github.com/gizahealth/inspector/internal/models"
	"net/http"
)

type contextKey string

const (
	languageContextKey    = contextKey("language")
	inspectorIDContextKey = contextKey("inspectorID")
)

// Language returns the client's language, English when none was set.
func Language(ctx context.Context) models.Language {
	lang, ok := ctx.Value(languageContextKey).(models.Language)
	if !ok {
		return models.LanguageEnglish
	}
	return lang
}

func InspectorID(ctx context.Context) string {
	id, ok := ctx.Value(inspectorIDContextKey).(string)
	if !ok {
		return ""
	}
	return id
}

// SetPreferences stores the client's language and current inspector in the request context.
func SetPreferences(r *http.Request, lang models.Language, inspectorID string) *http.Request {
	ctx := r.Context()
	ctx = context.WithValue(ctx, languageContextKey, lang)
	ctx = context.WithValue(ctx, inspectorIDContextKey, inspectorID)
	return r.WithContext(ctx)
}
