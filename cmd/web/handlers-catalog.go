package main

import (
	"github.com/gizahealth/inspector/internal/contexthelpers"
	"github.com/gizahealth/inspector/internal/models"
	"net/http"
)

type questionView struct {
	ID                          models.QuestionID `json:"id"`
	Text                        string            `json:"text"`
	RequiresPhotoIfNonCompliant bool              `json:"requiresPhotoIfNonCompliant"`
}

type categoryView struct {
	ID        models.CategoryID `json:"id"`
	Title     string            `json:"title"`
	Questions []questionView    `json:"questions"`
}

type statusView struct {
	Status models.ComplianceStatus `json:"status"`
	Label  string                  `json:"label"`
}

type catalogResponse struct {
	Language   models.Language `json:"language"`
	Categories []categoryView  `json:"categories"`
	Statuses   []statusView    `json:"statuses"`
}

func (app *application) getCatalog(w http.ResponseWriter, r *http.Request) {
	lang := contexthelpers.Language(r.Context())
	categories := app.catalog.Categories()
	response := catalogResponse{
		Language:   lang,
		Categories: make([]categoryView, 0, len(categories)),
		Statuses:   make([]statusView, 0, len(models.ComplianceStatuses)),
	}
	for _, category := range categories {
		view := categoryView{
			ID:        category.ID,
			Title:     category.Title.In(lang),
			Questions: make([]questionView, 0, len(category.Questions)),
		}
		for _, q := range category.Questions {
			view.Questions = append(view.Questions, questionView{
				ID:                          q.ID,
				Text:                        q.Text.In(lang),
				RequiresPhotoIfNonCompliant: q.RequiresPhotoIfNonCompliant,
			})
		}
		response.Categories = append(response.Categories, view)
	}
	for _, status := range models.ComplianceStatuses {
		response.Statuses = append(response.Statuses, statusView{Status: status, Label: status.Label(lang)})
	}
	app.writeJSON(w, r, http.StatusOK, response)
}
