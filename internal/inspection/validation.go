package inspection

import "github.com/gizahealth/inspector/internal/models"

// NeedsNote reports whether the inspector should explain the status with a note.
func NeedsNote(status models.ComplianceStatus) bool {
	return status == models.StatusNonCompliant || status == models.StatusPartiallyCompliant
}

// NeedsPhoto reports whether the inspector should attach photo evidence. It is advisory and never blocks
// submission.
func NeedsPhoto(question models.Question, status models.ComplianceStatus) bool {
	switch status { //nolint:exhaustive // the remaining statuses never need evidence
	case models.StatusNonCompliant:
		return true
	case models.StatusPartiallyCompliant:
		return question.RequiresPhotoIfNonCompliant
	default:
		return false
	}
}

// WarningKind names the evidence a warning asks for.
type WarningKind string

const (
	MissingNote  WarningKind = "note"
	MissingPhoto WarningKind = "photo"
)

// Warning is a soft validation finding on one answer.
type Warning struct {
	QuestionID models.QuestionID `json:"questionId"`
	Kind       WarningKind       `json:"kind"`
}
