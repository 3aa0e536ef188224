package inspection_test

import (
	"github.com/gizahealth/inspector/internal/inspection"
	"github.com/gizahealth/inspector/internal/models"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestNeedsPhoto(t *testing.T) {
	t.Parallel()
	flagged := models.Question{ID: "a1", RequiresPhotoIfNonCompliant: true}   //nolint:exhaustruct // texts unused
	unflagged := models.Question{ID: "a2", RequiresPhotoIfNonCompliant: false} //nolint:exhaustruct // texts unused

	tests := []struct {
		question models.Question
		status   models.ComplianceStatus
		want     bool
	}{
		{question: flagged, status: models.StatusNonCompliant, want: true},
		{question: unflagged, status: models.StatusNonCompliant, want: true},
		{question: flagged, status: models.StatusPartiallyCompliant, want: true},
		{question: unflagged, status: models.StatusPartiallyCompliant, want: false},
		{question: flagged, status: models.StatusCompliant, want: false},
		{question: flagged, status: models.StatusNotApplicable, want: false},
	}
	for _, tt := range tests {
		t.Run(string(tt.question.ID)+" "+string(tt.status), func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, inspection.NeedsPhoto(tt.question, tt.status))
		})
	}
}

func TestNeedsNote(t *testing.T) {
	t.Parallel()
	require.True(t, inspection.NeedsNote(models.StatusNonCompliant))
	require.True(t, inspection.NeedsNote(models.StatusPartiallyCompliant))
	require.False(t, inspection.NeedsNote(models.StatusCompliant))
	require.False(t, inspection.NeedsNote(models.StatusNotApplicable))
}
