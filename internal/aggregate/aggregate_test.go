package aggregate_test

import (
	"github.com/gizahealth/inspector/internal/aggregate"
	"github.com/gizahealth/inspector/internal/models"
	"github.com/stretchr/testify/require"
	"strconv"
	"testing"
)

func report(statuses ...models.ComplianceStatus) models.InspectionReport {
	answers := make([]models.Answer, len(statuses))
	for i, status := range statuses {
		answers[i] = models.Answer{QuestionID: models.QuestionID("q" + strconv.Itoa(i)), Status: status, Note: "", Photo: ""}
	}
	return models.InspectionReport{Answers: answers, OverallStatus: models.OverallPending} //nolint:exhaustruct // test
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		statuses []models.ComplianceStatus
		want     models.ComplianceStatus
	}{
		{name: "no answers", statuses: nil, want: models.StatusCompliant},
		{name: "all compliant", statuses: []models.ComplianceStatus{models.StatusCompliant, models.StatusCompliant},
			want: models.StatusCompliant},
		{name: "only not applicable", statuses: []models.ComplianceStatus{models.StatusNotApplicable},
			want: models.StatusCompliant},
		{name: "partial wins over compliant",
			statuses: []models.ComplianceStatus{models.StatusCompliant, models.StatusPartiallyCompliant,
				models.StatusNotApplicable},
			want: models.StatusPartiallyCompliant},
		{name: "non-compliant first",
			statuses: []models.ComplianceStatus{models.StatusNonCompliant, models.StatusPartiallyCompliant},
			want:     models.StatusNonCompliant},
		{name: "non-compliant last",
			statuses: []models.ComplianceStatus{models.StatusPartiallyCompliant, models.StatusCompliant,
				models.StatusNonCompliant},
			want: models.StatusNonCompliant},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, aggregate.Classify(report(tt.statuses...)))
		})
	}
}

func TestClassify_OrderIndependent(t *testing.T) {
	statuses := []models.ComplianceStatus{
		models.StatusCompliant, models.StatusNotApplicable, models.StatusPartiallyCompliant, models.StatusNonCompliant,
	}
	// Every rotation of the same answers classifies the same.
	for shift := range statuses {
		rotated := append(append([]models.ComplianceStatus{}, statuses[shift:]...), statuses[:shift]...)
		require.Equal(t, models.StatusNonCompliant, aggregate.Classify(report(rotated...)))
	}
}

func TestSummarize(t *testing.T) {
	reports := []models.InspectionReport{
		report(models.StatusCompliant, models.StatusNonCompliant),
		report(models.StatusCompliant),
		report(models.StatusPartiallyCompliant, models.StatusNotApplicable),
	}
	counts := aggregate.Summarize(reports)
	require.Equal(t, aggregate.Counts{Compliant: 1, PartiallyCompliant: 1, NonCompliant: 1}, counts)
	require.Equal(t, 0, counts.Get(models.StatusNotApplicable))
	require.Equal(t, 3, counts.Total())

	require.Equal(t, aggregate.Counts{}, aggregate.Summarize(nil)) //nolint:exhaustruct // zero value
}

func TestCountByType(t *testing.T) {
	facilities := []models.Facility{
		{Type: models.FacilityLab},             //nolint:exhaustruct // only type matters
		{Type: models.FacilityLab},             //nolint:exhaustruct // only type matters
		{Type: models.FacilityPrivateHospital}, //nolint:exhaustruct // only type matters
	}
	counts := aggregate.CountByType(facilities)
	require.Len(t, counts, 12)
	require.Equal(t, models.FacilityPrivateClinic, counts[0].Type)

	byType := map[models.FacilityType]int{}
	for _, c := range counts {
		byType[c.Type] = c.Count
	}
	require.Equal(t, 2, byType[models.FacilityLab])
	require.Equal(t, 1, byType[models.FacilityPrivateHospital])
	require.Equal(t, 0, byType[models.FacilityBloodBank])
}

func TestDashboard(t *testing.T) {
	overview := aggregate.Dashboard(
		[]models.Facility{{Type: models.FacilityOther}}, //nolint:exhaustruct // only type matters
		[]models.InspectionReport{report(models.StatusNonCompliant)},
	)
	require.Equal(t, 1, overview.Facilities)
	require.Equal(t, 1, overview.Inspections)
	require.Equal(t, 1, overview.Compliance.NonCompliant)
}
