// Package aggregate derives compliance statistics from submitted reports.
//
// Every function recomputes from its input; nothing is cached.
package aggregate

import "github.com/gizahealth/inspector/internal/models"

// Classify returns the worst status among the report's answers. NotApplicable answers never affect the
// classification, and a report without answers is Compliant.
func Classify(report models.InspectionReport) models.ComplianceStatus {
	worst := models.StatusCompliant
	for _, answer := range report.Answers {
		if answer.Status == models.StatusNonCompliant {
			return models.StatusNonCompliant
		}
		if answer.Status.Severity() > worst.Severity() {
			worst = answer.Status
		}
	}
	return worst
}

// Counts holds the number of reports per classification.
type Counts struct {
	Compliant          int `json:"compliant"`
	PartiallyCompliant int `json:"partiallyCompliant"`
	NonCompliant       int `json:"nonCompliant"`
}

// Get returns the count for status. Statuses that are never a classification count zero.
func (c Counts) Get(status models.ComplianceStatus) int {
	switch status {
	case models.StatusCompliant:
		return c.Compliant
	case models.StatusPartiallyCompliant:
		return c.PartiallyCompliant
	case models.StatusNonCompliant:
		return c.NonCompliant
	case models.StatusNotApplicable:
		return 0
	default:
		return 0
	}
}

// Total is the number of classified reports.
func (c Counts) Total() int {
	return c.Compliant + c.PartiallyCompliant + c.NonCompliant
}

// Summarize classifies every report and counts the classifications.
func Summarize(reports []models.InspectionReport) Counts {
	var counts Counts
	for _, report := range reports {
		switch Classify(report) { //nolint:exhaustive // Classify never returns NotApplicable
		case models.StatusNonCompliant:
			counts.NonCompliant++
		case models.StatusPartiallyCompliant:
			counts.PartiallyCompliant++
		default:
			counts.Compliant++
		}
	}
	return counts
}

// TypeCount is the number of facilities of one type.
type TypeCount struct {
	Type  models.FacilityType `json:"type"`
	Count int                 `json:"count"`
}

// CountByType counts facilities per type. All types are present in declaration order, including those with zero
// facilities.
func CountByType(facilities []models.Facility) []TypeCount {
	counts := make(map[models.FacilityType]int, len(models.FacilityTypes))
	for _, facility := range facilities {
		counts[facility.Type]++
	}
	result := make([]TypeCount, len(models.FacilityTypes))
	for i, facilityType := range models.FacilityTypes {
		result[i] = TypeCount{Type: facilityType, Count: counts[facilityType]}
	}
	return result
}

// Overview is the dashboard's headline figures.
type Overview struct {
	Facilities  int         `json:"facilities"`
	Inspections int         `json:"inspections"`
	Compliance  Counts      `json:"compliance"`
	ByType      []TypeCount `json:"byType"`
}

// Dashboard computes the dashboard overview from the current collections.
func Dashboard(facilities []models.Facility, reports []models.InspectionReport) Overview {
	return Overview{
		Facilities:  len(facilities),
		Inspections: len(reports),
		Compliance:  Summarize(reports),
		ByType:      CountByType(facilities),
	}
}
