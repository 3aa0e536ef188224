package models

import "time"

// InspectionType is the reason for the visit.
type InspectionType string

const (
	InspectionPeriodic  InspectionType = "Periodic Inspection"
	InspectionComplaint InspectionType = "Complaint"
	InspectionClosure   InspectionType = "Closure Execution"
	InspectionCommittee InspectionType = "Committee Visit"
	InspectionSurvey    InspectionType = "Initial Survey/Visit"
)

// InspectionTypes lists the inspection types in the order they are offered.
var InspectionTypes = []InspectionType{
	InspectionPeriodic,
	InspectionComplaint,
	InspectionClosure,
	InspectionCommittee,
	InspectionSurvey,
}

var inspectionTypeLabels = map[InspectionType]Text{
	InspectionPeriodic:  {EN: "Periodic Inspection", AR: "مرور دورى"},
	InspectionComplaint: {EN: "Complaint", AR: "شكوى"},
	InspectionClosure:   {EN: "Closure Execution", AR: "تنفيذ غلق"},
	InspectionCommittee: {EN: "Committee Visit", AR: "لجنة مرور"},
	InspectionSurvey:    {EN: "Initial Survey", AR: "معاينة"},
}

// Valid reports whether t is a known inspection type.
func (t InspectionType) Valid() bool {
	_, ok := inspectionTypeLabels[t]
	return ok
}

// Label returns the translated name of the inspection type.
func (t InspectionType) Label(lang Language) string {
	if label, ok := inspectionTypeLabels[t]; ok {
		return label.In(lang)
	}
	return string(t)
}

// OverallStatus is the review outcome of a submitted report. It is set by a reviewer, never derived from answers.
type OverallStatus string

const (
	OverallPending  OverallStatus = "Pending"
	OverallApproved OverallStatus = "Approved"
	OverallRejected OverallStatus = "Rejected"
)

// Location is a geotag captured on site.
type Location struct {
	Latitude  float64   `json:"latitude" yaml:"latitude"`
	Longitude float64   `json:"longitude" yaml:"longitude"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// Answer is the inspector's response to one question. Note and Photo are empty when absent.
type Answer struct {
	QuestionID QuestionID       `json:"questionId"`
	Status     ComplianceStatus `json:"status"`
	Note       string           `json:"note,omitempty"`
	// Photo is a base64 data URL of the evidence photo.
	Photo string `json:"photo,omitempty"`
}

// InspectionReport is the immutable outcome of a submitted inspection session.
type InspectionReport struct {
	ID             string         `json:"id"`
	FacilityID     string         `json:"facilityId"`
	InspectorID    string         `json:"inspectorId"`
	InspectionType InspectionType `json:"inspectionType"`
	Date           time.Time      `json:"date"`
	// Answers are ordered by the time their question was first answered.
	Answers        []Answer      `json:"answers"`
	OverallStatus  OverallStatus `json:"overallStatus"`
	Location       *Location     `json:"inspectorLocation,omitempty"`
	Summary        string        `json:"aiSummary,omitempty"`
	Recommendation string        `json:"recommendation,omitempty"`
}

// Clone returns a deep copy so that holders of the copy cannot reach the original's slices.
func (r InspectionReport) Clone() InspectionReport {
	clone := r
	clone.Answers = make([]Answer, len(r.Answers))
	copy(clone.Answers, r.Answers)
	if r.Location != nil {
		location := *r.Location
		clone.Location = &location
	}
	return clone
}
