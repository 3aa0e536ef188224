package models

import (
	"github.com/gizahealth/inspector/internal/errors"
	"log/slog"
)

var ErrInvalidStatus = errors.NewSentinel("invalid compliance status")

// ComplianceStatus is the inspector's verdict on a single checklist question.
type ComplianceStatus string

const (
	StatusCompliant          ComplianceStatus = "Compliant"
	StatusPartiallyCompliant ComplianceStatus = "Partially Compliant"
	StatusNonCompliant       ComplianceStatus = "Non-Compliant"
	StatusNotApplicable      ComplianceStatus = "Not Applicable"
)

// ComplianceStatuses lists the statuses in the order they are offered to the inspector.
var ComplianceStatuses = []ComplianceStatus{
	StatusCompliant,
	StatusPartiallyCompliant,
	StatusNonCompliant,
	StatusNotApplicable,
}

var statusLabels = map[ComplianceStatus]Text{
	StatusCompliant:          {EN: "Compliant", AR: "مطابق"},
	StatusPartiallyCompliant: {EN: "Partial", AR: "مطابق جزئياً"},
	StatusNonCompliant:       {EN: "Non-Compliant", AR: "غير مطابق"},
	StatusNotApplicable:      {EN: "N/A", AR: "لا ينطبق"},
}

// ParseComplianceStatus validates s against the known statuses.
func ParseComplianceStatus(s string) (ComplianceStatus, error) {
	status := ComplianceStatus(s)
	if !status.Valid() {
		return "", errors.Wrap(ErrInvalidStatus, "parse compliance status", slog.String("status", s))
	}
	return status, nil
}

// Valid reports whether s is one of the four known statuses.
func (s ComplianceStatus) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Severity orders statuses for classification. NotApplicable weighs the same as Compliant.
func (s ComplianceStatus) Severity() int {
	switch s {
	case StatusNonCompliant:
		return 2 //nolint:mnd // worst
	case StatusPartiallyCompliant:
		return 1
	case StatusCompliant, StatusNotApplicable:
		return 0
	default:
		return 0
	}
}

// Label is the short button label shown for the status.
func (s ComplianceStatus) Label(lang Language) string {
	if label, ok := statusLabels[s]; ok {
		return label.In(lang)
	}
	return string(s)
}
