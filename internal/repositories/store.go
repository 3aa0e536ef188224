// Package repositories stores facilities, inspectors and submitted inspection reports.
//
// Facilities and reports are listed newest first.
package repositories

import (
	"context"
	"github.com/gizahealth/inspector/internal/errors"
	"github.com/gizahealth/inspector/internal/models"
)

var (
	ErrNotFound  = errors.NewSentinel("not found")
	ErrDuplicate = errors.NewSentinel("duplicate id")
)

// Store is the storage collaborator shared by the HTTP service and the CLI.
type Store interface {
	AddFacility(ctx context.Context, facility models.Facility) error
	ListFacilities(ctx context.Context) ([]models.Facility, error)
	GetFacility(ctx context.Context, id string) (models.Facility, error)
	AddInspection(ctx context.Context, report models.InspectionReport) error
	ListInspections(ctx context.Context) ([]models.InspectionReport, error)
	ListInspectors(ctx context.Context) ([]models.Inspector, error)
	GetInspector(ctx context.Context, id string) (models.Inspector, error)
}

func cloneFacility(f models.Facility) models.Facility {
	f.Specialties = append([]string{}, f.Specialties...)
	if f.Location != nil {
		location := *f.Location
		f.Location = &location
	}
	return f
}
