package repositories

import (
	"context"
	"github.com/gizahealth/inspector/internal/errors"
	"github.com/gizahealth/inspector/internal/models"
	"github.com/gizahealth/inspector/internal/seed"
	"log/slog"
	"sync"
	"sync/atomic"
)

// collections is never modified once published.
type collections struct {
	facilities []models.Facility
	reports    []models.InspectionReport
}

// MemoryStore keeps everything in process memory. Writers publish a new snapshot so readers never wait for them.
type MemoryStore struct {
	writeMu    sync.Mutex
	current    atomic.Pointer[collections]
	inspectors []models.Inspector
}

// NewMemoryStore creates a store holding the seed data.
func NewMemoryStore(data seed.Data) *MemoryStore {
	s := &MemoryStore{ //nolint:exhaustruct // the snapshot is published below
		inspectors: append([]models.Inspector{}, data.Inspectors...),
	}
	facilities := make([]models.Facility, 0, len(data.Facilities))
	for _, f := range data.Facilities {
		facilities = append(facilities, cloneFacility(f))
	}
	s.current.Store(&collections{facilities: facilities, reports: []models.InspectionReport{}})
	return s
}

func (s *MemoryStore) AddFacility(_ context.Context, facility models.Facility) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	old := s.current.Load()
	for _, f := range old.facilities {
		if f.ID == facility.ID {
			return errors.Wrap(ErrDuplicate, "add facility", slog.String("facility_id", facility.ID))
		}
	}
	facilities := make([]models.Facility, 0, len(old.facilities)+1)
	facilities = append(facilities, cloneFacility(facility))
	facilities = append(facilities, old.facilities...)
	s.current.Store(&collections{facilities: facilities, reports: old.reports})
	return nil
}

func (s *MemoryStore) ListFacilities(_ context.Context) ([]models.Facility, error) {
	snapshot := s.current.Load()
	facilities := make([]models.Facility, len(snapshot.facilities))
	for i, f := range snapshot.facilities {
		facilities[i] = cloneFacility(f)
	}
	return facilities, nil
}

func (s *MemoryStore) GetFacility(_ context.Context, id string) (models.Facility, error) {
	for _, f := range s.current.Load().facilities {
		if f.ID == id {
			return cloneFacility(f), nil
		}
	}
	return models.Facility{}, errors.Wrap(ErrNotFound, "get facility", slog.String("facility_id", id))
}

// AddInspection appends a report. The facility must exist.
func (s *MemoryStore) AddInspection(ctx context.Context, report models.InspectionReport) error {
	if _, err := s.GetFacility(ctx, report.FacilityID); err != nil {
		return errors.Wrap(err, "add inspection")
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	old := s.current.Load()
	for _, r := range old.reports {
		if r.ID == report.ID {
			return errors.Wrap(ErrDuplicate, "add inspection", slog.String("report_id", report.ID))
		}
	}
	reports := make([]models.InspectionReport, 0, len(old.reports)+1)
	reports = append(reports, report.Clone())
	reports = append(reports, old.reports...)
	s.current.Store(&collections{facilities: old.facilities, reports: reports})
	return nil
}

func (s *MemoryStore) ListInspections(_ context.Context) ([]models.InspectionReport, error) {
	snapshot := s.current.Load()
	reports := make([]models.InspectionReport, len(snapshot.reports))
	for i, r := range snapshot.reports {
		reports[i] = r.Clone()
	}
	return reports, nil
}

func (s *MemoryStore) ListInspectors(_ context.Context) ([]models.Inspector, error) {
	return append([]models.Inspector{}, s.inspectors...), nil
}

func (s *MemoryStore) GetInspector(_ context.Context, id string) (models.Inspector, error) {
	for _, inspector := range s.inspectors {
		if inspector.ID == id {
			return inspector, nil
		}
	}
	return models.Inspector{}, errors.Wrap(ErrNotFound, "get inspector", slog.String("inspector_id", id))
}
