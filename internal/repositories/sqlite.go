package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"github.com/gizahealth/inspector/internal/errors"
	"github.com/gizahealth/inspector/internal/models"
	"github.com/gizahealth/inspector/internal/seed"
	"github.com/gizahealth/inspector/internal/sqlite"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
	"log/slog"
	"time"
)

// SQLiteStore persists to the database behind sqlite.Database.
type SQLiteStore struct {
	dbs    *sqlite.Database
	logger *slog.Logger
}

func NewSQLiteStore(dbs *sqlite.Database, logger *slog.Logger) *SQLiteStore {
	return &SQLiteStore{
		dbs:    dbs,
		logger: logger.With("source", "SQLiteStore"),
	}
}

type facilityRow struct {
	ID            string          `db:"id"`
	NameEN        string          `db:"name_en"`
	NameAR        string          `db:"name_ar"`
	Type          string          `db:"type"`
	Specialties   string          `db:"specialties"`
	Director      string          `db:"director"`
	Owner         string          `db:"owner"`
	LicenseNumber string          `db:"license_number"`
	IsLicensed    bool            `db:"is_licensed"`
	Address       string          `db:"address"`
	Governorate   string          `db:"governorate"`
	Latitude      sql.NullFloat64 `db:"latitude"`
	Longitude     sql.NullFloat64 `db:"longitude"`
	LocatedAt     sql.NullString  `db:"located_at"`
}

type reportRow struct {
	ID             string          `db:"id"`
	FacilityID     string          `db:"facility_id"`
	InspectorID    string          `db:"inspector_id"`
	InspectionType string          `db:"inspection_type"`
	Date           string          `db:"date"`
	OverallStatus  string          `db:"overall_status"`
	Latitude       sql.NullFloat64 `db:"latitude"`
	Longitude      sql.NullFloat64 `db:"longitude"`
	LocatedAt      sql.NullString  `db:"located_at"`
	Summary        string          `db:"ai_summary"`
	Recommendation string          `db:"recommendation"`
}

type answerRow struct {
	ReportID   string `db:"report_id"`
	Position   int    `db:"position"`
	QuestionID string `db:"question_id"`
	Status     string `db:"status"`
	Note       string `db:"note"`
	Photo      string `db:"photo"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, errors.Wrap(err, "parse time", slog.String("value", s))
	}
	return t, nil
}

func locationColumns(l *models.Location) (sql.NullFloat64, sql.NullFloat64, sql.NullString) {
	if l == nil {
		return sql.NullFloat64{}, sql.NullFloat64{}, sql.NullString{}
	}
	return sql.NullFloat64{Float64: l.Latitude, Valid: true},
		sql.NullFloat64{Float64: l.Longitude, Valid: true},
		sql.NullString{String: formatTime(l.Timestamp), Valid: true}
}

func scanLocation(lat, lng sql.NullFloat64, at sql.NullString) (*models.Location, error) {
	if !lat.Valid || !lng.Valid {
		return nil, nil //nolint:nilnil // no location captured
	}
	location := models.Location{Latitude: lat.Float64, Longitude: lng.Float64, Timestamp: time.Time{}}
	if at.Valid {
		var err error
		if location.Timestamp, err = parseTime(at.String); err != nil {
			return nil, err
		}
	}
	return &location, nil
}

func toFacilityRow(f models.Facility) (facilityRow, error) {
	specialties, err := json.Marshal(append([]string{}, f.Specialties...))
	if err != nil {
		return facilityRow{}, errors.Wrap(err, "marshal specialties")
	}
	lat, lng, at := locationColumns(f.Location)
	return facilityRow{
		ID:            f.ID,
		NameEN:        f.Name.EN,
		NameAR:        f.Name.AR,
		Type:          string(f.Type),
		Specialties:   string(specialties),
		Director:      f.Director,
		Owner:         f.Owner,
		LicenseNumber: f.LicenseNumber,
		IsLicensed:    f.IsLicensed,
		Address:       f.Address,
		Governorate:   f.Governorate,
		Latitude:      lat,
		Longitude:     lng,
		LocatedAt:     at,
	}, nil
}

func (row facilityRow) facility() (models.Facility, error) {
	var specialties []string
	if err := json.Unmarshal([]byte(row.Specialties), &specialties); err != nil {
		return models.Facility{}, errors.Wrap(err, "unmarshal specialties", slog.String("facility_id", row.ID))
	}
	location, err := scanLocation(row.Latitude, row.Longitude, row.LocatedAt)
	if err != nil {
		return models.Facility{}, err
	}
	return models.Facility{
		ID:            row.ID,
		Name:          models.Text{EN: row.NameEN, AR: row.NameAR},
		Type:          models.FacilityType(row.Type),
		Specialties:   specialties,
		Director:      row.Director,
		Owner:         row.Owner,
		LicenseNumber: row.LicenseNumber,
		IsLicensed:    row.IsLicensed,
		Address:       row.Address,
		Governorate:   row.Governorate,
		Location:      location,
	}, nil
}

// translateError maps constraint violations to the store's sentinels.
func translateError(err error) error {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return err
	}
	switch sqliteErr.ExtendedCode { //nolint:exhaustive // other codes stay as they are
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		return errors.Join(ErrDuplicate, err)
	case sqlite3.ErrConstraintForeignKey:
		return errors.Join(ErrNotFound, err)
	default:
		return err
	}
}

const facilityValues = `(id, name_en, name_ar, type, specialties, director, owner, license_number, is_licensed, address, governorate,
     latitude, longitude, located_at)
VALUES (:id, :name_en, :name_ar, :type, :specialties, :director, :owner, :license_number, :is_licensed, :address,
        :governorate, :latitude, :longitude, :located_at)`

const insertFacility = "INSERT INTO facilities " + facilityValues

func (s *SQLiteStore) AddFacility(ctx context.Context, facility models.Facility) error {
	row, err := toFacilityRow(facility)
	if err != nil {
		return errors.Wrap(err, "add facility")
	}
	if _, err = s.dbs.ReadWrite.NamedExecContext(ctx, insertFacility, row); err != nil {
		return errors.Wrap(translateError(err), "insert facility", slog.String("facility_id", facility.ID))
	}
	return nil
}

const selectFacilities = `SELECT id, name_en, name_ar, type, specialties, director, owner, license_number, is_licensed,
       address, governorate, latitude, longitude, located_at
FROM facilities`

func (s *SQLiteStore) ListFacilities(ctx context.Context) ([]models.Facility, error) {
	var rows []facilityRow
	if err := s.dbs.ReadOnly.SelectContext(ctx, &rows, selectFacilities+" ORDER BY seq DESC"); err != nil {
		return nil, errors.Wrap(err, "select facilities")
	}
	facilities := make([]models.Facility, 0, len(rows))
	for _, row := range rows {
		facility, err := row.facility()
		if err != nil {
			return nil, err
		}
		facilities = append(facilities, facility)
	}
	return facilities, nil
}

func (s *SQLiteStore) GetFacility(ctx context.Context, id string) (models.Facility, error) {
	var row facilityRow
	if err := s.dbs.ReadOnly.GetContext(ctx, &row, selectFacilities+" WHERE id = ?", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Facility{}, errors.Wrap(ErrNotFound, "get facility", slog.String("facility_id", id))
		}
		return models.Facility{}, errors.Wrap(err, "select facility", slog.String("facility_id", id))
	}
	return row.facility()
}

func (s *SQLiteStore) AddInspection(ctx context.Context, report models.InspectionReport) error {
	lat, lng, at := locationColumns(report.Location)
	row := reportRow{
		ID:             report.ID,
		FacilityID:     report.FacilityID,
		InspectorID:    report.InspectorID,
		InspectionType: string(report.InspectionType),
		Date:           formatTime(report.Date),
		OverallStatus:  string(report.OverallStatus),
		Latitude:       lat,
		Longitude:      lng,
		LocatedAt:      at,
		Summary:        report.Summary,
		Recommendation: report.Recommendation,
	}
	if row.OverallStatus == "" {
		row.OverallStatus = string(models.OverallPending)
	}

	attrs := []slog.Attr{slog.String("report_id", report.ID), slog.String("facility_id", report.FacilityID)}
	tx, err := s.dbs.ReadWrite.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "start transaction", attrs...)
	}
	defer func() {
		// Rollback after commit is a no-op.
		_ = tx.Rollback()
	}()

	if _, err = tx.NamedExecContext(ctx, `INSERT INTO inspection_reports
    (id, facility_id, inspector_id, inspection_type, date, overall_status, latitude, longitude, located_at, ai_summary,
     recommendation)
VALUES (:id, :facility_id, :inspector_id, :inspection_type, :date, :overall_status, :latitude, :longitude, :located_at,
        :ai_summary, :recommendation)`, row); err != nil {
		return errors.Wrap(translateError(err), "insert inspection report", attrs...)
	}
	for i, answer := range report.Answers {
		if _, err = tx.NamedExecContext(ctx, `INSERT INTO inspection_answers
    (report_id, position, question_id, status, note, photo)
VALUES (:report_id, :position, :question_id, :status, :note, :photo)`, answerRow{
			ReportID:   report.ID,
			Position:   i,
			QuestionID: string(answer.QuestionID),
			Status:     string(answer.Status),
			Note:       answer.Note,
			Photo:      answer.Photo,
		}); err != nil {
			return errors.Wrap(translateError(err), "insert inspection answer",
				append(attrs, slog.String("question_id", string(answer.QuestionID)))...)
		}
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "commit inspection", attrs...)
	}
	return nil
}

func (s *SQLiteStore) ListInspections(ctx context.Context) ([]models.InspectionReport, error) {
	var rows []reportRow
	if err := s.dbs.ReadOnly.SelectContext(ctx, &rows, `SELECT id, facility_id, inspector_id, inspection_type, date,
       overall_status, latitude, longitude, located_at, ai_summary, recommendation
FROM inspection_reports
ORDER BY seq DESC`); err != nil {
		return nil, errors.Wrap(err, "select inspection reports")
	}
	var answerRows []answerRow
	if err := s.dbs.ReadOnly.SelectContext(ctx, &answerRows, `SELECT report_id, position, question_id, status, note, photo
FROM inspection_answers
ORDER BY report_id, position`); err != nil {
		return nil, errors.Wrap(err, "select inspection answers")
	}
	answers := make(map[string][]models.Answer, len(rows))
	for _, a := range answerRows {
		answers[a.ReportID] = append(answers[a.ReportID], models.Answer{
			QuestionID: models.QuestionID(a.QuestionID),
			Status:     models.ComplianceStatus(a.Status),
			Note:       a.Note,
			Photo:      a.Photo,
		})
	}

	reports := make([]models.InspectionReport, 0, len(rows))
	for _, row := range rows {
		date, err := parseTime(row.Date)
		if err != nil {
			return nil, err
		}
		location, err := scanLocation(row.Latitude, row.Longitude, row.LocatedAt)
		if err != nil {
			return nil, err
		}
		reportAnswers := answers[row.ID]
		if reportAnswers == nil {
			reportAnswers = []models.Answer{}
		}
		reports = append(reports, models.InspectionReport{
			ID:             row.ID,
			FacilityID:     row.FacilityID,
			InspectorID:    row.InspectorID,
			InspectionType: models.InspectionType(row.InspectionType),
			Date:           date,
			Answers:        reportAnswers,
			OverallStatus:  models.OverallStatus(row.OverallStatus),
			Location:       location,
			Summary:        row.Summary,
			Recommendation: row.Recommendation,
		})
	}
	return reports, nil
}

func (s *SQLiteStore) ListInspectors(ctx context.Context) ([]models.Inspector, error) {
	var inspectors []models.Inspector
	if err := s.dbs.ReadOnly.SelectContext(ctx, &inspectors,
		`SELECT id, name, role FROM inspectors ORDER BY rowid`); err != nil {
		return nil, errors.Wrap(err, "select inspectors")
	}
	if inspectors == nil {
		inspectors = []models.Inspector{}
	}
	return inspectors, nil
}

func (s *SQLiteStore) GetInspector(ctx context.Context, id string) (models.Inspector, error) {
	var inspector models.Inspector
	if err := s.dbs.ReadOnly.GetContext(ctx, &inspector, `SELECT id, name, role FROM inspectors WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Inspector{}, errors.Wrap(ErrNotFound, "get inspector", slog.String("inspector_id", id))
		}
		return models.Inspector{}, errors.Wrap(err, "select inspector", slog.String("inspector_id", id))
	}
	return inspector, nil
}

// Seed inserts the seed data that is not stored yet. Facilities are inserted last to first so that they list in
// seed order.
func (s *SQLiteStore) Seed(ctx context.Context, data seed.Data) error {
	tx, err := s.dbs.ReadWrite.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "start transaction")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, inspector := range data.Inspectors {
		if _, err = tx.NamedExecContext(ctx,
			`INSERT OR IGNORE INTO inspectors (id, name, role) VALUES (:id, :name, :role)`, inspector); err != nil {
			return errors.Wrap(err, "seed inspector", slog.String("inspector_id", inspector.ID))
		}
	}
	for i := len(data.Facilities) - 1; i >= 0; i-- {
		if err = seedFacility(ctx, tx, data.Facilities[i]); err != nil {
			return err
		}
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "commit seed")
	}
	s.logger.LogAttrs(ctx, slog.LevelDebug, "seeded database",
		slog.Int("facilities", len(data.Facilities)), slog.Int("inspectors", len(data.Inspectors)))
	return nil
}

func seedFacility(ctx context.Context, tx *sqlx.Tx, facility models.Facility) error {
	row, err := toFacilityRow(facility)
	if err != nil {
		return errors.Wrap(err, "seed facility", slog.String("facility_id", facility.ID))
	}
	if _, err = tx.NamedExecContext(ctx, "INSERT OR IGNORE INTO facilities "+facilityValues, row); err != nil {
		return errors.Wrap(err, "seed facility", slog.String("facility_id", facility.ID))
	}
	return nil
}
