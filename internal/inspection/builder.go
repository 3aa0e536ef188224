// Package inspection collects the answers of one inspection session and turns them into a submitted report.
//
// A Builder moves through Empty, InProgress, ReadyForReview and Submitted. Every method is safe for concurrent
// use. Once submitted, mutating methods return ErrSubmitted.
package inspection

import (
	"context"
	"fmt"
	"github.com/gizahealth/inspector/internal/ai"
	"github.com/gizahealth/inspector/internal/capture"
	"github.com/gizahealth/inspector/internal/catalog"
	"github.com/gizahealth/inspector/internal/errors"
	"github.com/gizahealth/inspector/internal/models"
	"github.com/google/uuid"
	"log/slog"
	"strings"
	"sync"
	"time"
)

var (
	ErrSubmitted     = errors.NewSentinel("inspection already submitted")
	ErrInvalidStatus = models.ErrInvalidStatus
	ErrInvalidType   = errors.NewSentinel("invalid inspection type")
)

// State is the position of a builder in its lifecycle.
type State string

const (
	StateEmpty          State = "Empty"
	StateInProgress     State = "InProgress"
	StateReadyForReview State = "ReadyForReview"
	StateSubmitted      State = "Submitted"
)

// ReportSink receives submitted reports.
type ReportSink interface {
	AddInspection(ctx context.Context, report models.InspectionReport) error
}

// BuilderConfig holds the collaborators of a Builder. Summarizer, Now, NewID and Logger are optional.
type BuilderConfig struct {
	Catalog     *catalog.Catalog
	Facility    models.Facility
	InspectorID string
	Language    models.Language
	Summarizer  ai.Summarizer
	Now         func() time.Time
	NewID       func() string
	Logger      *slog.Logger
}

type Builder struct {
	cfg BuilderConfig

	mu             sync.Mutex
	order          []models.QuestionID
	answers        map[models.QuestionID]models.Answer
	categoryIndex  int
	inspectionType models.InspectionType
	recommendation string
	location       *models.Location
	summary        string
	task           *SummaryTask
	generation     uint64
	submitted      *models.InspectionReport
}

// NewBuilder starts an inspection session of cfg.Facility.
func NewBuilder(cfg BuilderConfig) (*Builder, error) {
	if cfg.Catalog == nil {
		return nil, errors.New("catalog is required")
	}
	if cfg.Facility.ID == "" {
		return nil, errors.New("facility is required")
	}
	if cfg.InspectorID == "" {
		return nil, errors.New("inspector is required")
	}
	if cfg.Language == "" {
		cfg.Language = models.LanguageEnglish
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.NewID == nil {
		cfg.NewID = uuid.NewString
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Builder{ //nolint:exhaustruct // zero values are a fresh session
		cfg:            cfg,
		answers:        make(map[models.QuestionID]models.Answer),
		inspectionType: models.InspectionPeriodic,
	}, nil
}

// Facility returns the facility under inspection.
func (b *Builder) Facility() models.Facility {
	return b.cfg.Facility
}

// Language returns the language summaries are requested in.
func (b *Builder) Language() models.Language {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cfg.Language
}

// SetLanguage changes the language of subsequent summary requests.
func (b *Builder) SetLanguage(lang models.Language) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.submitted != nil {
		return ErrSubmitted
	}
	b.cfg.Language = lang
	return nil
}

// State derives the lifecycle state from the builder's contents.
func (b *Builder) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stateLocked()
}

func (b *Builder) stateLocked() State {
	switch {
	case b.submitted != nil:
		return StateSubmitted
	case b.categoryIndex >= b.cfg.Catalog.Len():
		return StateReadyForReview
	case len(b.order) == 0:
		return StateEmpty
	default:
		return StateInProgress
	}
}

// upsertLocked applies update to the answer of id, creating an answer with status fallback when none exists.
func (b *Builder) upsertLocked(id models.QuestionID, fallback models.ComplianceStatus, update func(*models.Answer)) error {
	if b.submitted != nil {
		return ErrSubmitted
	}
	if _, err := b.cfg.Catalog.FindQuestion(id); err != nil {
		return errors.Wrap(err, "record answer")
	}
	answer, ok := b.answers[id]
	if !ok {
		answer = models.Answer{QuestionID: id, Status: fallback} //nolint:exhaustruct // note and photo start empty
		b.order = append(b.order, id)
	}
	update(&answer)
	b.answers[id] = answer
	return nil
}

// RecordAnswer sets the status of question id, keeping any note or photo already attached.
func (b *Builder) RecordAnswer(id models.QuestionID, status models.ComplianceStatus) error {
	if !status.Valid() {
		return errors.Wrap(ErrInvalidStatus, "record answer", slog.String("status", string(status)))
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.upsertLocked(id, status, func(a *models.Answer) { a.Status = status })
}

// RecordNote attaches a note to question id. An unanswered question becomes Compliant.
func (b *Builder) RecordNote(id models.QuestionID, note string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.upsertLocked(id, models.StatusCompliant, func(a *models.Answer) { a.Note = note })
}

// RecordPhoto attaches a photo reference to question id. An unanswered question becomes Compliant.
func (b *Builder) RecordPhoto(id models.QuestionID, photo string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.upsertLocked(id, models.StatusCompliant, func(a *models.Answer) { a.Photo = photo })
}

// Answer returns the answer recorded for id.
func (b *Builder) Answer(id models.QuestionID) (models.Answer, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	answer, ok := b.answers[id]
	return answer, ok
}

// CategoryIndex is the category being filled in. It equals the number of categories on the review screen.
func (b *Builder) CategoryIndex() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.categoryIndex
}

// GoToCategory moves to category i, clamped to the first category and the review screen.
func (b *Builder) GoToCategory(i int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.submitted != nil {
		return ErrSubmitted
	}
	b.categoryIndex = max(0, min(i, b.cfg.Catalog.Len()))
	return nil
}

// AdvanceCategory moves to the next category, or to the review screen after the last one.
func (b *Builder) AdvanceCategory() error {
	return b.GoToCategory(b.CategoryIndex() + 1)
}

// RetreatCategory moves to the previous category.
func (b *Builder) RetreatCategory() error {
	return b.GoToCategory(b.CategoryIndex() - 1)
}

// SetInspectionType records why the facility is visited.
func (b *Builder) SetInspectionType(t models.InspectionType) error {
	if !t.Valid() {
		return errors.Wrap(ErrInvalidType, "set inspection type", slog.String("type", string(t)))
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.submitted != nil {
		return ErrSubmitted
	}
	b.inspectionType = t
	return nil
}

// SetRecommendation replaces the free-text recommendation.
func (b *Builder) SetRecommendation(text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.submitted != nil {
		return ErrSubmitted
	}
	b.recommendation = text
	return nil
}

// AppendRecommendation adds dictated text to the recommendation, separated by a space.
func (b *Builder) AppendRecommendation(text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.submitted != nil {
		return ErrSubmitted
	}
	text = strings.TrimSpace(text)
	switch {
	case text == "":
	case b.recommendation == "":
		b.recommendation = text
	default:
		b.recommendation = b.recommendation + " " + text
	}
	return nil
}

// CaptureLocation geotags the inspection. The first successful capture wins and later calls leave it as is.
// A failing locator leaves the builder untouched.
func (b *Builder) CaptureLocation(ctx context.Context, locator capture.Locator) (models.Location, error) {
	b.mu.Lock()
	if b.submitted != nil {
		b.mu.Unlock()
		return models.Location{}, ErrSubmitted
	}
	if b.location != nil {
		location := *b.location
		b.mu.Unlock()
		return location, nil
	}
	b.mu.Unlock()

	lat, lng, err := locator.CurrentPosition(ctx)
	if err != nil {
		return models.Location{}, errors.Wrap(err, "capture location")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.submitted != nil {
		return models.Location{}, ErrSubmitted
	}
	if b.location == nil {
		b.location = &models.Location{Latitude: lat, Longitude: lng, Timestamp: b.cfg.Now()}
	}
	return *b.location, nil
}

// Location returns the captured geotag, if any.
func (b *Builder) Location() (models.Location, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.location == nil {
		return models.Location{}, false
	}
	return *b.location, true
}

// reportLocked freezes the current state. The result shares nothing with the builder.
func (b *Builder) reportLocked() models.InspectionReport {
	answers := make([]models.Answer, 0, len(b.order))
	for _, id := range b.order {
		answers = append(answers, b.answers[id])
	}
	report := models.InspectionReport{
		ID:             "",
		FacilityID:     b.cfg.Facility.ID,
		InspectorID:    b.cfg.InspectorID,
		InspectionType: b.inspectionType,
		Date:           b.cfg.Now(),
		Answers:        answers,
		OverallStatus:  models.OverallPending,
		Location:       nil,
		Summary:        b.summary,
		Recommendation: b.recommendation,
	}
	if b.location != nil {
		location := *b.location
		report.Location = &location
	}
	return report
}

// RequestSummary asks the summarizer for a narrative of the current answers without blocking. The request
// outlives ctx's cancellation but keeps its values. Any earlier request is cancelled and its result ignored.
func (b *Builder) RequestSummary(ctx context.Context) (*SummaryTask, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.submitted != nil {
		return nil, ErrSubmitted
	}
	if b.task != nil {
		b.task.cancel()
	}
	b.generation++
	taskCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	task := &SummaryTask{ //nolint:exhaustruct // result is written when the task finishes
		generation: b.generation,
		cancel:     cancel,
		done:       make(chan struct{}),
	}
	b.task = task

	go b.summarize(taskCtx, task, b.reportLocked(), b.cfg.Language)

	return task, nil
}

func (b *Builder) summarize(ctx context.Context, task *SummaryTask, report models.InspectionReport, lang models.Language) {
	defer close(task.done)
	defer task.cancel()

	summary := b.analyze(ctx, report, lang)

	b.mu.Lock()
	defer b.mu.Unlock()
	task.summary = summary
	if b.task != task || b.submitted != nil {
		b.cfg.Logger.LogAttrs(ctx, slog.LevelDebug, "discard superseded summary",
			slog.Uint64("generation", task.generation))
		return
	}
	b.summary = summary
	b.task = nil
	task.applied = true
}

// analyze never fails. Errors and panics from the summarizer become the localized failure message.
func (b *Builder) analyze(ctx context.Context, report models.InspectionReport, lang models.Language) (summary string) {
	defer func() {
		if r := recover(); r != nil {
			b.cfg.Logger.LogAttrs(ctx, slog.LevelError, "summarizer panicked", slog.String("panic", fmt.Sprint(r)))
			summary = ai.FailureMessage(lang)
		}
	}()
	if b.cfg.Summarizer == nil {
		return ai.FailureMessage(lang)
	}
	summary, err := b.cfg.Summarizer.Analyze(ctx, report, b.cfg.Facility, lang)
	if err == nil && strings.TrimSpace(summary) == "" {
		err = ai.ErrNoCompletion
	}
	if err != nil {
		b.cfg.Logger.LogAttrs(ctx, slog.LevelWarn, "summary failed", errors.SlogError(err),
			slog.String("facility_id", b.cfg.Facility.ID))
		return ai.FailureMessage(lang)
	}
	return summary
}

// Summary returns the stored summary text, which is the failure message when the last request failed.
func (b *Builder) Summary() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.summary
}

// SummaryPending reports whether a summary request is in flight.
func (b *Builder) SummaryPending() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.task != nil
}

// Warnings lists answers missing a note or photo. They are advisory and never prevent submission.
func (b *Builder) Warnings() []Warning {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.warningsLocked()
}

func (b *Builder) warningsLocked() []Warning {
	warnings := []Warning{}
	for _, id := range b.order {
		answer := b.answers[id]
		question, err := b.cfg.Catalog.FindQuestion(id)
		if err != nil {
			continue
		}
		if NeedsNote(answer.Status) && answer.Note == "" {
			warnings = append(warnings, Warning{QuestionID: id, Kind: MissingNote})
		}
		if NeedsPhoto(question, answer.Status) && answer.Photo == "" {
			warnings = append(warnings, Warning{QuestionID: id, Kind: MissingPhoto})
		}
	}
	return warnings
}

// Submit freezes the session into a Pending report and hands it to sink. With a failing sink the builder
// stays open so the inspector can try again. An outstanding summary request is cancelled.
func (b *Builder) Submit(ctx context.Context, sink ReportSink) (models.InspectionReport, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.submitted != nil {
		return models.InspectionReport{}, ErrSubmitted
	}

	report := b.reportLocked()
	report.ID = b.cfg.NewID()
	if err := sink.AddInspection(ctx, report.Clone()); err != nil {
		return models.InspectionReport{}, errors.Wrap(err, "submit inspection", slog.String("report_id", report.ID))
	}

	if b.task != nil {
		b.task.cancel()
		b.task = nil
	}
	b.submitted = &report
	b.cfg.Logger.LogAttrs(ctx, slog.LevelInfo, "inspection submitted",
		slog.String("report_id", report.ID),
		slog.String("facility_id", report.FacilityID),
		slog.Int("answers", len(report.Answers)))
	return report.Clone(), nil
}

// Snapshot is a read-only view of a session.
type Snapshot struct {
	State          State                 `json:"state"`
	FacilityID     string                `json:"facilityId"`
	InspectorID    string                `json:"inspectorId"`
	Language       models.Language       `json:"language"`
	CategoryIndex  int                   `json:"categoryIndex"`
	InspectionType models.InspectionType `json:"inspectionType"`
	Answers        []models.Answer       `json:"answers"`
	Warnings       []Warning             `json:"warnings"`
	Location       *models.Location      `json:"location,omitempty"`
	Summary        string                `json:"summary,omitempty"`
	SummaryPending bool                  `json:"summaryPending"`
	Recommendation string                `json:"recommendation,omitempty"`
	// Report is set once the session is submitted.
	Report *models.InspectionReport `json:"report,omitempty"`
}

// Snapshot copies the builder's state.
func (b *Builder) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	current := b.reportLocked()
	snapshot := Snapshot{
		State:          b.stateLocked(),
		FacilityID:     b.cfg.Facility.ID,
		InspectorID:    b.cfg.InspectorID,
		Language:       b.cfg.Language,
		CategoryIndex:  b.categoryIndex,
		InspectionType: b.inspectionType,
		Answers:        current.Answers,
		Warnings:       b.warningsLocked(),
		Location:       current.Location,
		Summary:        b.summary,
		SummaryPending: b.task != nil,
		Recommendation: b.recommendation,
		Report:         nil,
	}
	if b.submitted != nil {
		report := b.submitted.Clone()
		snapshot.Report = &report
	}
	return snapshot
}
