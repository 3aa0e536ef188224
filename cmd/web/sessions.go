package main

import (
	"context"
	"github.com/gizahealth/inspector/internal/ai"
	"github.com/gizahealth/inspector/internal/errors"
	"github.com/gizahealth/inspector/internal/inspection"
	"github.com/gizahealth/inspector/internal/metrics"
	"github.com/gizahealth/inspector/internal/models"
	"github.com/google/uuid"
	"log/slog"
	"sync"
	"time"
)

var errSessionNotFound = errors.NewSentinel("inspection session not found")

// Keys of the client preferences kept in the scs session.
const (
	languageSessionKey    = "language"
	inspectorIDSessionKey = "inspectorID"
)

// sessionRegistry holds the inspection sessions that have not been submitted yet.
type sessionRegistry struct {
	mu       sync.Mutex
	builders map[string]*inspection.Builder
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{
		mu:       sync.Mutex{},
		builders: make(map[string]*inspection.Builder),
	}
}

func (s *sessionRegistry) add(b *inspection.Builder) string {
	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.builders[id] = b
	return id
}

func (s *sessionRegistry) get(id string) (*inspection.Builder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.builders[id]
	if !ok {
		return nil, errors.Wrap(errSessionNotFound, "get session", slog.String("session_id", id))
	}
	return b, nil
}

func (s *sessionRegistry) remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.builders, id)
}

// instrumentedSummarizer records the outcome and duration of every summarizer call.
type instrumentedSummarizer struct {
	next    ai.Summarizer
	metrics *metrics.Collector
}

func instrumentSummarizer(next ai.Summarizer, collector *metrics.Collector) ai.Summarizer {
	return instrumentedSummarizer{next: next, metrics: collector}
}

func (s instrumentedSummarizer) Analyze(
	ctx context.Context,
	report models.InspectionReport,
	facility models.Facility,
	lang models.Language,
) (string, error) {
	start := time.Now()
	summary, err := s.next.Analyze(ctx, report, facility, lang)
	outcome := "ok"
	switch {
	case errors.Is(err, context.Canceled):
		outcome = "cancelled"
	case err != nil:
		outcome = "error"
	}
	s.metrics.SummaryFinished(outcome, time.Since(start))
	return summary, err //nolint:wrapcheck // decorator
}
