package inspection

import (
	"context"
	"github.com/gizahealth/inspector/internal/errors"
)

var ErrSuperseded = errors.NewSentinel("summary superseded")

// SummaryTask is one asynchronous summarization request. A builder holds at most one task; a newer request
// supersedes the older one and only the newest result reaches the report.
type SummaryTask struct {
	generation uint64
	cancel     context.CancelFunc
	done       chan struct{}

	// Written once before done is closed.
	summary string
	applied bool
}

// Done is closed when the task has finished.
func (t *SummaryTask) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task finishes and returns the summary it stored. ErrSuperseded is returned when the
// result was discarded because a newer request or a submission came first.
func (t *SummaryTask) Wait(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", errors.Wrap(ctx.Err(), "wait for summary")
	case <-t.done:
	}
	if !t.applied {
		return t.summary, ErrSuperseded
	}
	return t.summary, nil
}
