// Package testhelpers builds the collaborators shared by tests across packages.
package testhelpers

import (
	"github.com/gizahealth/inspector/internal/catalog"
	"github.com/gizahealth/inspector/internal/logging"
	"github.com/gizahealth/inspector/internal/seed"
	"github.com/stretchr/testify/require"
	"io"
	"log/slog"
	"testing"
)

// NewLogger creates a debug logger with context attributes writing to logSink such as io.Discard.
func NewLogger(logSink io.Writer) *slog.Logger {
	return slog.New(logging.NewContextHandler(slog.NewTextHandler(logSink, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	})))
}

// Catalog returns the embedded checklist.
func Catalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	return cat
}

// SeedData returns the embedded facilities and inspectors.
func SeedData(t *testing.T) seed.Data {
	t.Helper()
	data, err := seed.Load()
	require.NoError(t, err)
	return data
}
