package errors_test

import (
	"github.com/gizahealth/inspector/internal/errors"
	"github.com/stretchr/testify/require"
	"log/slog"
	"slices"
	"testing"
)

func TestWrap(t *testing.T) {
	sentinel := errors.NewSentinel("question not found")
	wrapped := errors.Wrap(sentinel, "record answer", slog.String("question_id", "a1"))
	require.ErrorIs(t, wrapped, sentinel)
	require.Equal(t, "record answer: question not found", wrapped.Error())

	twice := errors.Wrap(wrapped, "handle request", slog.String("session_id", "s1"))
	require.ErrorIs(t, twice, sentinel)
	require.Equal(t, "handle request: record answer: question not found", twice.Error())

	require.NoError(t, errors.Wrap(nil, "nothing to wrap"))
}

func TestAnnotatedError_LogValue(t *testing.T) {
	var annotated *errors.AnnotatedError
	err := errors.Wrap(errors.New("inner", slog.Int("status", 502)), "outer", slog.String("id", "123"))
	require.True(t, errors.As(err, &annotated))

	group := annotated.LogValue().Group()
	require.Contains(t, group, slog.String("id", "123"))
	require.Contains(t, group, slog.Int("status", 502))

	sourceIdx := slices.IndexFunc(group, func(attr slog.Attr) bool {
		return attr.Key == "source"
	})
	require.NotEqual(t, -1, sourceIdx)
	require.Contains(t, group[sourceIdx].Value.String(), "annotatederror_test.go")
}

func TestSlogError(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "annotated", err: errors.New("annotated")},
		{name: "plain", err: errors.NewSentinel("plain")},
		{name: "joined", err: errors.Join(errors.New("first"), errors.NewSentinel("second"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attr := errors.SlogError(tt.err)
			require.Equal(t, "error", attr.Key)
			require.Contains(t, attr.Value.Resolve().String(), tt.err.Error())
		})
	}
}
