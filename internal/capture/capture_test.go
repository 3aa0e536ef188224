package capture_test

import (
	"context"
	"encoding/base64"
	"github.com/gizahealth/inspector/internal/capture"
	"github.com/stretchr/testify/require"
	"math"
	"testing"
)

// pngHeader is enough of a PNG file for content sniffing.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestFixedLocator(t *testing.T) {
	tests := []struct {
		name    string
		locator capture.FixedLocator
		wantErr bool
	}{
		{name: "Giza", locator: capture.FixedLocator{Latitude: 30.0131, Longitude: 31.2089}, wantErr: false},
		{name: "latitude out of range", locator: capture.FixedLocator{Latitude: 91, Longitude: 0}, wantErr: true},
		{name: "longitude out of range", locator: capture.FixedLocator{Latitude: 0, Longitude: -181}, wantErr: true},
		{name: "not a number", locator: capture.FixedLocator{Latitude: math.NaN(), Longitude: 0}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lat, lng, err := tt.locator.CurrentPosition(context.Background())
			if tt.wantErr {
				require.ErrorIs(t, err, capture.ErrCapture)
				return
			}
			require.NoError(t, err)
			require.InDelta(t, tt.locator.Latitude, lat, 1e-9)
			require.InDelta(t, tt.locator.Longitude, lng, 1e-9)
		})
	}
}

func TestDecodePhoto(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString(pngHeader)
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "raw base64", input: encoded, want: "data:image/png;base64," + encoded},
		{name: "data URL", input: "data:image/jpeg;base64," + encoded, want: "data:image/png;base64," + encoded},
		{name: "empty", input: "  ", wantErr: true},
		{name: "not base64", input: "data:image/png;base64,???", wantErr: true},
		{name: "not an image", input: base64.StdEncoding.EncodeToString([]byte("hello")), wantErr: true},
		{name: "data URL without base64", input: "data:image/png," + encoded, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := capture.DecodePhoto(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, capture.ErrCapture)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeTranscript(t *testing.T) {
	got, err := capture.NormalizeTranscript("  غلق   المنشأة \n فوراً ")
	require.NoError(t, err)
	require.Equal(t, "غلق المنشأة فوراً", got)

	_, err = capture.NormalizeTranscript(" \t ")
	require.ErrorIs(t, err, capture.ErrCapture)
}
