// Package capture adapts the device collaborators: geolocation, camera and speech-to-text.
//
// Every capture is one-shot and user initiated. Failures wrap ErrCapture and are never retried here.
package capture

import (
	"context"
	"encoding/base64"
	"github.com/gizahealth/inspector/internal/errors"
	"log/slog"
	"math"
	"net/http"
	"strings"
)

var ErrCapture = errors.NewSentinel("capture failed")

// Locator reports the device position.
type Locator interface {
	CurrentPosition(ctx context.Context) (float64, float64, error)
}

// LocatorFunc adapts a function to Locator.
type LocatorFunc func(ctx context.Context) (float64, float64, error)

// CurrentPosition calls f.
func (f LocatorFunc) CurrentPosition(ctx context.Context) (float64, float64, error) {
	return f(ctx)
}

// FixedLocator reports a position measured by the client device and forwarded to the server.
type FixedLocator struct {
	Latitude  float64
	Longitude float64
}

// CurrentPosition validates and returns the forwarded coordinates.
func (l FixedLocator) CurrentPosition(ctx context.Context) (float64, float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, errors.Wrap(ErrCapture, "context done", slog.String("cause", err.Error()))
	}
	if !validCoordinate(l.Latitude, 90) || !validCoordinate(l.Longitude, 180) { //nolint:mnd // degrees
		return 0, 0, errors.Wrap(ErrCapture, "coordinates out of range",
			slog.Float64("latitude", l.Latitude), slog.Float64("longitude", l.Longitude))
	}
	return l.Latitude, l.Longitude, nil
}

func validCoordinate(v, limit float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= -limit && v <= limit
}

const maxPhotoBytes = 10 << 20

// DecodePhoto validates a base64 encoded image, given either raw or as a data URL, and returns it as a data URL.
func DecodePhoto(encoded string) (string, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return "", errors.Wrap(ErrCapture, "empty photo")
	}

	payload := encoded
	if strings.HasPrefix(encoded, "data:") {
		header, data, ok := strings.Cut(encoded, ",")
		if !ok || !strings.HasSuffix(header, ";base64") {
			return "", errors.Wrap(ErrCapture, "photo data URL is not base64")
		}
		payload = data
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", errors.Wrap(ErrCapture, "decode photo", slog.String("cause", err.Error()))
	}
	if len(raw) > maxPhotoBytes {
		return "", errors.Wrap(ErrCapture, "photo too large", slog.Int("bytes", len(raw)))
	}
	contentType := http.DetectContentType(raw)
	if !strings.HasPrefix(contentType, "image/") {
		return "", errors.Wrap(ErrCapture, "photo is not an image", slog.String("content_type", contentType))
	}
	return "data:" + contentType + ";base64," + payload, nil
}

// NormalizeTranscript cleans up a speech-to-text result. An empty transcript means nothing was recognised.
func NormalizeTranscript(text string) (string, error) {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return "", errors.Wrap(ErrCapture, "empty transcript")
	}
	return text, nil
}
