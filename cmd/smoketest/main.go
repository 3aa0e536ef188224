package main

import (
	"context"
	"github.com/gizahealth/inspector/internal/e2etest"
	"github.com/gizahealth/inspector/internal/errors"
	"github.com/gizahealth/inspector/internal/logging"
	"log/slog"
	"net/http"
	"os"
	"time"
)

// TestAPI exercises the read-only endpoints and opens an inspection session that is never submitted.
func TestAPI(client *e2etest.Client) error {
	ctx := context.Background()
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second) //nolint:mnd // 10 seconds
	defer cancel()

	if err := client.WaitForReady(ctx, "/api/healthy"); err != nil {
		return errors.Wrap(err, "wait for ready")
	}

	var facilities []struct {
		ID string `json:"id"`
	}
	for _, path := range []string{"/api/catalog", "/api/preferences", "/api/dashboard", "/api/facilities"} {
		var out any = &struct{}{}
		if path == "/api/facilities" {
			out = &facilities
		}
		status, err := client.DoJSON(ctx, http.MethodGet, path, nil, out)
		if err != nil {
			return errors.Wrap(err, "get", slog.String("path", path))
		}
		if status != http.StatusOK {
			return errors.New("unexpected status code", slog.String("path", path), slog.Int("status", status))
		}
	}
	if len(facilities) == 0 {
		return errors.New("no facilities found")
	}

	path := "/api/facilities/" + facilities[0].ID + "/inspections"
	status, err := client.DoJSON(ctx, http.MethodPost, path, nil, nil)
	if err != nil {
		return errors.Wrap(err, "start inspection")
	}
	if status != http.StatusCreated {
		return errors.New("unexpected status code", slog.String("path", path), slog.Int("status", status))
	}
	return nil
}

func main() {
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)
	ctx := context.Background()

	if len(os.Args) != 2 { //nolint:mnd // we expect only hostname to be passed as argument.
		logger.LogAttrs(ctx, slog.LevelError, "usage: smoketest <hostname>")
		os.Exit(1)
	}

	var (
		hostname = os.Args[1]
		url      = "https://" + hostname
		client   *e2etest.Client
		err      error
	)
	ctx = logging.WithAttrs(ctx, slog.String("hostname", url))

	if client, err = e2etest.NewClient(url); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error creating client", errors.SlogError(err))
		os.Exit(1)
	}
	if err = TestAPI(client); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error testing API", errors.SlogError(err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Smoke test successful 🙌")
	os.Exit(0)
}
