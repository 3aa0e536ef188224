package main

import (
	"context"
	"github.com/gizahealth/inspector/internal/errors"
	"github.com/gizahealth/inspector/internal/sqlite"
	"github.com/gizahealth/inspector/internal/testhelpers"
	"log/slog"
	"os"
	"time"
)

func main() {
	logger := testhelpers.NewLogger(os.Stdout)
	var (
		err       error
		start     = time.Now()
		ctx       context.Context
		sqliteURL string
		ok        bool
		cancel    context.CancelFunc
	)
	ctx = context.Background()
	ctx, cancel = context.WithTimeout(ctx, 5*time.Second) //nolint:mnd // 5 seconds

	if sqliteURL, ok = os.LookupEnv("INSPECTOR_SQLITE_URL"); !ok {
		logger.LogAttrs(ctx, slog.LevelError, "INSPECTOR_SQLITE_URL not set")
		os.Exit(1)
	}

	var db *sqlite.Database
	if db, err = sqlite.NewDatabase(ctx, sqliteURL, logger); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error creating database",
			slog.String("url", sqliteURL), errors.SlogError(err))
		os.Exit(1)
	}

	// A migrated copy of a live database still knows its facilities and inspectors.
	var counts struct {
		Facilities int `db:"facilities"`
		Inspectors int `db:"inspectors"`
		Reports    int `db:"reports"`
	}
	if err = db.ReadOnly.GetContext(ctx, &counts, `SELECT
		(SELECT COUNT(*) FROM facilities) AS facilities,
		(SELECT COUNT(*) FROM inspectors) AS inspectors,
		(SELECT COUNT(*) FROM inspection_reports) AS reports`); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error fetching counts", errors.SlogError(err))
		os.Exit(1)
	}
	if counts.Facilities == 0 || counts.Inspectors == 0 {
		logger.LogAttrs(ctx, slog.LevelError, "no facilities or inspectors found, something is likely wrong")
		os.Exit(1)
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "row counts", slog.Int("facilities", counts.Facilities),
		slog.Int("inspectors", counts.Inspectors), slog.Int("reports", counts.Reports))
	if err = db.Close(); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error closing database", errors.SlogError(err))
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Migration test successful 🙌", slog.Duration("duration", time.Since(start)))
	cancel()
	os.Exit(0)
}
