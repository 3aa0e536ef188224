package main

import (
	"context"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/gizahealth/inspector/internal/ai"
	"github.com/gizahealth/inspector/internal/catalog"
	"github.com/gizahealth/inspector/internal/envstruct"
	"github.com/gizahealth/inspector/internal/errors"
	"github.com/gizahealth/inspector/internal/logging"
	"github.com/gizahealth/inspector/internal/metrics"
	"github.com/gizahealth/inspector/internal/models"
	"github.com/gizahealth/inspector/internal/pprofserver"
	"github.com/gizahealth/inspector/internal/repositories"
	"github.com/gizahealth/inspector/internal/seed"
	"github.com/gizahealth/inspector/internal/sqlite"
	"github.com/joho/godotenv"
	"log/slog"
	"net/http"
	"os"
	"time"
)

type application struct {
	logger           *slog.Logger
	catalog          *catalog.Catalog
	store            repositories.Store
	summarizer       ai.Summarizer
	sessions         *sessionRegistry
	sessionManager   *scs.SessionManager
	metrics          *metrics.Collector
	defaultLanguage  models.Language
	defaultInspector string
}

type config struct {
	// Addr is the address to listen on. It's possible to choose the address dynamically with localhost:0.
	Addr string `env:"INSPECTOR_ADDR" envDefault:"localhost:4000"`
	// SqliteURL is the path to the SQLite database. The data lives in memory when empty.
	SqliteURL string `env:"INSPECTOR_SQLITE_URL" envDefault:""`
	// PprofAddr enables the pprof server on the given loopback address, e.g. localhost:6060.
	PprofAddr        string `env:"INSPECTOR_PPROF_ADDR" envDefault:""`
	DefaultLanguage  string `env:"INSPECTOR_DEFAULT_LANGUAGE" envDefault:"en"`
	DefaultInspector string `env:"INSPECTOR_DEFAULT_INSPECTOR" envDefault:"u1"`
	AI               ai.Config
}

const sessionLifetime = 12 * time.Hour

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var (
		err error
		cfg config
	)
	if err = envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}
	defaultLanguage, ok := models.ParseLanguage(cfg.DefaultLanguage)
	if !ok {
		return errors.New("unsupported default language", slog.String("language", cfg.DefaultLanguage))
	}

	if cfg.PprofAddr != "" {
		pprofserver.Launch(ctx, cfg.PprofAddr, logger)
	}

	var cat *catalog.Catalog
	if cat, err = catalog.Default(); err != nil {
		return errors.Wrap(err, "load catalog")
	}
	var data seed.Data
	if data, err = seed.Load(); err != nil {
		return errors.Wrap(err, "load seed data")
	}

	sessionManager := scs.New()
	sessionManager.Lifetime = sessionLifetime
	sessionManager.Cookie.Secure = true
	sessionManager.Cookie.SameSite = http.SameSiteLaxMode

	var store repositories.Store
	if cfg.SqliteURL == "" {
		store = repositories.NewMemoryStore(data)
	} else {
		var db *sqlite.Database
		if db, err = sqlite.NewDatabase(ctx, cfg.SqliteURL, logger); err != nil {
			return errors.Wrap(err, "open database", slog.String("url", cfg.SqliteURL))
		}
		defer func() {
			if closeErr := db.Close(); closeErr != nil {
				logger.LogAttrs(ctx, slog.LevelError, "failed to close database", errors.SlogError(closeErr))
			}
		}()
		sqliteStore := repositories.NewSQLiteStore(db, logger)
		if err = sqliteStore.Seed(ctx, data); err != nil {
			return errors.Wrap(err, "seed database")
		}
		store = sqliteStore

		sessionStore := sqlite3store.NewWithCleanupInterval(db.ReadWrite.DB, time.Hour)
		defer sessionStore.StopCleanup()
		sessionManager.Store = sessionStore
	}
	if _, err = store.GetInspector(ctx, cfg.DefaultInspector); err != nil {
		return errors.Wrap(err, "default inspector", slog.String("inspector_id", cfg.DefaultInspector))
	}

	collector := metrics.NewCollector()
	app := application{
		logger:           logger,
		catalog:          cat,
		store:            store,
		summarizer:       instrumentSummarizer(ai.NewClient(cfg.AI, cat), collector),
		sessions:         newSessionRegistry(),
		sessionManager:   sessionManager,
		metrics:          collector,
		defaultLanguage:  defaultLanguage,
		defaultInspector: cfg.DefaultInspector,
	}
	if cfg.AI.APIKey == "" && cfg.AI.BaseURL == "" {
		logger.LogAttrs(ctx, slog.LevelWarn, "OPENAI_API_KEY not set, summaries will report a failure")
	}

	if err = app.configureAndStartServer(ctx, cfg.Addr); err != nil {
		return errors.Wrap(err, "start server")
	}
	return nil
}

func main() {
	ctx := context.Background()
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)

	// The .env file is optional, real environment variables take precedence.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.LogAttrs(ctx, slog.LevelError, "failed to load .env", errors.SlogError(err))
		os.Exit(1) //nolint:revive // intentional
	}

	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure starting application", errors.SlogError(err))
		os.Exit(1) //nolint:revive // intentional
	}
}
