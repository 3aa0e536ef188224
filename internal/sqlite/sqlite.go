package sqlite

import (
	"context"
	_ "embed"
	"fmt"
	"github.com/gizahealth/inspector/internal/errors"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // Enable sqlite3 driver
	"log/slog"
	"strings"
	"time"
)

//go:embed schema.sql
var schemaDefinition string

// Migrations are applied in order and tracked with PRAGMA user_version. Never edit an applied migration, append
// a new one instead.
var Migrations = []string{
	schemaDefinition,
}

type Database struct {
	ReadWrite *sqlx.DB
	ReadOnly  *sqlx.DB
	logger    *slog.Logger
}

// NewDatabase connects to the database, applies pending migrations and starts the optimizer.
//
// It establishes two connection pools, a single connection for writes and several read-only connections.
// See https://github.com/mattn/go-sqlite3/issues/1179#issuecomment-1638083995.
//
// The url parameter is the path to the SQLite database file or ":memory:" for an in-memory database.
func NewDatabase(ctx context.Context, url string, logger *slog.Logger) (*Database, error) {
	db, err := connect(url, logger)
	if err != nil {
		return nil, errors.Wrap(err, "connect", slog.String("url", url))
	}
	if err = db.migrate(ctx, Migrations); err != nil {
		return nil, errors.Join(errors.Wrap(err, "migrate"), db.Close())
	}
	go db.StartDatabaseOptimizer(ctx)
	return db, nil
}

func connect(url string, logger *slog.Logger) (*Database, error) {
	var (
		err         error
		readWriteDB *sqlx.DB
		readDB      *sqlx.DB
	)

	// In-memory databases need shared cache so that both pools see the same data. Each database gets a random
	// name so that parallel tests stay isolated. See https://www.sqlite.org/inmemorydb.html.
	readMode, readWriteMode := "ro", "rwc"
	lifetime := time.Hour
	if strings.Contains(url, ":memory:") {
		url = "inspector-" + uuid.NewString()
		readMode, readWriteMode = "memory&cache=shared", "memory&cache=shared"
		// The database is gone when its last connection closes.
		lifetime = 0
	}
	commonConfig := strings.Join([]string{
		// Write-ahead logging enables concurrent readers.
		"_journal_mode=wal",
		// Avoids SQLITE_BUSY errors when the database is under load.
		"_busy_timeout=5000",
		"_synchronous=normal",
		"_foreign_keys=on",
	}, "&")

	// Options prefixed with underscore are pragmas, https://www.sqlite.org/pragma.html.
	// The rest are URI parameters, https://www.sqlite.org/uri.html.
	readConfig := fmt.Sprintf("file:%s?mode=%s&_txlock=deferred&_query_only=true&%s", url, readMode, commonConfig)
	readWriteConfig := fmt.Sprintf("file:%s?mode=%s&_txlock=immediate&%s", url, readWriteMode, commonConfig)

	if readWriteDB, err = sqlx.Open("sqlite3", readWriteConfig); err != nil {
		return nil, errors.Wrap(err, "open read-write database")
	}
	readWriteDB.SetMaxOpenConns(1)
	readWriteDB.SetMaxIdleConns(1)
	readWriteDB.SetConnMaxLifetime(lifetime)
	readWriteDB.SetConnMaxIdleTime(lifetime)

	if readDB, err = sqlx.Open("sqlite3", readConfig); err != nil {
		return nil, errors.Join(errors.Wrap(err, "open read database"), readWriteDB.Close())
	}
	maxReadConns := 10
	readDB.SetMaxOpenConns(maxReadConns)
	readDB.SetMaxIdleConns(maxReadConns)
	readDB.SetConnMaxLifetime(lifetime)
	readDB.SetConnMaxIdleTime(lifetime)

	return &Database{
		ReadWrite: readWriteDB,
		ReadOnly:  readDB,
		logger:    logger,
	}, nil
}

// Close closes both connection pools.
func (db *Database) Close() error {
	var errs []error
	if err := db.ReadOnly.Close(); err != nil {
		errs = append(errs, errors.Wrap(err, "close read database"))
	}
	if err := db.ReadWrite.Close(); err != nil {
		errs = append(errs, errors.Wrap(err, "close read-write database"))
	}
	return errors.Join(errs...)
}
