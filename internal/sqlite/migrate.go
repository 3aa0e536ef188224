package sqlite

import (
	"context"
	"fmt"
	"github.com/gizahealth/inspector/internal/errors"
	"log/slog"
)

// migrate applies the migrations newer than the database's user_version, each in its own transaction.
func (db *Database) migrate(ctx context.Context, migrations []string) error {
	var version int
	if err := db.ReadWrite.GetContext(ctx, &version, "PRAGMA user_version"); err != nil {
		return errors.Wrap(err, "read schema version")
	}
	if version > len(migrations) {
		return errors.New("database schema is newer than the application",
			slog.Int("version", version), slog.Int("known", len(migrations)))
	}

	for i := version; i < len(migrations); i++ {
		target := i + 1
		db.logger.LogAttrs(ctx, slog.LevelInfo, "migrating database", slog.Int("version", target))
		if err := db.applyMigration(ctx, migrations[i], target); err != nil {
			return errors.Wrap(err, "apply migration", slog.Int("version", target))
		}
	}
	return nil
}

func (db *Database) applyMigration(ctx context.Context, migration string, version int) error {
	tx, err := db.ReadWrite.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "start transaction")
	}
	defer func() {
		// Rollback after commit is a no-op.
		_ = tx.Rollback()
	}()

	if migration != "" {
		if _, err = tx.ExecContext(ctx, migration); err != nil {
			return errors.Wrap(err, "execute migration")
		}
	}
	// Pragmas do not accept bound parameters.
	if _, err = tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", version)); err != nil {
		return errors.Wrap(err, "set schema version")
	}
	if _, err = tx.ExecContext(ctx, "PRAGMA foreign_key_check"); err != nil {
		return errors.Wrap(err, "foreign key check")
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "commit transaction")
	}
	return nil
}
