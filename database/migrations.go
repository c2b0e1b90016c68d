package database

import (
	"context"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rs/zerolog/log"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

const migrationsDir = "migrations"

func init() {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(gooseLogger{})
}

// MigrateUp applies every pending migration.
func (d Database) MigrateUp(ctx context.Context) error {
	return d.migrate(ctx, func(ctx context.Context) error {
		db, err := d.db.DB()
		if err != nil {
			return err
		}
		return goose.UpContext(ctx, db, migrationsDir)
	})
}

// MigrateDown rolls back the given number of migrations.
func (d Database) MigrateDown(ctx context.Context, steps int) error {
	if steps < 1 {
		return errs.BadRequest("steps must be at least 1")
	}
	return d.migrate(ctx, func(ctx context.Context) error {
		db, err := d.db.DB()
		if err != nil {
			return err
		}
		for i := 0; i < steps; i++ {
			if err := goose.DownContext(ctx, db, migrationsDir); err != nil {
				return err
			}
		}
		return nil
	})
}

// MigrateStatus logs the applied state of every migration.
func (d Database) MigrateStatus(ctx context.Context) error {
	return d.migrate(ctx, func(ctx context.Context) error {
		db, err := d.db.DB()
		if err != nil {
			return err
		}
		return goose.StatusContext(ctx, db, migrationsDir)
	})
}

func (d Database) migrate(ctx context.Context, run func(context.Context) error) error {
	if d.db == nil {
		return errs.WrapDatabaseError("migrate", errs.ErrDatabaseConnection)
	}
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}
	if err := run(ctx); err != nil {
		return errs.WrapDatabaseError("migrate", err)
	}
	return nil
}

type gooseLogger struct{}

func (gooseLogger) Fatalf(format string, v ...any) {
	log.Fatal().Str("component", "goose").Msgf(format, v...)
}

func (gooseLogger) Printf(format string, v ...any) {
	log.Info().Str("component", "goose").Msgf(format, v...)
}
