package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

type Database struct {
	db                 *gorm.DB
	blogPostRepo       *BlogPostRepo
	projectRepo        *ProjectRepo
	contactMessageRepo *ContactMessageRepo
	adminRepo          *AdminRepo
}

// Options configures Open.
type Options struct {
	URL             string
	ReplicaURL      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	SlowThreshold   time.Duration
}

// Result is what Query returns. Rows is nil for statements that return no rows;
// Count is the number of rows returned or affected.
type Result struct {
	Rows  []map[string]any
	Count int64
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:                 db,
		blogPostRepo:       NewBlogPostRepo(db),
		projectRepo:        NewProjectRepo(db),
		contactMessageRepo: NewContactMessageRepo(db),
		adminRepo:          NewAdminRepo(db),
	}
}

// Open connects to Postgres, sizes the pool, and registers the optional read replica.
func Open(ctx context.Context, opts Options) (Database, error) {
	slow := opts.SlowThreshold
	if slow == 0 {
		slow = 2 * time.Second
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  opts.URL,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		PrepareStmt:    false,
		TranslateError: true,
		Logger:         NewGormLogger(log.Logger, slow),
	})
	if err != nil {
		return Database{}, errs.WrapDatabaseError("open", err)
	}

	if opts.ReplicaURL != "" {
		resolver := dbresolver.Register(dbresolver.Config{
			Replicas: []gorm.Dialector{postgres.New(postgres.Config{
				DSN:                  opts.ReplicaURL,
				PreferSimpleProtocol: true,
			})},
			Policy: dbresolver.RandomPolicy{},
		}).
			SetMaxOpenConns(opts.MaxOpenConns).
			SetMaxIdleConns(opts.MaxIdleConns).
			SetConnMaxLifetime(opts.ConnMaxLifetime)
		if err := db.Use(resolver); err != nil {
			return Database{}, errs.WrapDatabaseError("register replica", err)
		}
		log.Info().Msg("Read replica registered")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return Database{}, errs.WrapDatabaseError("open", err)
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns >= 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return Database{}, errs.WrapDatabaseError("ping", err)
	}

	return New(db), nil
}

// Accessor methods for each repository

func (d Database) BlogPostRepo() *BlogPostRepo {
	return d.blogPostRepo
}

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) ContactMessageRepo() *ContactMessageRepo {
	return d.contactMessageRepo
}

func (d Database) AdminRepo() *AdminRepo {
	return d.adminRepo
}

// Query runs a parameterized statement on the primary. Statements that
// produce rows fill Result.Rows; anything else reports rows affected.
func (d Database) Query(ctx context.Context, query string, args ...any) (*Result, error) {
	if d.db == nil {
		return nil, errs.WrapDatabaseError("query", errs.ErrDatabaseConnection)
	}
	tx := d.db.WithContext(ctx).Clauses(dbresolver.Write)

	if returnsRows(query) {
		rows := []map[string]any{}
		if err := tx.Raw(query, args...).Scan(&rows).Error; err != nil {
			return nil, errs.WrapDatabaseError("query", err)
		}
		return &Result{Rows: rows, Count: int64(len(rows))}, nil
	}

	res := tx.Exec(query, args...)
	if res.Error != nil {
		return nil, errs.WrapDatabaseError("exec", res.Error)
	}
	return &Result{Count: res.RowsAffected}, nil
}

func returnsRows(query string) bool {
	fields := strings.Fields(strings.ToUpper(query))
	if len(fields) == 0 {
		return false
	}
	switch fields[0] {
	case "SELECT", "WITH", "VALUES", "SHOW", "TABLE":
		return true
	}
	for _, f := range fields {
		if f == "RETURNING" {
			return true
		}
	}
	return false
}

// Ping checks the primary is reachable through the access layer.
func (d Database) Ping(ctx context.Context) error {
	_, err := d.Query(ctx, "SELECT 1")
	return err
}

func (d Database) Close() error {
	if d.db == nil {
		return nil
	}
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// gormWriter forwards GORM's log lines to zerolog.
type gormWriter struct {
	logger zerolog.Logger
}

func (w gormWriter) Printf(format string, args ...any) {
	msg := strings.TrimSpace(fmt.Sprintf(format, args...))
	switch {
	case strings.Contains(msg, "SLOW SQL"):
		w.logger.Warn().Msg(msg)
	case strings.Contains(strings.ToLower(msg), "error"):
		w.logger.Error().Msg(msg)
	default:
		w.logger.Debug().Msg(msg)
	}
}

func NewGormLogger(base zerolog.Logger, slowThreshold time.Duration) logger.Interface {
	level := logger.Warn
	if base.GetLevel() <= zerolog.DebugLevel {
		level = logger.Info
	}
	return logger.New(
		gormWriter{logger: base.With().Str("component", "gorm").Logger()},
		logger.Config{
			SlowThreshold:             slowThreshold,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}
