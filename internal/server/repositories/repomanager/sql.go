// Package repomanager vends the survey repositories for a database driver
// and applies the embedded goose migrations.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/surveykeeper/internal/dbx"
	"github.com/dmitrijs2005/surveykeeper/internal/server/migrations"
	"github.com/dmitrijs2005/surveykeeper/internal/server/repositories/resetcodes"
	"github.com/dmitrijs2005/surveykeeper/internal/server/repositories/responses"
	"github.com/dmitrijs2005/surveykeeper/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/surveykeeper/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// Supported database/sql driver names.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// gooseDialects maps a driver name to its goose dialect.
var gooseDialects = map[string]string{
	DriverSQLite:   "sqlite3",
	DriverPostgres: "postgres",
}

// SQLRepositoryManager vends repositories for sqlite or postgres. The
// repositories share one SQL dialect; only migrations differ per driver.
type SQLRepositoryManager struct {
	driver string
}

// NewRepositoryManager returns a manager for driver (DriverSQLite or DriverPostgres).
func NewRepositoryManager(driver string) (*SQLRepositoryManager, error) {
	if _, ok := gooseDialects[driver]; !ok {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	return &SQLRepositoryManager{driver: driver}, nil
}

func (m *SQLRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLRepository(db)
}

func (m *SQLRepositoryManager) Responses(db dbx.DBTX) responses.Repository {
	return responses.NewSQLRepository(db)
}

func (m *SQLRepositoryManager) ResetCodes(db dbx.DBTX) resetcodes.Repository {
	return resetcodes.NewSQLRepository(db)
}

func (m *SQLRepositoryManager) Sessions(db dbx.DBTX) sessions.Repository {
	return sessions.NewSQLRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded migrations with the driver's dialect.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(gooseDialects[m.driver]); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}

// Open connects to the database, checks the connection and migrates the
// schema. sqlite connections are limited to one so that writers queue up
// instead of failing with SQLITE_BUSY, and so that ":memory:" stays a
// single database.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, RepositoryManager, error) {
	m, err := NewRepositoryManager(driver)
	if err != nil {
		return nil, nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("error opening database: %w", err)
	}
	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("error connecting to database: %w", err)
	}

	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("error running migrations: %w", err)
	}

	return db, m, nil
}
