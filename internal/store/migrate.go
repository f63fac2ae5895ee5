package store

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"

	"shelfit/db/migrations"
	"shelfit/internal/logging"
)

// Migrator applies the embedded schema for the store's driver.
type Migrator struct {
	provider *goose.Provider
	db       *sql.DB
	ownsDB   bool
	log      logging.Logger
}

// MigrationFS returns the embedded migration files for driver, rooted at their directory.
func MigrationFS(driver string) (fs.FS, goose.Dialect, error) {
	switch driver {
	case DriverPostgres:
		sub, err := fs.Sub(migrations.Postgres, "postgres")
		return sub, goose.DialectPostgres, err
	case DriverSQLite:
		sub, err := fs.Sub(migrations.SQLite, "sqlite")
		return sub, goose.DialectSQLite3, err
	}
	return nil, "", fmt.Errorf("store: no migrations for driver %q", driver)
}

// NewMigrator prepares a goose provider on the store's connection.
func (s *Store) NewMigrator() (*Migrator, error) {
	fsys, dialect, err := MigrationFS(s.driver)
	if err != nil {
		return nil, err
	}
	db := s.SQLDB()
	if db == nil {
		return nil, fmt.Errorf("store: driver %q has no sql handle", s.driver)
	}
	p, err := goose.NewProvider(dialect, db, fsys, goose.WithLogger(gooseLogger{log: s.log}))
	if err != nil {
		return nil, fmt.Errorf("store: migration provider: %w", err)
	}
	// The pgx handle is a fresh *sql.DB over the pool; the sqlite one is shared.
	return &Migrator{provider: p, db: db, ownsDB: s.driver == DriverPostgres, log: s.log}, nil
}

// Migrate applies every pending migration.
func (s *Store) Migrate(ctx context.Context) error {
	m, err := s.NewMigrator()
	if err != nil {
		return err
	}
	defer m.Close()
	_, err = m.Up(ctx)
	return err
}

func (m *Migrator) Up(ctx context.Context) ([]*goose.MigrationResult, error) {
	results, err := m.provider.Up(ctx)
	if err != nil {
		return results, fmt.Errorf("store: migrate up: %w", err)
	}
	for _, r := range results {
		m.log.Info(ctx, "migration applied", "version", r.Source.Version, "path", r.Source.Path, "duration", r.Duration)
	}
	return results, nil
}

// Down rolls back the most recent migration.
func (m *Migrator) Down(ctx context.Context) (*goose.MigrationResult, error) {
	r, err := m.provider.Down(ctx)
	if err != nil {
		return r, fmt.Errorf("store: migrate down: %w", err)
	}
	m.log.Info(ctx, "migration rolled back", "version", r.Source.Version, "path", r.Source.Path)
	return r, nil
}

func (m *Migrator) Status(ctx context.Context) ([]*goose.MigrationStatus, error) {
	return m.provider.Status(ctx)
}

func (m *Migrator) Version(ctx context.Context) (int64, error) {
	return m.provider.GetDBVersion(ctx)
}

func (m *Migrator) Close() error {
	if m.ownsDB {
		return m.db.Close()
	}
	return nil
}

// gooseLogger routes goose output into the application logger.
type gooseLogger struct {
	log logging.Logger
}

func (g gooseLogger) Printf(format string, v ...interface{}) {
	g.log.Debug(context.Background(), fmt.Sprintf(format, v...), "component", "goose")
}

func (g gooseLogger) Fatalf(format string, v ...interface{}) {
	g.log.Error(context.Background(), fmt.Sprintf(format, v...), "component", "goose")
}
