// Package store is the persistent shelf store. It runs the same goqu-built queries on
// PostgreSQL (pgx) or an embedded SQLite database (modernc, via sqlx).
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"  // dialect registration
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"shelfit/internal/logging"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	DefaultSQLiteDSN = "file:shelfit.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	MemorySQLiteDSN  = "file::memory:?_pragma=foreign_keys(1)"

	defaultTimeout = 3 * time.Second
)

type Config struct {
	Driver string
	DSN    string
	// Timeout bounds every statement.
	Timeout time.Duration
	// SkipMigrations leaves the schema untouched on Open.
	SkipMigrations bool
}

// Store owns the connection and the repositories built on it.
type Store struct {
	db     DB
	driver string
	log    logging.Logger

	Books    *BookRepo
	Comments *CommentRepo
	Users    *UserRepo
	Tokens   *TokenRepo
}

// Open connects to the configured database and applies pending migrations.
func Open(ctx context.Context, cfg Config, log logging.Logger) (*Store, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	var (
		db      DB
		dialect goqu.DialectWrapper
		err     error
	)
	switch cfg.Driver {
	case DriverPostgres:
		db, err = openPostgres(ctx, cfg.DSN)
		dialect = goqu.Dialect("postgres")
	case DriverSQLite, "":
		cfg.Driver = DriverSQLite
		if cfg.DSN == "" {
			cfg.DSN = DefaultSQLiteDSN
		}
		db, err = openSQLite(ctx, cfg.DSN)
		dialect = goqu.Dialect("sqlite3")
	default:
		return nil, fmt.Errorf("store: unknown driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	s := &Store{db: db, driver: cfg.Driver, log: log}
	q := queries{dialect: dialect, timeout: cfg.Timeout}
	s.Books = &BookRepo{db: db, q: q}
	s.Comments = &CommentRepo{db: db, q: q}
	s.Users = &UserRepo{db: db, q: q}
	s.Tokens = &TokenRepo{db: db, q: q}

	if !cfg.SkipMigrations {
		if err := s.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	log.Info(ctx, "store ready", "driver", cfg.Driver, "dsn", RedactDSN(cfg.DSN))
	return s, nil
}

func openPostgres(ctx context.Context, dsn string) (DB, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("store: create pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: ping %s: %w", RedactDSN(dsn), err)
	}
	return NewPGXAdapter(pool), nil
}

func openSQLite(ctx context.Context, dsn string) (DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite: %w", err)
	}
	// One connection: SQLite serializes writers anyway and ":memory:" is per connection.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: enable foreign keys: %w", err)
	}
	return NewSQLXAdapter(db), nil
}

// Driver reports which database the store runs on.
func (s *Store) Driver() string { return s.driver }

func (s *Store) Ping(ctx context.Context) error { return s.db.Ping(ctx) }

func (s *Store) Close() error { return s.db.Close() }

// SQLDB returns a database/sql handle on the same connection pool, for goose.
func (s *Store) SQLDB() *sql.DB {
	switch db := s.db.(type) {
	case *PGXAdapter:
		return stdlib.OpenDBFromPool(db.Pool())
	case *SQLXAdapter:
		return db.SQLX().DB
	}
	return nil
}

// RedactDSN hides the password part of a URL style DSN.
func RedactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}
