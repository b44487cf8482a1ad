package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/quicktasks/internal/model"
)

// sqlitePragmas are applied to every new SQLite connection.
const sqlitePragmas = "_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_time_format=sqlite"

// SQLStore implements the Store interface on top of a relational database
// reached through database/sql.
type SQLStore struct {
	db      *sqlx.DB
	dialect string
}

// Open connects to the configured database, applies the pool settings
// and runs any pending schema migrations.
func Open(ctx context.Context, cfg model.DatabaseConfig) (*SQLStore, error) {
	driverName, dsn, err := resolveDriver(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s db: %w", cfg.Driver, err)
	}

	if cfg.Driver == model.DriverSQLite && isMemoryDSN(cfg.DSN) {
		// Each connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	} else if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to %s db: %w", cfg.Driver, err)
	}

	s := &SQLStore{db: db, dialect: cfg.Driver}
	if err := s.runMigrations(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// OpenSQLite is a shortcut for a SQLite store at path.
func OpenSQLite(path string) (*SQLStore, error) {
	return Open(context.Background(), model.DatabaseConfig{
		Driver: model.DriverSQLite,
		DSN:    path,
	})
}

// Dialect returns the configured driver name ("sqlite", "postgres", "mysql").
func (s *SQLStore) Dialect() string {
	return s.dialect
}

// Ping checks the database connection.
func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// resolveDriver maps a configured driver to a database/sql driver name and
// a DSN carrying the options the store relies on.
func resolveDriver(cfg model.DatabaseConfig) (string, string, error) {
	switch cfg.Driver {
	case model.DriverSQLite:
		dsn, err := sqliteDSN(cfg.DSN)
		return "sqlite", dsn, err
	case model.DriverPostgres:
		return "pgx", cfg.DSN, nil
	case model.DriverMySQL:
		dsn, err := mysqlDSN(cfg.DSN)
		return "mysql", dsn, err
	default:
		return "", "", fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}

func sqliteDSN(path string) (string, error) {
	if isMemoryDSN(path) {
		return appendQuery(path, sqlitePragmas), nil
	}

	file := path
	if i := strings.IndexByte(file, '?'); i >= 0 {
		file = file[:i]
	}
	file = strings.TrimPrefix(file, "file:")
	if dir := filepath.Dir(file); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("creating database directory %s: %w", dir, err)
		}
	}

	return appendQuery(path, sqlitePragmas+"&_pragma=journal_mode(WAL)"), nil
}

// mysqlDSN forces parseTime so DATETIME columns scan into time.Time.
func mysqlDSN(dsn string) (string, error) {
	c, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parsing mysql dsn: %w", err)
	}
	c.ParseTime = true
	c.Loc = time.UTC
	return c.FormatDSN(), nil
}

func isMemoryDSN(dsn string) bool {
	return strings.HasPrefix(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}

func appendQuery(dsn, query string) string {
	if strings.Contains(dsn, "?") {
		return dsn + "&" + query
	}
	return dsn + "?" + query
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLStore) runMigrations(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaVersionTable); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	currentVersion := 0
	err := s.db.GetContext(ctx, &currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
	if err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		stmts, ok := m.statements[s.dialect]
		if !ok {
			return fmt.Errorf("migration v%d has no %s statements", m.version, s.dialect)
		}
		for _, stmt := range stmts {
			if _, err := s.db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("applying migration v%d: %w", m.version, err)
			}
		}
		_, err := s.db.ExecContext(ctx,
			s.db.Rebind("INSERT INTO schema_version (version) VALUES (?)"), m.version)
		if err != nil {
			return fmt.Errorf("recording migration v%d: %w", m.version, err)
		}
	}

	return nil
}
