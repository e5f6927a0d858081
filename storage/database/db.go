package database

import (
	"embed"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"

	"github.com/trezcool/shule/core"
)

//go:embed migrations
var migrationsFS embed.FS

// Engines
const (
	EngineSQLite   = "sqlite3"
	EnginePostgres = "postgres"
)

func dsn(dbName string, conf *core.Config) string {
	if conf.Database.Engine == EngineSQLite {
		q := make(url.Values)
		q.Set("_foreign_keys", "on")
		q.Set("_busy_timeout", "5000")
		return dbName + "?" + q.Encode()
	}

	sslMode := "require"
	if conf.Database.DisableTLS {
		sslMode = "disable"
	}
	q := make(url.Values)
	q.Set("sslmode", sslMode)
	q.Set("timezone", "utc")

	u := url.URL{
		Scheme:   EnginePostgres,
		User:     url.UserPassword(conf.Database.User, conf.Database.Password),
		Host:     conf.Database.Address(),
		Path:     dbName,
		RawQuery: q.Encode(),
	}
	return u.String()
}

func Open(conf *core.Config) (*sqlx.DB, error) {
	return OpenNamed(conf.Database.Name, conf)
}

// OpenNamed opens a specific database on the configured engine; tests use it
// to point at throwaway databases.
func OpenNamed(dbName string, conf *core.Config) (*sqlx.DB, error) {
	db, err := sqlx.Open(conf.Database.Engine, dsn(dbName, conf))
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if conf.Database.Engine == EngineSQLite {
		// a single writer; the driver serializes instead of failing with SQLITE_BUSY
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

// Ping waits for the database to be ready. Waits 100ms longer between each attempt.
func Ping(db *sqlx.DB) error {
	var err error
	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		err = db.Ping()
		if err == nil {
			break
		}
		time.Sleep(time.Duration(attempts) * 100 * time.Millisecond)
	}

	if err != nil {
		return errors.Wrap(err, "DB ping timeout")
	}
	return nil
}

// Migrate applies all pending migrations for the configured engine.
func Migrate(db *sqlx.DB, conf *core.Config) error {
	dir := "migrations/sqlite"
	dialect := EngineSQLite
	if conf.Database.Engine == EnginePostgres {
		dir = "migrations/postgres"
		dialect = EnginePostgres
	}

	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(dialect); err != nil {
		return errors.Wrap(err, "setting migration dialect")
	}
	if err := goose.Up(db.DB, dir); err != nil {
		return errors.Wrap(err, "migrating database")
	}
	return nil
}

// MigrateCommand runs an arbitrary goose command (up, down, status, ...)
// against the configured engine's migration set.
func MigrateCommand(db *sqlx.DB, conf *core.Config, command string, args ...string) error {
	dir := "migrations/sqlite"
	dialect := EngineSQLite
	if conf.Database.Engine == EnginePostgres {
		dir = "migrations/postgres"
		dialect = EnginePostgres
	}

	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect(dialect); err != nil {
		return errors.Wrap(err, "setting migration dialect")
	}
	return errors.Wrap(goose.Run(command, db.DB, dir, args...), "running migration command")
}
