package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"path"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite" // SQLite driver
)

// MemoryDSN opens a private in-memory database.
const MemoryDSN = ":memory:"

// Migration sets, one per store.
const (
	UsersSchema  = "users"
	NotesSchema  = "notes"
	EventsSchema = "events"
)

//go:embed migrations/*/*.sql
var migrations embed.FS

// New creates a new database connection pool.
func New(dataSourceName string) (*sql.DB, error) {
	dsn := dataSourceName
	if dataSourceName != MemoryDSN {
		dsn += "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if dataSourceName == MemoryDSN {
		// Every pooled connection would otherwise see its own empty database.
		db.SetMaxOpenConns(1)
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate applies the embedded goose migrations of the given schema set.
func Migrate(db *sql.DB, schema string) error {
	return MigrateContext(context.Background(), db, schema)
}

// MigrateContext is Migrate with a caller-supplied context.
func MigrateContext(ctx context.Context, db *sql.DB, schema string) error {
	return MigrateToContext(ctx, db, schema, goose.MaxVersion)
}

// MigrateToContext applies the migrations of a schema set up to and including version.
func MigrateToContext(ctx context.Context, db *sql.DB, schema string, version int64) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{})
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.UpToContext(ctx, db, path.Join("migrations", schema), version); err != nil {
		return fmt.Errorf("failed to migrate %s schema: %w", schema, err)
	}
	return nil
}

// Open opens the database at dataSourceName and brings its schema up to date.
func Open(dataSourceName, schema string) (*sql.DB, error) {
	db, err := New(dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", schema, err)
	}
	if err := Migrate(db, schema); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// gooseLogger routes goose output through zerolog.
type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...interface{}) {
	log.Debug().Msgf(format, v...)
}

func (gooseLogger) Fatalf(format string, v ...interface{}) {
	log.Fatal().Msgf(format, v...)
}
