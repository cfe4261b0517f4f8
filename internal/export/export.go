package export

import (
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/arealog/internal/clock"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Initial schema (pre-migration)
// 1 - Added index on records.figura
// 2 - exported_at stored in fixed-width TimeLayout
const currentSchemaVersion = 2

// Exporter writes log snapshots to a SQLite database.
type Exporter struct {
	db    *sql.DB
	clock clock.Clock
	newID func() string
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithClock sets the clock used for batch timestamps.
func WithClock(clk clock.Clock) Option {
	return func(e *Exporter) {
		e.clock = clock.OrSystem(clk)
	}
}

// WithIDGenerator replaces the batch id generator.
func WithIDGenerator(fn func() string) Option {
	return func(e *Exporter) {
		if fn != nil {
			e.newID = fn
		}
	}
}

// newBatchID returns a UUIDv7; ids sort in creation order.
func newBatchID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Open creates or opens the export database at path.
// Applies required pragmas and migrations automatically.
func Open(path string, opts ...Option) (*Exporter, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	e := &Exporter{
		db:    db,
		clock: clock.System{},
		newID: newBatchID,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Close closes the database connection.
func (e *Exporter) Close() error {
	if e.db == nil {
		return nil
	}
	return e.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

// applySchema creates tables if they don't exist and runs migrations.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	if err := runMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// runMigrations applies incremental schema migrations based on user_version.
func runMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version < 1 {
		if err := migrateToV1(db); err != nil {
			return err
		}
	}
	if version < 2 {
		if err := migrateToV2(db); err != nil {
			return err
		}
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}

// migrateToV1 indexes records by figure for per-figure queries.
func migrateToV1(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_records_figura
		ON records(figura)
	`)
	if err != nil {
		return fmt.Errorf("migrate to v1: %w", err)
	}
	return nil
}

// migrateToV2 rewrites exported_at in the fixed-width TimeLayout so that
// text order is time order. Earlier rows used RFC 3339 with trimmed
// fractional seconds.
func migrateToV2(db *sql.DB) error {
	rows, err := db.Query(`SELECT id, exported_at FROM exports`)
	if err != nil {
		return fmt.Errorf("migrate to v2: %w", err)
	}
	updates := map[string]string{}
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			rows.Close()
			return fmt.Errorf("migrate to v2: %w", err)
		}
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			rows.Close()
			return fmt.Errorf("migrate to v2: export %s: %w", id, err)
		}
		if fixed := formatTime(t); fixed != raw {
			updates[id] = fixed
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("migrate to v2: %w", err)
	}

	for id, fixed := range updates {
		if _, err := db.Exec(`UPDATE exports SET exported_at = ? WHERE id = ?`, fixed, id); err != nil {
			return fmt.Errorf("migrate to v2: export %s: %w", id, err)
		}
	}
	return nil
}
