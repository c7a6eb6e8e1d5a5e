// Package store records issued GUIDs in a SQL database so that a service
// can audit what it handed out and detect a repeated identifier.
//
// Two drivers are supported: "mysql" (github.com/go-sql-driver/mysql) and
// "sqlite" (modernc.org/sqlite, pure Go). GUIDs are stored in their canonical
// 36-character text form through hguid.GUID's sql.Scanner and driver.Valuer.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"

	"github.com/Lzww0608/hguid"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"

	tableName = "hguid_registry"

	// mysqlDuplicateEntry is ER_DUP_ENTRY.
	mysqlDuplicateEntry = 1062
)

var (
	// ErrDuplicate is returned by Record when a GUID is already registered.
	ErrDuplicate = errors.New("store: guid already registered")

	// ErrNotFound is returned by Lookup for an unknown GUID.
	ErrNotFound = errors.New("store: guid not found")

	// ErrUnsupportedDriver is returned by Open for drivers other than mysql and sqlite.
	ErrUnsupportedDriver = errors.New("store: unsupported driver")
)

var schemas = map[string]string{
	DriverMySQL: `CREATE TABLE IF NOT EXISTS ` + tableName + ` (
		id CHAR(36) NOT NULL PRIMARY KEY,
		tag VARCHAR(64) NOT NULL,
		created_at BIGINT NOT NULL,
		INDEX idx_` + tableName + `_tag (tag)
	)`,
	DriverSQLite: `CREATE TABLE IF NOT EXISTS ` + tableName + ` (
		id TEXT NOT NULL PRIMARY KEY,
		tag TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_` + tableName + `_tag ON ` + tableName + ` (tag)`,
}

// Options configures a Registry.
type Options struct {
	// Driver is DriverMySQL or DriverSQLite.
	Driver string

	// DSN is the data source name. For sqlite it is a file path or ":memory:".
	DSN string

	// MySQL, when set, is formatted into the DSN and takes precedence over DSN.
	MySQL *mysql.Config

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	Logger *slog.Logger
}

// Entry is one registered GUID.
type Entry struct {
	ID        hguid.GUID
	Tag       string
	CreatedAt time.Time
}

// Registry is a SQL-backed set of issued GUIDs. It is safe for concurrent use.
type Registry struct {
	db     *sql.DB
	driver string
	log    *slog.Logger
	now    func() time.Time
}

// Open connects to the database, tunes the pool and creates the registry
// table if it does not exist.
func Open(ctx context.Context, opts Options) (*Registry, error) {
	dsn, err := dataSourceName(opts)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(opts.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", opts.Driver, err)
	}

	maxOpen, maxIdle, lifetime := opts.MaxOpenConns, opts.MaxIdleConns, opts.ConnMaxLifetime
	if maxOpen == 0 {
		maxOpen = 10
	}
	if maxIdle == 0 {
		maxIdle = 5
	}
	if lifetime == 0 {
		lifetime = time.Hour
	}
	// every connection to ":memory:" would see its own empty database
	if opts.Driver == DriverSQLite && dsn == ":memory:" {
		maxOpen, maxIdle = 1, 1
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(lifetime)

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	r := &Registry{
		db:     db,
		driver: opts.Driver,
		log:    logger.With("component", "store", "driver", opts.Driver),
		now:    time.Now,
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping %s: %w", opts.Driver, err)
	}
	if err := r.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

func dataSourceName(opts Options) (string, error) {
	switch opts.Driver {
	case DriverMySQL:
		if opts.MySQL != nil {
			return opts.MySQL.FormatDSN(), nil
		}
		if _, err := mysql.ParseDSN(opts.DSN); err != nil {
			return "", fmt.Errorf("store: mysql dsn: %w", err)
		}
		return opts.DSN, nil
	case DriverSQLite:
		if opts.DSN == "" {
			return ":memory:", nil
		}
		return opts.DSN, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDriver, opts.Driver)
	}
}

func (r *Registry) migrate(ctx context.Context) error {
	stmts := strings.Split(schemas[r.driver], ";")
	for _, stmt := range stmts {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("store: migrate: %w", err)
		}
	}
	return nil
}

// Record registers ids under tag in a single transaction. If any id is
// already registered nothing is written and the error wraps ErrDuplicate.
func (r *Registry) Record(ctx context.Context, tag string, ids ...hguid.GUID) error {
	if len(ids) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO "+tableName+" (id, tag, created_at) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("store: prepare insert: %w", err)
	}
	defer stmt.Close()

	created := r.now().UnixNano()
	for _, id := range ids {
		if _, err := stmt.ExecContext(ctx, id, tag, created); err != nil {
			if r.isDuplicate(err) {
				r.log.Warn("duplicate guid", "id", id.String(), "tag", tag)
				return fmt.Errorf("store: insert %s: %w", id, ErrDuplicate)
			}
			return fmt.Errorf("store: insert %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	r.log.Debug("recorded guids", "tag", tag, "count", len(ids))
	return nil
}

// Issue generates n GUIDs with gen and records them under tag.
func (r *Registry) Issue(ctx context.Context, gen *hguid.Generator, tag string, n int) ([]hguid.GUID, error) {
	ids := gen.NewBatch(n)
	if err := r.Record(ctx, tag, ids...); err != nil {
		return nil, err
	}
	return ids, nil
}

// Lookup returns the registry entry for id.
func (r *Registry) Lookup(ctx context.Context, id hguid.GUID) (Entry, error) {
	var (
		e       Entry
		created int64
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT id, tag, created_at FROM "+tableName+" WHERE id = ?", id).
		Scan(&e.ID, &e.Tag, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("store: lookup %s: %w", id, err)
	}
	e.CreatedAt = time.Unix(0, created)
	return e, nil
}

// Count returns the number of GUIDs registered under tag, or under any tag
// when tag is empty.
func (r *Registry) Count(ctx context.Context, tag string) (int64, error) {
	query := "SELECT COUNT(*) FROM " + tableName
	var args []any
	if tag != "" {
		query += " WHERE tag = ?"
		args = append(args, tag)
	}

	var n int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("store: count: %w", err)
	}
	return n, nil
}

// Close closes the underlying database.
func (r *Registry) Close() error {
	return r.db.Close()
}

func (r *Registry) isDuplicate(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry
	}
	// modernc.org/sqlite reports constraint violations in the message text
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
