// Package catalog keeps a SQLite history of generation runs so a map can
// be found again by seed.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/Faultbox/facetland/internal/logger"
)

var ErrEmptyPath = errors.New("empty catalog path")

// timeLayout keeps every fraction digit so created_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Run is one recorded generation.
type Run struct {
	ID          string
	Seed        uint32
	Log2Size    int
	Flags       uint32
	Vertices    int
	Triangles   int
	Props       int
	SessionPath string
	CreatedAt   time.Time
}

// Catalog is an open run history.
type Catalog struct {
	db  *sql.DB
	log *zap.Logger
}

// Open opens or creates the catalog database at path.
func Open(path string) (*Catalog, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init catalog schema: %w", err)
	}
	return &Catalog{db: db, log: logger.Named("catalog")}, nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=5000;",
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			seed INTEGER NOT NULL,
			log2_size INTEGER NOT NULL,
			flags INTEGER NOT NULL,
			vertices INTEGER NOT NULL,
			triangles INTEGER NOT NULL,
			props INTEGER NOT NULL,
			session_path TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS runs_seed ON runs(seed);`,
		`CREATE INDEX IF NOT EXISTS runs_created ON runs(created_at);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// Record stores r, filling in ID and CreatedAt when unset, and returns the
// stored run.
func (c *Catalog) Record(ctx context.Context, r Run) (Run, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	r.CreatedAt = r.CreatedAt.UTC()

	_, err := c.db.ExecContext(ctx,
		`INSERT INTO runs (id, seed, log2_size, flags, vertices, triangles, props, session_path, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, int64(r.Seed), r.Log2Size, int64(r.Flags), r.Vertices, r.Triangles, r.Props,
		r.SessionPath, r.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}
	c.log.Debug("run recorded", zap.String("id", r.ID), zap.Uint32("seed", r.Seed))
	return r, nil
}

const selectRuns = `SELECT id, seed, log2_size, flags, vertices, triangles, props, session_path, created_at FROM runs`

// Recent returns up to limit runs, newest first.
func (c *Catalog) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	return c.query(ctx, selectRuns+` ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
}

// BySeed returns every run generated from seed, newest first.
func (c *Catalog) BySeed(ctx context.Context, seed uint32) ([]Run, error) {
	return c.query(ctx, selectRuns+` WHERE seed = ? ORDER BY created_at DESC, rowid DESC`, int64(seed))
}

func (c *Catalog) query(ctx context.Context, q string, args ...any) ([]Run, error) {
	rows, err := c.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var (
			r       Run
			seed    int64
			flags   int64
			created string
		)
		if err := rows.Scan(&r.ID, &seed, &r.Log2Size, &flags, &r.Vertices, &r.Triangles,
			&r.Props, &r.SessionPath, &created); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Seed = uint32(seed)
		r.Flags = uint32(flags)
		if r.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
			return nil, fmt.Errorf("run %s: bad timestamp %q: %w", r.ID, created, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close closes the database.
func (c *Catalog) Close() error {
	return c.db.Close()
}
