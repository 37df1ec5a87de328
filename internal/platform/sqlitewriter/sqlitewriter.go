// Package sqlitewriter materialises the pipeline's output (spec §6): a
// single SQLite file containing one table, `amikodb`, whose column
// positions are part of the spec's contract and must not be renumbered.
package sqlitewriter

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// schema mirrors spec §6's reserved column layout exactly: columns not
// named by the spec (6, 9, 10, 12, 13, 14, 16 in spec's 1-based numbering)
// are still created so a real `amikodb` consumer sees the same table shape,
// bound to empty string rather than omitted.
const schema = `
CREATE TABLE amikodb (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT,
	auth TEXT,
	atc TEXT,
	substance TEXT,
	regnrs TEXT,
	reserved6 TEXT,
	tindex TEXT,
	application TEXT,
	reserved9 TEXT,
	reserved10 TEXT,
	packInfo TEXT,
	reserved12 TEXT,
	reserved13 TEXT,
	reserved14 TEXT,
	content TEXT,
	reserved16 TEXT,
	packages TEXT
)`

const insertStmt = `INSERT INTO amikodb (
	title, auth, atc, substance, regnrs, reserved6, tindex, application,
	reserved9, reserved10, packInfo, reserved12, reserved13, reserved14,
	content, reserved16, packages
) VALUES (?, ?, ?, ?, ?, '', ?, ?, '', '', ?, '', '', '', ?, '', ?)`

// RowValues is one amikodb row, field names matching spec §6's named
// (non-reserved) columns.
type RowValues struct {
	Title           string
	AuthHolder      string
	AtcCode         string
	ActiveSubstance string
	RegNrs          string
	Tindex          string
	Application     string
	PackInfo        string
	Content         string
	Packages        string
}

// Writer is the output contract the pipeline driver binds rows against
// (spec §1: "the physical SQLite writer ... specified only by the schema
// it must satisfy" — callers depend only on this interface, never on
// database/sql directly).
type Writer interface {
	BindRow(row RowValues) error
	Close() error
}

// sqliteWriter is the concrete Writer backed by database/sql +
// modernc.org/sqlite (spec mandates a single output *file*, so a pure-Go
// driver needing no cgo toolchain is used rather than mattn/go-sqlite3).
type sqliteWriter struct {
	db   *sql.DB
	stmt *sql.Stmt
}

// Open creates the amikodb table in the database file at path (dropping
// any amikodb table already there; other tables are left untouched) and
// prepares the single insert statement every BindRow call reuses for
// the lifetime of the writer.
func Open(ctx context.Context, path string) (Writer, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlitewriter: open %s: %w", path, err)
	}

	if _, err := db.ExecContext(ctx, "DROP TABLE IF EXISTS amikodb"); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlitewriter: drop existing table: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlitewriter: create schema: %w", err)
	}

	stmt, err := db.PrepareContext(ctx, insertStmt)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlitewriter: prepare insert: %w", err)
	}

	return &sqliteWriter{db: db, stmt: stmt}, nil
}

func (w *sqliteWriter) BindRow(row RowValues) error {
	_, err := w.stmt.Exec(
		row.Title, row.AuthHolder, row.AtcCode, row.ActiveSubstance, row.RegNrs,
		row.Tindex, row.Application, row.PackInfo, row.Content, row.Packages,
	)
	if err != nil {
		return fmt.Errorf("sqlitewriter: bind row %q: %w", row.Title, err)
	}
	return nil
}

func (w *sqliteWriter) Close() error {
	if err := w.stmt.Close(); err != nil {
		w.db.Close()
		return fmt.Errorf("sqlitewriter: close statement: %w", err)
	}
	return w.db.Close()
}
