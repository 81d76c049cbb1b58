// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/natefinch/atomic"

	"github.com/pdiddy/research-hub/internal/catalog"
	"github.com/pdiddy/research-hub/internal/query"
	"github.com/pdiddy/research-hub/pkg/types"
)

var schema = []string{
	`CREATE TABLE tags (
		id TEXT PRIMARY KEY,
		label TEXT NOT NULL,
		position INTEGER NOT NULL
	)`,
	`CREATE TABLE refs (
		rowid INTEGER PRIMARY KEY,
		position INTEGER NOT NULL,
		title TEXT NOT NULL,
		authors TEXT,
		year INTEGER,
		link TEXT,
		summary TEXT
	)`,
	// tag_id has no foreign key: dangling tag ids are exported as found.
	`CREATE TABLE reference_tags (
		ref_id INTEGER NOT NULL REFERENCES refs(rowid),
		tag_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		PRIMARY KEY (ref_id, tag_id)
	)`,
	`CREATE INDEX idx_reference_tags_tag_id ON reference_tags(tag_id)`,
	`CREATE TABLE export_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,
}

var ftsSchema = []string{
	`CREATE VIRTUAL TABLE refs_fts USING fts5(title, authors, summary, content=refs, content_rowid=rowid)`,
	`INSERT INTO refs_fts(refs_fts) VALUES('rebuild')`,
}

// writeSQLite builds the snapshot in a temporary file next to path and
// moves it into place once complete. It reports whether the full-text
// table could be created.
func writeSQLite(ctx context.Context, path string, c *catalog.Catalog, st query.State, refs []types.Reference) (bool, error) {
	tmp := path + ".tmp"
	if err := os.Remove(tmp); err != nil && !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("removing stale %s: %w", tmp, err)
	}

	fullText, err := buildSnapshot(ctx, tmp, c, st, refs)
	if err != nil {
		os.Remove(tmp)
		return false, err
	}
	if err := atomic.ReplaceFile(tmp, path); err != nil {
		os.Remove(tmp)
		return false, fmt.Errorf("replacing %s: %w", path, err)
	}
	return fullText, nil
}

func buildSnapshot(ctx context.Context, path string, c *catalog.Catalog, st query.State, refs []types.Reference) (fullText bool, err error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return false, fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing database: %w", cerr)
		}
	}()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range schema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return false, fmt.Errorf("executing schema statement: %w", err)
		}
	}

	for i, t := range c.Tags() {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO tags (id, label, position) VALUES (?, ?, ?)`,
			t.ID, t.Label, i,
		); err != nil {
			return false, fmt.Errorf("inserting tag %s: %w", t.ID, err)
		}
	}

	refStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO refs (position, title, authors, year, link, summary) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return false, fmt.Errorf("preparing insert: %w", err)
	}
	defer refStmt.Close()

	tagStmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO reference_tags (ref_id, tag_id, position) VALUES (?, ?, ?)`)
	if err != nil {
		return false, fmt.Errorf("preparing insert: %w", err)
	}
	defer tagStmt.Close()

	for i, r := range refs {
		res, err := refStmt.ExecContext(ctx, i, r.Title, r.Authors, r.Year, r.Link, r.Summary)
		if err != nil {
			return false, fmt.Errorf("inserting reference %q: %w", r.Title, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return false, fmt.Errorf("reading row id: %w", err)
		}
		for j, tag := range r.Tags {
			if _, err := tagStmt.ExecContext(ctx, id, tag, j); err != nil {
				return false, fmt.Errorf("tagging reference %q: %w", r.Title, err)
			}
		}
	}

	needle, tag := st.Normalized()
	meta := map[string]string{
		"query":       needle,
		"tag":         tag,
		"references":  fmt.Sprint(len(refs)),
		"catalog":     fmt.Sprint(c.Len()),
		"exported_at": time.Now().UTC().Format(time.RFC3339),
	}
	for k, v := range meta {
		if _, err := tx.ExecContext(ctx, `INSERT INTO export_meta (key, value) VALUES (?, ?)`, k, v); err != nil {
			return false, fmt.Errorf("writing export metadata: %w", err)
		}
	}

	fullText, err = createFullText(ctx, tx)
	if err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing snapshot: %w", err)
	}
	return fullText, nil
}

// createFullText adds the FTS5 table. A library built without FTS5
// reports "no such module"; the snapshot is then written without it.
func createFullText(ctx context.Context, tx *sql.Tx) (bool, error) {
	if _, err := tx.ExecContext(ctx, `SAVEPOINT fts`); err != nil {
		return false, fmt.Errorf("creating savepoint: %w", err)
	}
	for _, stmt := range ftsSchema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			if isMissingModule(err) {
				if _, rerr := tx.ExecContext(ctx, `ROLLBACK TO fts`); rerr != nil {
					return false, fmt.Errorf("rolling back full-text table: %w", rerr)
				}
				if _, rerr := tx.ExecContext(ctx, `RELEASE fts`); rerr != nil {
					return false, fmt.Errorf("releasing savepoint: %w", rerr)
				}
				return false, nil
			}
			return false, fmt.Errorf("creating full-text table: %w", err)
		}
	}
	if _, err := tx.ExecContext(ctx, `RELEASE fts`); err != nil {
		return false, fmt.Errorf("releasing savepoint: %w", err)
	}
	return true, nil
}

func isMissingModule(err error) bool {
	var serr sqlite3.Error
	if errors.As(err, &serr) && serr.Code == sqlite3.ErrError {
		return strings.Contains(serr.Error(), "no such module")
	}
	return strings.Contains(err.Error(), "no such module")
}
