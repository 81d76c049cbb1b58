// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export writes the catalog, or a filtered view of it, to files for
// use outside the hub: YAML reloadable with --catalog, JSON, CSL-YAML for
// reference managers and a SQLite snapshot for offline analysis.
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/research-hub/internal/catalog"
	"github.com/pdiddy/research-hub/internal/query"
	"github.com/pdiddy/research-hub/internal/render"
	"github.com/pdiddy/research-hub/pkg/types"
)

// fileNames maps each format to the file it writes inside the output
// directory.
var fileNames = map[types.ExportFormat]string{
	types.ExportYAML:   "references.yaml",
	types.ExportJSON:   "references.json",
	types.ExportCSL:    "references.csl.yaml",
	types.ExportSQLite: "references.db",
}

// Formats lists the supported formats in display order.
func Formats() []types.ExportFormat {
	return []types.ExportFormat{types.ExportYAML, types.ExportJSON, types.ExportCSL, types.ExportSQLite}
}

// ParseFormat validates a format name.
func ParseFormat(s string) (types.ExportFormat, error) {
	f := types.ExportFormat(s)
	if _, ok := fileNames[f]; !ok {
		return "", fmt.Errorf("unknown export format %q: use yaml, json, csl or sqlite", s)
	}
	return f, nil
}

// Options selects what to export and how.
type Options struct {
	Format types.ExportFormat

	// State restricts the export to the references it selects. The zero
	// state exports the whole catalog.
	State query.State
}

// Result describes a finished export.
type Result struct {
	Path  string
	Count int

	// FullText reports whether the SQLite snapshot carries a full-text
	// index. It is false for the other formats and when the SQLite
	// library was built without FTS5.
	FullText bool
}

// jsonDocument is the JSON export layout.
type jsonDocument struct {
	Query      query.State        `json:"query"`
	Tags       []catalog.TagCount `json:"tags"`
	References []types.Reference  `json:"references"`
}

// Write exports c to dir in opts.Format. Files are replaced
// atomically: readers see either the previous export or the new one.
func Write(ctx context.Context, c *catalog.Catalog, dir string, opts Options, w io.Writer) (Result, error) {
	name, ok := fileNames[opts.Format]
	if !ok {
		return Result{}, fmt.Errorf("unknown export format %q", opts.Format)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Result{}, fmt.Errorf("creating output directory %s: %w", dir, err)
	}

	refs := opts.State.Apply(c)
	res := Result{Path: filepath.Join(dir, name), Count: len(refs)}

	var err error
	switch opts.Format {
	case types.ExportYAML:
		err = writeYAML(res.Path, c, refs)
	case types.ExportJSON:
		err = writeJSON(res.Path, c, opts.State, refs)
	case types.ExportCSL:
		err = writeCSL(res.Path, refs)
	case types.ExportSQLite:
		res.FullText, err = writeSQLite(ctx, res.Path, c, opts.State, refs)
	}
	if err != nil {
		return Result{}, fmt.Errorf("exporting %s: %w", opts.Format, err)
	}

	fmt.Fprintf(w, "exported %d of %d references to %s\n", res.Count, c.Len(), res.Path)
	return res, nil
}

// writeYAML writes a catalog file holding refs with the full tag set and
// page content, so that the export can be served with --catalog.
func writeYAML(path string, c *catalog.Catalog, refs []types.Reference) error {
	data, err := catalog.New(c.Tags(), refs, c.Content()).Marshal()
	if err != nil {
		return err
	}
	return atomic.WriteFile(path, bytes.NewReader(data))
}

func writeJSON(path string, c *catalog.Catalog, st query.State, refs []types.Reference) error {
	doc := jsonDocument{Query: st, Tags: c.TagCounts(), References: refs}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return atomic.WriteFile(path, bytes.NewReader(append(data, '\n')))
}

func writeCSL(path string, refs []types.Reference) error {
	data, err := yaml.Marshal(render.CSLItems(refs))
	if err != nil {
		return fmt.Errorf("marshaling CSL: %w", err)
	}
	return atomic.WriteFile(path, bytes.NewReader(data))
}
