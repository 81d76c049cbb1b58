// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render presents catalog content and filtered references: the full
// hub page as HTML, and tables, JSON and CSL-YAML for the command line.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/pdiddy/research-hub/internal/catalog"
	"github.com/pdiddy/research-hub/internal/query"
	"github.com/pdiddy/research-hub/pkg/types"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html.tmpl"))

// PageData is the view model of the hub page.
type PageData struct {
	Content   types.PageContent
	Tags      []catalog.TagCount
	Query     string
	ActiveTag string
	Results   []types.Reference
	Total     int
	Year      int
}

// NewPageData assembles the view model for st. results is the filtered
// reference list for st; it is passed in so callers can instrument the
// evaluation.
func NewPageData(c *catalog.Catalog, st query.State, results []types.Reference, now time.Time) PageData {
	_, tag := st.Normalized()
	return PageData{
		Content:   c.Content(),
		Tags:      c.TagCounts(),
		Query:     st.FreeText,
		ActiveTag: tag,
		Results:   results,
		Total:     c.Len(),
		Year:      now.Year(),
	}
}

// Page renders the full hub page for the given view model.
func Page(w io.Writer, data PageData) error {
	if err := pageTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("rendering page: %w", err)
	}
	return nil
}
