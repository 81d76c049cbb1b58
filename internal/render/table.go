// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/research-hub/internal/catalog"
	"github.com/pdiddy/research-hub/pkg/types"
)

const (
	titleWidth   = 60
	authorsWidth = 24
)

// Table writes refs as a human-readable table to w.
func Table(w io.Writer, refs []types.Reference) {
	if len(refs) == 0 {
		fmt.Fprintln(w, "No references found.")
		return
	}

	fmt.Fprintf(w, "%-3s  %-*s  %-*s  %-4s  %s\n",
		"#", titleWidth, "Title", authorsWidth, "Authors", "Year", "Tags")
	fmt.Fprintln(w, strings.Repeat("-", 3+2+titleWidth+2+authorsWidth+2+4+2+20))

	for i, r := range refs {
		fmt.Fprintf(w, "%-3d  %s  %s  %-4d  %s\n",
			i+1, pad(truncate(r.Title, titleWidth), titleWidth),
			pad(truncate(r.Authors, authorsWidth), authorsWidth),
			r.Year, strings.Join(r.Tags, ","))
	}

	fmt.Fprintf(w, "\n%d references\n", len(refs))
}

// TagTable writes the tag list with per-tag counts. The active tag is
// marked with an asterisk.
func TagTable(w io.Writer, counts []catalog.TagCount, active string) {
	if active == "" {
		active = types.TagAll
	}
	fmt.Fprintf(w, "   %-16s  %-24s  %s\n", "ID", "Label", "Count")
	fmt.Fprintln(w, strings.Repeat("-", 52))
	for _, tc := range counts {
		mark := " "
		if tc.ID == active {
			mark = "*"
		}
		fmt.Fprintf(w, "%s  %-16s  %s  %d\n", mark, tc.ID, pad(truncate(tc.Label, 24), 24), tc.Count)
	}
}

// JSON writes refs as indented JSON to w. An empty result is written as [].
func JSON(w io.Writer, refs []types.Reference) error {
	if refs == nil {
		refs = []types.Reference{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(refs)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// pad right-pads s with spaces to n runes. fmt pads by bytes, which
// misaligns titles containing typographic dashes and quotes.
func pad(s string, n int) string {
	if c := len([]rune(s)); c < n {
		return s + strings.Repeat(" ", n-c)
	}
	return s
}
