// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/research-hub/pkg/types"
)

// CSLItem is a bibliographic entry in CSL (Citation Style Language) form.
// Field names follow the CSL-YAML schema so the output can be fed to Pandoc
// and reference managers.
type CSLItem struct {
	ID       string    `yaml:"id"`
	Type     string    `yaml:"type"`
	Title    string    `yaml:"title"`
	Author   []CSLName `yaml:"author,omitempty"`
	Abstract string    `yaml:"abstract,omitempty"`
	Issued   *CSLDate  `yaml:"issued,omitempty"`
	URL      string    `yaml:"URL,omitempty"`
	Keyword  string    `yaml:"keyword,omitempty"`
}

// CSLName is a personal name or, through Literal, an organisation.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate is a date in CSL date-parts form.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// CSL writes refs as a CSL-YAML list to w.
func CSL(w io.Writer, refs []types.Reference) error {
	items := CSLItems(refs)
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(items); err != nil {
		return fmt.Errorf("encoding CSL: %w", err)
	}
	return enc.Close()
}

// CSLItems converts refs to CSL items. Item ids are citation keys built
// from the first author's family name and the year; clashes get a letter
// suffix (Hofer2021, Hofer2021a).
func CSLItems(refs []types.Reference) []CSLItem {
	items := make([]CSLItem, 0, len(refs))
	seen := make(map[string]int)
	for _, r := range refs {
		item := toCSLItem(r)
		key := item.ID
		if n := seen[key]; n > 0 {
			item.ID = fmt.Sprintf("%s%c", key, 'a'+rune(n-1))
		}
		seen[key]++
		items = append(items, item)
	}
	return items
}

func toCSLItem(r types.Reference) CSLItem {
	item := CSLItem{
		Type:     cslType(r.Title),
		Title:    r.Title,
		Abstract: r.Summary,
		URL:      r.Link,
		Keyword:  strings.Join(r.Tags, ", "),
	}
	item.Author = parseAuthors(r.Authors)
	if r.Year > 0 {
		item.Issued = &CSLDate{DateParts: [][]int{{r.Year}}}
	}
	item.ID = citationKey(item.Author, r.Year)
	return item
}

// cslType guesses the CSL item type from the venue hint in the title.
func cslType(title string) string {
	t := strings.ToLower(title)
	switch {
	case strings.Contains(t, "thesis"):
		return "thesis"
	case strings.Contains(t, "documentation"), strings.Contains(t, "docs"), strings.Contains(t, "blog"):
		return "webpage"
	default:
		return "article-journal"
	}
}

// parseAuthors splits an author credit such as "M. Hofer et al." or
// "A. Smith and B. Jones" into CSL names. A trailing "et al." is dropped.
func parseAuthors(credit string) []CSLName {
	credit = strings.TrimSpace(credit)
	credit = strings.TrimSpace(strings.TrimSuffix(credit, "et al."))
	credit = strings.TrimSuffix(credit, ",")
	if credit == "" {
		return nil
	}
	credit = strings.ReplaceAll(credit, " and ", ",")
	credit = strings.ReplaceAll(credit, " & ", ",")

	var names []CSLName
	for _, part := range strings.Split(credit, ",") {
		if n := parseAuthorName(part); n != (CSLName{}) {
			names = append(names, n)
		}
	}
	return names
}

// parseAuthorName splits a name on the last space: everything before is
// given, the last token is family. Names whose first token is not an
// initial ("BMC Software") and single-token names use the literal field.
func parseAuthorName(name string) CSLName {
	name = strings.TrimSpace(name)
	if name == "" {
		return CSLName{}
	}
	idx := strings.LastIndex(name, " ")
	if idx < 0 || !strings.HasSuffix(strings.Fields(name)[0], ".") {
		return CSLName{Literal: name}
	}
	return CSLName{
		Given:  name[:idx],
		Family: name[idx+1:],
	}
}

func citationKey(authors []CSLName, year int) string {
	base := "anon"
	if len(authors) > 0 {
		base = authors[0].Family
		if base == "" {
			base = strings.Fields(authors[0].Literal)[0]
		}
	}
	base = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, base)
	if year > 0 {
		return fmt.Sprintf("%s%d", base, year)
	}
	return base
}
