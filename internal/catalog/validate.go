// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/pdiddy/research-hub/pkg/types"
)

// IssueKind classifies a catalog integrity problem.
type IssueKind string

const (
	IssueDanglingTag    IssueKind = "dangling-tag"
	IssueDuplicateTag   IssueKind = "duplicate-tag"
	IssueDuplicateTitle IssueKind = "duplicate-title"
	IssueEmptyTitle     IssueKind = "empty-title"
	IssueNoTags         IssueKind = "no-tags"
	IssueMissingAllTag  IssueKind = "missing-all-tag"
	IssueBadLink        IssueKind = "bad-link"
)

// Issue is one data defect found by Validate. Index is the position of the
// offending reference, or -1 for tag-set problems.
type Issue struct {
	Kind   IssueKind `json:"kind" yaml:"kind"`
	Index  int       `json:"index" yaml:"index"`
	Title  string    `json:"title,omitempty" yaml:"title,omitempty"`
	Detail string    `json:"detail" yaml:"detail"`
}

func (i Issue) String() string {
	if i.Index < 0 {
		return fmt.Sprintf("%s: %s", i.Kind, i.Detail)
	}
	return fmt.Sprintf("%s: reference #%d %q: %s", i.Kind, i.Index+1, i.Title, i.Detail)
}

// Validate reports data defects in the catalog: tag ids used by references
// but absent from the tag set, duplicate tag ids and titles, references
// without a title or without tags, a missing wildcard tag and links that are
// not absolute http(s) URLs. Defects are data to be fixed, not runtime
// errors; the query engine tolerates all of them.
func (c *Catalog) Validate() []Issue {
	var issues []Issue

	seenTags := make(map[string]bool, len(c.tags))
	for _, t := range c.tags {
		if seenTags[t.ID] {
			issues = append(issues, Issue{
				Kind: IssueDuplicateTag, Index: -1,
				Detail: fmt.Sprintf("tag id %q is declared more than once", t.ID),
			})
		}
		seenTags[t.ID] = true
	}
	if !seenTags[types.TagAll] {
		issues = append(issues, Issue{
			Kind: IssueMissingAllTag, Index: -1,
			Detail: fmt.Sprintf("tag set has no %q tag", types.TagAll),
		})
	}

	seenTitles := make(map[string]int, len(c.references))
	for i, r := range c.references {
		issue := func(kind IssueKind, format string, args ...any) {
			issues = append(issues, Issue{
				Kind: kind, Index: i, Title: r.Title,
				Detail: fmt.Sprintf(format, args...),
			})
		}

		title := strings.TrimSpace(r.Title)
		if title == "" {
			issue(IssueEmptyTitle, "title is empty")
		} else if first, ok := seenTitles[title]; ok {
			issue(IssueDuplicateTitle, "same title as reference #%d", first+1)
		} else {
			seenTitles[title] = i
		}

		if len(r.Tags) == 0 {
			issue(IssueNoTags, "reference has no tags")
		}
		for _, id := range r.Tags {
			if !c.known[id] {
				issue(IssueDanglingTag, "tag %q is not in the tag set", id)
			}
		}

		if u, err := url.Parse(r.Link); err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			issue(IssueBadLink, "link %q is not an absolute http(s) URL", r.Link)
		}
	}

	return issues
}
