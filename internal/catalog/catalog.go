// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog holds the fixed, ordered set of references and tags the
// hub filters over, together with the static page content rendered around
// them. A Catalog is built once at startup and never mutated; every accessor
// returns copies so callers cannot alter it.
package catalog

import (
	"github.com/pdiddy/research-hub/pkg/types"
)

// Catalog is an immutable collection of references, tags and page content.
// It is safe for concurrent use.
type Catalog struct {
	tags       []types.Tag
	references []types.Reference
	content    types.PageContent
	known      map[string]bool
}

// TagCount pairs a tag with the number of references filed under it.
type TagCount struct {
	types.Tag
	Count int `json:"count" yaml:"count"`
}

// New builds a catalog from the given records. The input slices are copied;
// later changes to them do not affect the catalog. Integrity problems such as
// dangling tag ids are not rejected here; see Validate.
func New(tags []types.Tag, refs []types.Reference, content types.PageContent) *Catalog {
	c := &Catalog{
		tags:       make([]types.Tag, len(tags)),
		references: make([]types.Reference, len(refs)),
		content:    content.Clone(),
		known:      make(map[string]bool, len(tags)),
	}
	copy(c.tags, tags)
	for i, r := range refs {
		c.references[i] = r.Clone()
	}
	for _, t := range tags {
		c.known[t.ID] = true
	}
	return c
}

// Len returns the number of references.
func (c *Catalog) Len() int {
	return len(c.references)
}

// Tags returns the tag set in catalog order.
func (c *Catalog) Tags() []types.Tag {
	out := make([]types.Tag, len(c.tags))
	copy(out, c.tags)
	return out
}

// References returns every reference in catalog order.
func (c *Catalog) References() []types.Reference {
	out := make([]types.Reference, len(c.references))
	for i, r := range c.references {
		out[i] = r.Clone()
	}
	return out
}

// Each calls fn for every reference in catalog order until fn returns false.
// The reference passed to fn is the catalog's own value; fn must not modify
// its Tags slice.
func (c *Catalog) Each(fn func(i int, r types.Reference) bool) {
	for i, r := range c.references {
		if !fn(i, r) {
			return
		}
	}
}

// Content returns the static page content.
func (c *Catalog) Content() types.PageContent {
	return c.content.Clone()
}

// Tag looks up a tag by id.
func (c *Catalog) Tag(id string) (types.Tag, bool) {
	for _, t := range c.tags {
		if t.ID == id {
			return t, true
		}
	}
	return types.Tag{}, false
}

// HasTag reports whether id names a tag of the catalog.
func (c *Catalog) HasTag(id string) bool {
	return c.known[id]
}

// TagCounts returns, for every tag in catalog order, the number of references
// filed under it. The wildcard tag counts the whole catalog.
func (c *Catalog) TagCounts() []TagCount {
	counts := make([]TagCount, len(c.tags))
	for i, t := range c.tags {
		counts[i].Tag = t
		if t.IsAll() {
			counts[i].Count = len(c.references)
			continue
		}
		for _, r := range c.references {
			if r.HasTag(t.ID) {
				counts[i].Count++
			}
		}
	}
	return counts
}
