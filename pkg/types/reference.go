// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the research hub:
// the reference catalog records (Tag, Reference), the static page content
// rendered around them, and the configuration consumed by each command.
package types

import "slices"

// Reference is one curated bibliographic entry in the catalog.
type Reference struct {
	// Title is the display title. It doubles as the stable key of the
	// reference when rendering lists.
	Title string `json:"title" yaml:"title"`

	// Authors is the author line as it should be displayed (e.g. "M. Hofer et al.").
	Authors string `json:"authors" yaml:"authors"`

	// Year is the publication year.
	Year int `json:"year" yaml:"year"`

	// Link is the URL of the source document.
	Link string `json:"link" yaml:"link"`

	// Tags lists the ids of the tags this reference is filed under, in
	// display order. Every id should name a Tag of the same catalog.
	Tags []string `json:"tags" yaml:"tags"`

	// Summary is a short free-text description of the work.
	Summary string `json:"summary" yaml:"summary"`
}

// HasTag reports whether id is one of the reference's tag ids.
func (r Reference) HasTag(id string) bool {
	return slices.Contains(r.Tags, id)
}

// Clone returns a copy of r that shares no memory with it.
func (r Reference) Clone() Reference {
	r.Tags = slices.Clone(r.Tags)
	return r
}
