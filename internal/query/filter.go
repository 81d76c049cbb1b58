// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package query computes the filtered view of a catalog for a free-text
// query and an active tag. Filtering is a pure function of its inputs: it
// never reads global state, never mutates the catalog and allocates a fresh
// result on every call, so consumers may call it after every keystroke and
// from concurrent goroutines.
package query

import (
	"strings"

	"github.com/pdiddy/research-hub/internal/catalog"
	"github.com/pdiddy/research-hub/pkg/types"
)

// State is the transient query state owned by a consumer: the raw text
// typed in the search box and the selected tag.
type State struct {
	// FreeText is the raw query; it may be empty or padded with whitespace.
	FreeText string `json:"q" yaml:"q"`

	// ActiveTag is the selected tag id. Empty means types.TagAll.
	ActiveTag string `json:"tag" yaml:"tag"`
}

// Normalized returns the search needle (trimmed, lower-cased) and the
// effective tag id.
func (s State) Normalized() (needle, tag string) {
	return Needle(s.FreeText), resolveTag(s.ActiveTag)
}

// IsZero reports whether the state selects the whole catalog.
func (s State) IsZero() bool {
	needle, tag := s.Normalized()
	return needle == "" && tag == types.TagAll
}

// Apply filters c with the state.
func (s State) Apply(c *catalog.Catalog) []types.Reference {
	return Filter(c, s.FreeText, s.ActiveTag)
}

// Needle normalizes free text for matching.
func Needle(freeText string) string {
	return strings.ToLower(strings.TrimSpace(freeText))
}

func resolveTag(id string) string {
	if id == "" {
		return types.TagAll
	}
	return id
}

// Filter returns the references of c that carry activeTagID and whose title,
// authors or summary contain freeText, in catalog order.
//
// freeText is trimmed and compared case-insensitively as a plain substring;
// an empty needle matches every reference. The wildcard tag (or an empty
// activeTagID) matches every reference. Tag ids that are not part of the
// catalog's tag set never match, so a dangling tag on a reference is
// ignored and an unknown activeTagID yields an empty result. Link, year and
// tag ids are never searched.
//
// The result is never nil and shares no memory with the catalog.
func Filter(c *catalog.Catalog, freeText, activeTagID string) []types.Reference {
	needle := Needle(freeText)
	tag := resolveTag(activeTagID)

	out := make([]types.Reference, 0, c.Len())
	c.Each(func(_ int, r types.Reference) bool {
		if matchesTag(c, r, tag) && matchesText(r, needle) {
			out = append(out, r.Clone())
		}
		return true
	})
	return out
}

// Count returns the size of Filter(c, freeText, activeTagID) without
// building the result.
func Count(c *catalog.Catalog, freeText, activeTagID string) int {
	needle := Needle(freeText)
	tag := resolveTag(activeTagID)

	n := 0
	c.Each(func(_ int, r types.Reference) bool {
		if matchesTag(c, r, tag) && matchesText(r, needle) {
			n++
		}
		return true
	})
	return n
}

func matchesTag(c *catalog.Catalog, r types.Reference, tag string) bool {
	if tag == types.TagAll {
		return true
	}
	return c.HasTag(tag) && r.HasTag(tag)
}

func matchesText(r types.Reference, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(r.Title), needle) ||
		strings.Contains(strings.ToLower(r.Authors), needle) ||
		strings.Contains(strings.ToLower(r.Summary), needle)
}
