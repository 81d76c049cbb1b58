// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// TagAll is the id of the wildcard tag. Selecting it applies no category filter.
const TagAll = "all"

// Tag is a category used to file references.
type Tag struct {
	// ID is the short stable identifier (e.g. "kg"), unique within a catalog.
	ID string `json:"id" yaml:"id"`

	// Label is the human-readable name shown on tag controls.
	Label string `json:"label" yaml:"label"`
}

// IsAll reports whether t is the wildcard tag.
func (t Tag) IsAll() bool {
	return t.ID == TagAll
}

// AllTag returns the wildcard tag with its default label.
func AllTag() Tag {
	return Tag{ID: TagAll, Label: "All"}
}
