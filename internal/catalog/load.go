// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/research-hub/pkg/types"
)

//go:embed default.yaml
var defaultCatalog []byte

// File is the on-disk YAML representation of a catalog.
type File struct {
	Tags       []types.Tag       `yaml:"tags"`
	References []types.Reference `yaml:"references"`
	Content    types.PageContent `yaml:"content"`
}

// Default returns the built-in catalog compiled into the binary.
func Default() (*Catalog, error) {
	c, err := Parse(defaultCatalog)
	if err != nil {
		return nil, fmt.Errorf("parsing built-in catalog: %w", err)
	}
	return c, nil
}

// Open loads the catalog at path, or the built-in catalog when path is empty.
func Open(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	return Load(path)
}

// Load reads a YAML catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse builds a catalog from YAML. A tag set without the wildcard tag gets
// it prepended so tag controls always offer an unfiltered view.
func Parse(data []byte) (*Catalog, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return f.Catalog(), nil
}

// Catalog builds an immutable catalog from the file contents.
func (f File) Catalog() *Catalog {
	tags := f.Tags
	hasAll := false
	for _, t := range tags {
		if t.IsAll() {
			hasAll = true
			break
		}
	}
	if !hasAll {
		tags = append([]types.Tag{types.AllTag()}, tags...)
	}
	return New(tags, f.References, f.Content)
}

// Marshal encodes the catalog back into its YAML file form.
func (c *Catalog) Marshal() ([]byte, error) {
	f := File{
		Tags:       c.Tags(),
		References: c.References(),
		Content:    c.Content(),
	}
	data, err := yaml.Marshal(&f)
	if err != nil {
		return nil, fmt.Errorf("marshaling catalog: %w", err)
	}
	return data, nil
}
