// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"slices"
	"strings"
)

// Hero holds the introductory banner at the top of the hub page.
type Hero struct {
	// Kicker is the short line above the headline.
	Kicker string `json:"kicker" yaml:"kicker"`

	// Headline is the main heading; Highlight is appended to it in accent colour.
	Headline  string `json:"headline" yaml:"headline"`
	Highlight string `json:"highlight" yaml:"highlight"`

	// Lead is the paragraph under the headline.
	Lead string `json:"lead" yaml:"lead"`

	// Badges are the keyword pills shown under the lead.
	Badges []string `json:"badges" yaml:"badges"`
}

// Theme is one research theme card.
type Theme struct {
	Title string `json:"title" yaml:"title"`
	Body  string `json:"body" yaml:"body"`
}

// ProjectLink is a call-to-action attached to a featured project.
type ProjectLink struct {
	Href  string `json:"href" yaml:"href"`
	Label string `json:"label" yaml:"label"`
}

// External reports whether the link leaves the hub page.
func (l ProjectLink) External() bool {
	return strings.HasPrefix(l.Href, "http://") || strings.HasPrefix(l.Href, "https://")
}

// Project is a featured project card.
type Project struct {
	Title       string        `json:"title" yaml:"title"`
	Description string        `json:"description" yaml:"description"`
	Links       []ProjectLink `json:"links" yaml:"links"`
}

// PageContent is the static, non-filterable content of the hub page. It is
// rendered as-is next to the reference list.
type PageContent struct {
	SiteName string    `json:"site_name" yaml:"site_name"`
	Hero     Hero      `json:"hero" yaml:"hero"`
	About    string    `json:"about" yaml:"about"`
	Scope    []string  `json:"scope" yaml:"scope"`
	Themes   []Theme   `json:"themes" yaml:"themes"`
	Methods  []string  `json:"methods" yaml:"methods"`
	Projects []Project `json:"projects" yaml:"projects"`

	// Note is the remark printed under the reference list.
	Note string `json:"note" yaml:"note"`
}

// Clone returns a deep copy of c.
func (c PageContent) Clone() PageContent {
	c.Hero.Badges = slices.Clone(c.Hero.Badges)
	c.Scope = slices.Clone(c.Scope)
	c.Themes = slices.Clone(c.Themes)
	c.Methods = slices.Clone(c.Methods)
	projects := make([]Project, len(c.Projects))
	for i, p := range c.Projects {
		p.Links = slices.Clone(p.Links)
		projects[i] = p
	}
	if c.Projects == nil {
		projects = nil
	}
	c.Projects = projects
	return c
}
