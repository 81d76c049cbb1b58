// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/research-hub/internal/catalog"
	"github.com/pdiddy/research-hub/pkg/types"
)

const blockchainTitle = "Blockchain-Based Security Configuration Management for ICT Systems (MDPI Electronics)"

func defaultCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Default()
	require.NoError(t, err)
	return c
}

func titles(refs []types.Reference) []string {
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = r.Title
	}
	return out
}

// --- properties ---

func TestFilterIdentity(t *testing.T) {
	c := defaultCatalog(t)

	assert.Equal(t, c.References(), Filter(c, "", types.TagAll))
	assert.Equal(t, c.References(), Filter(c, "   ", ""), "blank text and empty tag select everything")
}

func TestFilterIdempotent(t *testing.T) {
	c := defaultCatalog(t)

	for _, tag := range c.Tags() {
		for _, text := range []string{"", "cmdb", "graph", "xyz"} {
			assert.Equal(t, Filter(c, text, tag.ID), Filter(c, text, tag.ID), "text=%q tag=%q", text, tag.ID)
		}
	}
}

func TestFilterTagExclusivity(t *testing.T) {
	c := defaultCatalog(t)

	for _, tag := range c.Tags() {
		if tag.IsAll() {
			continue
		}
		got := make(map[string]bool)
		for _, r := range Filter(c, "", tag.ID) {
			got[r.Title] = true
		}
		for _, r := range c.References() {
			assert.Equal(t, r.HasTag(tag.ID), got[r.Title], "tag=%q title=%q", tag.ID, r.Title)
		}
	}
}

func TestFilterCaseInsensitive(t *testing.T) {
	c := defaultCatalog(t)

	for _, tag := range c.Tags() {
		assert.Equal(t, Filter(c, "blockchain", tag.ID), Filter(c, "BLOCKCHAIN", tag.ID), "tag=%q", tag.ID)
		assert.Equal(t, Filter(c, "blockchain", tag.ID), Filter(c, "BlockChain", tag.ID), "tag=%q", tag.ID)
	}
}

func TestFilterWhitespaceTolerance(t *testing.T) {
	c := defaultCatalog(t)

	padded := Filter(c, "  kg  ", types.TagAll)
	assert.Equal(t, Filter(c, "kg", types.TagAll), padded)
	assert.Equal(t, []string{
		"Using Knowledge Graphs to Automate Network Compliance of Containerized Services (CNSM 2024)",
		"Construction of Knowledge Graphs: Current State and Challenges (MDPI Information)",
	}, titles(padded))

	assert.Equal(t, Filter(c, "cmdb", "process"), Filter(c, "\tcmdb\n", "process"))
}

func TestFilterConjunctiveNarrowing(t *testing.T) {
	c := defaultCatalog(t)

	for _, tag := range c.Tags() {
		for _, text := range []string{"cmdb", "graph", "anomaly", "et al", "mdpi", "z"} {
			both := len(Filter(c, text, tag.ID))
			assert.LessOrEqual(t, both, len(Filter(c, "", tag.ID)), "text=%q tag=%q", text, tag.ID)
			assert.LessOrEqual(t, both, len(Filter(c, text, types.TagAll)), "text=%q tag=%q", text, tag.ID)
		}
	}
}

// --- scenarios ---

func TestFilterScenarios(t *testing.T) {
	c := defaultCatalog(t)

	tests := []struct {
		name string
		text string
		tag  string
		want []string
	}{
		{
			name: "blockchain across all tags",
			text: "blockchain", tag: "all",
			want: []string{blockchainTitle},
		},
		{
			name: "blockchain within knowledge graphs",
			text: "blockchain", tag: "kg",
			want: []string{},
		},
		{
			name: "ml tag only",
			text: "", tag: "ml",
			want: []string{
				"Anomaly Analytics in Data‑Driven ML Systems (Int J Data Sci & Analytics)",
				"Machine Learning‑Based Network Anomaly Detection (MDPI Systems)",
			},
		},
		{
			name: "no match",
			text: "nonexistent-term-xyz", tag: "all",
			want: []string{},
		},
		{
			name: "matches authors",
			text: "hofer", tag: "",
			want: []string{"Construction of Knowledge Graphs: Current State and Challenges (MDPI Information)"},
		},
		{
			name: "matches summary only",
			text: "shap", tag: "all",
			want: []string{"Machine Learning‑Based Network Anomaly Detection (MDPI Systems)"},
		},
		{
			name: "security tag",
			text: "", tag: "security",
			want: []string{blockchainTitle},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(c, tt.text, tt.tag)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, titles(got))
			assert.Equal(t, len(tt.want), Count(c, tt.text, tt.tag))
		})
	}
}

// --- fields that are never searched ---

func TestFilterIgnoresLinkYearAndTags(t *testing.T) {
	c := catalog.New(
		[]types.Tag{types.AllTag(), {ID: "security", Label: "Security"}},
		[]types.Reference{{
			Title:   "Audit trails",
			Authors: "A. Author",
			Year:    2023,
			Link:    "https://example.org/ledger.pdf",
			Tags:    []string{"security"},
			Summary: "Immutable change history.",
		}},
		types.PageContent{},
	)

	for _, text := range []string{"ledger", "example.org", "2023", "security"} {
		assert.Empty(t, Filter(c, text, types.TagAll), "text=%q should not match", text)
	}
	assert.Len(t, Filter(c, "audit", types.TagAll), 1)
}

// --- data-integrity tolerance ---

func TestFilterIgnoresUnknownTags(t *testing.T) {
	c := catalog.New(
		[]types.Tag{types.AllTag(), {ID: "kg", Label: "Knowledge Graphs"}},
		[]types.Reference{
			{Title: "Dangling", Tags: []string{"ghost", "kg"}},
			{Title: "Only ghost", Tags: []string{"ghost"}},
		},
		types.PageContent{},
	)

	assert.Equal(t, []string{"Dangling", "Only ghost"}, titles(Filter(c, "", types.TagAll)))
	assert.Equal(t, []string{"Dangling"}, titles(Filter(c, "", "kg")))
	assert.Empty(t, Filter(c, "", "ghost"), "tag ids outside the tag set never match")
	assert.Empty(t, Filter(c, "", "no-such-tag"))
}

func TestFilterEmptyCatalog(t *testing.T) {
	c := catalog.New(nil, nil, types.PageContent{})

	got := Filter(c, "", types.TagAll)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

// --- no aliasing ---

func TestFilterDoesNotAliasCatalog(t *testing.T) {
	c := defaultCatalog(t)
	before := c.References()

	got := Filter(c, "", types.TagAll)
	got[0].Title = "changed"
	got[0].Tags[0] = "changed"

	assert.Equal(t, before, c.References())
}

func TestFilterConcurrent(t *testing.T) {
	c := defaultCatalog(t)
	want := Filter(c, "cmdb", "process")

	var wg sync.WaitGroup
	results := make([][]types.Reference, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Filter(c, "cmdb", "process")
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

// --- State ---

func TestState(t *testing.T) {
	tests := []struct {
		name       string
		state      State
		wantNeedle string
		wantTag    string
		wantZero   bool
	}{
		{"zero value", State{}, "", "all", true},
		{"blank text", State{FreeText: "  \t"}, "", "all", true},
		{"text normalized", State{FreeText: "  KG "}, "kg", "all", false},
		{"tag only", State{ActiveTag: "ml"}, "", "ml", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			needle, tag := tt.state.Normalized()
			assert.Equal(t, tt.wantNeedle, needle)
			assert.Equal(t, tt.wantTag, tag)
			assert.Equal(t, tt.wantZero, tt.state.IsZero())
		})
	}
}

func TestStateApply(t *testing.T) {
	c := defaultCatalog(t)

	st := State{FreeText: "blockchain", ActiveTag: "security"}
	assert.Equal(t, Filter(c, st.FreeText, st.ActiveTag), st.Apply(c))
	assert.Equal(t, []string{blockchainTitle}, titles(st.Apply(c)))
}
