package edit

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/foldcms/fold/internal/i18n"
	"github.com/foldcms/fold/internal/model"
)

func testContentType() *model.ContentType {
	return &model.ContentType{
		Key:      "pages",
		Slug:     "pages",
		Groups:   []string{"content", "media"},
		ShowTabs: true,
		Fields: map[string]*model.FieldDef{
			"title": {Type: "text", Group: "content"},
			"body":  {Type: "html", Group: "content"},
			"image": {Type: "image", Group: "media", Uploadable: true},
			"notes": {Type: "textarea"},
		},
		FieldOrder: []string{"title", "body", "image", "notes"},
		Relations: map[string]*model.RelationDef{
			"entries": {Multiple: true},
		},
		RelationOrder: []string{"entries"},
		Taxonomy:      []string{"categories"},
	}
}

func newGrouper(policy GroupingPolicy) *Grouper {
	return &Grouper{
		Policy: policy,
		Taxonomies: map[string]*model.TaxonomyDef{
			"categories": {Key: "categories"},
		},
		Translator: i18n.New("en", map[string]string{
			"contenttypes.generic.group.meta": "Metadata",
		}),
	}
}

func TestBuildGroupsEager(t *testing.T) {
	ct := testContentType()
	rec := &model.Content{ID: "r1", ContentType: "pages"}
	has := Flags{Relations: true, Tabs: true, Taxonomy: true}

	groups := newGrouper(PolicyEager).BuildGroups(ct, has, rec, nil)

	require.Equal(t,
		[]string{"content", "media", "ungrouped", "relations", "taxonomy", "meta"},
		groups.Keys())

	require.Equal(t, []string{"title", "body"}, groups.Get("content").Fields)
	require.Equal(t, []string{"image"}, groups.Get("media").Fields)
	require.Equal(t, []string{"notes"}, groups.Get("ungrouped").Fields)
	require.Equal(t, []string{"*relations", "relation_entries"}, groups.Get("relations").Fields)
	require.Equal(t, []string{"taxonomy_categories"}, groups.Get("taxonomy").Fields)
	require.Equal(t, []string{"*meta"}, groups.Get("meta").Fields)

	// translated label where a message exists, ucfirst fallback otherwise
	require.Equal(t, "Metadata", groups.Get("meta").Label)
	require.Equal(t, "Content", groups.Get("content").Label)
}

func TestBuildGroupsEagerSkipsSurfacedIncoming(t *testing.T) {
	ct := testContentType()
	rec := &model.Content{ID: "r1", ContentType: "pages"}
	has := Flags{Relations: true, IncomingRelations: true, Tabs: true}
	incoming := map[string][]*model.Content{
		"entries": {{ID: "e1", ContentType: "entries"}},
	}

	groups := newGrouper(PolicyEager).BuildGroups(ct, has, rec, incoming)

	// entries already shows under incoming, so no relation_entries entry
	require.Equal(t, []string{"*relations"}, groups.Get("relations").Fields)
}

func TestBuildGroupsEagerTemplateFields(t *testing.T) {
	ct := testContentType()
	rec := &model.Content{
		ID:          "r1",
		ContentType: "pages",
		TemplateFields: &model.TemplateFields{
			Template: "feature.twig",
			Fields: map[string]*model.FieldDef{
				"banner": {Type: "image"},
				"quote":  {Type: "text", Group: "content"},
			},
			FieldOrder: []string{"banner", "quote"},
		},
	}
	has := Flags{Tabs: true, TemplateFields: true}

	groups := newGrouper(PolicyEager).BuildGroups(ct, has, rec, nil)

	// ungrouped template fields land on "template", grouped ones merge in
	require.Equal(t, []string{"templatefield_banner"}, groups.Get("template").Fields)
	require.Contains(t, groups.Get("content").Fields, "templatefield_quote")
}

func TestBuildGroupsLazy(t *testing.T) {
	ct := testContentType()
	rec := &model.Content{ID: "r1", ContentType: "pages"}
	has := Flags{Relations: true, Tabs: true, Taxonomy: true}

	groups := newGrouper(PolicyLazy).BuildGroups(ct, has, rec, nil)

	require.Equal(t,
		[]string{"content", "media", "relations", "taxonomy", "meta", "ungrouped"},
		groups.Keys())

	// synthetic groups carry a single marker, no per-item entries
	require.Equal(t, []string{"*relations"}, groups.Get("relations").Fields)
	require.Equal(t, []string{"*taxonomy"}, groups.Get("taxonomy").Fields)
	require.Equal(t, []string{"*meta"}, groups.Get("meta").Fields)
	// plain fields still placed
	require.Equal(t, []string{"title", "body"}, groups.Get("content").Fields)
	require.Equal(t, []string{"notes"}, groups.Get("ungrouped").Fields)
	require.False(t, groups.Has("template"))
}

func TestBuildGroupsLazyDeclaredSynthetic(t *testing.T) {
	ct := testContentType()
	ct.Groups = []string{"content", "taxonomy", "template"}
	rec := &model.Content{ID: "r1", ContentType: "pages"}

	// no presence flags: declared placeholders still force the groups
	groups := newGrouper(PolicyLazy).BuildGroups(ct, Flags{Tabs: true}, rec, nil)

	require.True(t, groups.Has("taxonomy"))
	require.True(t, groups.Has("template"))
	require.False(t, groups.Has("relations"))
}

func TestBuildGroupsNoDeclaredGroups(t *testing.T) {
	ct := &model.ContentType{
		Key:      "notes",
		Slug:     "notes",
		ShowTabs: true,
		Fields: map[string]*model.FieldDef{
			"text": {Type: "textarea"},
		},
		FieldOrder: []string{"text"},
	}
	rec := &model.Content{ID: "n1", ContentType: "notes"}

	groups := newGrouper(PolicyEager).BuildGroups(ct, Flags{Tabs: true}, rec, nil)

	require.Equal(t, []string{"ungrouped", "meta"}, groups.Keys())
	require.Equal(t, []string{"text"}, groups.Get("ungrouped").Fields)
}

func TestBuildGroupsSingleActiveAndUniqueIDs(t *testing.T) {
	for _, policy := range []GroupingPolicy{PolicyEager, PolicyLazy} {
		ct := testContentType()
		rec := &model.Content{ID: "r1", ContentType: "pages"}
		has := Flags{Relations: true, Tabs: true, Taxonomy: true}

		groups := newGrouper(policy).BuildGroups(ct, has, rec, nil)

		active := 0
		ids := map[string]struct{}{}
		for _, key := range groups.Keys() {
			grp := groups.Get(key)
			if grp.IsActive {
				active++
			}
			_, dup := ids[grp.ID]
			require.False(t, dup, "duplicate tab id %q under %s", grp.ID, policy)
			ids[grp.ID] = struct{}{}
		}
		require.Equal(t, 1, active, "policy %s", policy)
	}
}

func TestBuildGroupsIdempotent(t *testing.T) {
	ct := testContentType()
	rec := &model.Content{ID: "r1", ContentType: "pages"}
	has := Flags{Relations: true, Tabs: true, Taxonomy: true}
	g := newGrouper(PolicyEager)

	first, err := json.Marshal(g.BuildGroups(ct, has, rec, nil))
	require.NoError(t, err)
	second, err := json.Marshal(g.BuildGroups(ct, has, rec, nil))
	require.NoError(t, err)
	require.Equal(t, string(first), string(second))
}

func TestBuildGroupsDoesNotMutateInputs(t *testing.T) {
	ct := testContentType()
	rec := &model.Content{ID: "r1", ContentType: "pages"}
	before, err := json.Marshal(ct)
	require.NoError(t, err)

	newGrouper(PolicyEager).BuildGroups(ct, Flags{Relations: true, Taxonomy: true}, rec, nil)

	after, err := json.Marshal(ct)
	require.NoError(t, err)
	require.Equal(t, string(before), string(after))
	require.Equal(t, []string{"content", "media"}, ct.Groups)
}
