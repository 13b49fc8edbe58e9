package edit

import (
	"unicode"

	"github.com/foldcms/fold/internal/model"
)

// GroupingPolicy selects between the two historical tab-grouping behaviors.
type GroupingPolicy string

const (
	// PolicyEager always creates groups for every configured relation,
	// taxonomy and template field, with per-item fallback groups. This is
	// the default: it never drops configured items just because no
	// top-level group placeholder was declared.
	PolicyEager GroupingPolicy = "eager"

	// PolicyLazy only creates the relations/taxonomy/template groups when
	// the corresponding content or presence flag warrants it, and marks
	// them with a single synthetic entry instead of per-item entries.
	PolicyLazy GroupingPolicy = "lazy"
)

// Valid reports whether p is a known policy.
func (p GroupingPolicy) Valid() bool { return p == PolicyEager || p == PolicyLazy }

// Grouper builds the tab groups for an edit form.
type Grouper struct {
	Policy     GroupingPolicy
	Taxonomies map[string]*model.TaxonomyDef
	Translator Translator
}

// BuildGroups partitions the content type's fields, template fields,
// relations and taxonomies into ordered tab groups. incoming is keyed by
// source content type; a relation already surfaced there is not listed
// again. The result depends only on the inputs: re-running with identical
// inputs yields identical output.
func (g *Grouper) BuildGroups(ct *model.ContentType, has Flags, rec *model.Content, incoming map[string][]*model.Content) *Groups {
	groups := NewGroups()

	declared := ct.Groups
	if len(declared) == 0 {
		declared = []string{"ungrouped"}
	}

	if g.Policy == PolicyLazy {
		g.buildLazy(groups, ct, has, rec, declared)
	} else {
		g.buildEager(groups, ct, has, rec, incoming, declared)
	}
	return groups
}

// buildEager creates a group per declared entry, then walks every
// configured field source, creating fallback groups on demand.
func (g *Grouper) buildEager(groups *Groups, ct *model.ContentType, has Flags, rec *model.Content, incoming map[string][]*model.Content, declared []string) {
	for _, name := range declared {
		groups.Ensure(name, g.groupLabel(ct, name))
	}

	for _, name := range ct.FieldOrder {
		key := fieldGroup(ct.Fields[name])
		groups.Ensure(key, g.groupLabel(ct, key))
		groups.Append(key, name)
	}

	if tf := rec.TemplateFields; tf != nil {
		for _, name := range tf.FieldOrder {
			key := fieldGroup(tf.Fields[name])
			if key == "ungrouped" {
				key = "template"
			}
			groups.Ensure(key, g.groupLabel(ct, key))
			groups.Append(key, "templatefield_"+name)
		}
	}

	if has.Relations || has.IncomingRelations {
		groups.Ensure("relations", g.groupLabel(ct, "relations"))
		groups.Append("relations", "*relations")
	}
	for _, name := range ct.RelationOrder {
		if _, surfaced := incoming[name]; surfaced {
			continue
		}
		key := ct.Relations[name].Group
		if key == "" {
			key = "relations"
		}
		groups.Ensure(key, g.groupLabel(ct, key))
		groups.Append(key, "relation_"+name)
	}

	for _, name := range ct.Taxonomy {
		key := "taxonomy"
		if def := g.Taxonomies[name]; def != nil && def.Group != "" {
			key = def.Group
		}
		groups.Ensure(key, g.groupLabel(ct, key))
		groups.Append(key, "taxonomy_"+name)
	}

	groups.Ensure("meta", g.groupLabel(ct, "meta"))
	groups.Append("meta", "*meta")
}

// buildLazy reproduces the older behavior: synthetic groups appear only when
// their content does, each carrying a single marker entry, and plain fields
// are assigned last.
func (g *Grouper) buildLazy(groups *Groups, ct *model.ContentType, has Flags, rec *model.Content, declared []string) {
	for _, name := range declared {
		switch name {
		case "meta", "relations", "taxonomy":
			// placed by the steps below
		default:
			groups.Ensure(name, g.groupLabel(ct, name))
		}
	}

	if has.Relations || has.IncomingRelations {
		groups.Ensure("relations", g.groupLabel(ct, "relations"))
		groups.Append("relations", "*relations")
	}
	if has.Taxonomy || contains(ct.Groups, "taxonomy") {
		groups.Ensure("taxonomy", g.groupLabel(ct, "taxonomy"))
		groups.Append("taxonomy", "*taxonomy")
	}
	if has.TemplateFields || contains(ct.Groups, "template") {
		groups.Ensure("template", g.groupLabel(ct, "template"))
		groups.Append("template", "*template")
	}

	groups.Ensure("meta", g.groupLabel(ct, "meta"))
	groups.Append("meta", "*meta")

	for _, name := range ct.FieldOrder {
		key := fieldGroup(ct.Fields[name])
		groups.Ensure(key, g.groupLabel(ct, key))
		groups.Append(key, name)
	}
}

// groupLabel resolves the human-readable tab label, falling back to the
// capitalized group key when no translation exists.
func (g *Grouper) groupLabel(ct *model.ContentType, key string) string {
	switch key {
	case "ungrouped", "relations", "taxonomy", "template", "meta":
		return g.Translator.Translate("contenttypes.generic.group."+key, ucfirst(key))
	}
	return g.Translator.Translate("contenttypes."+ct.Slug+".group."+key, ucfirst(key))
}

func fieldGroup(f *model.FieldDef) string {
	if f == nil || f.Group == "" {
		return "ungrouped"
	}
	return f.Group
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func ucfirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
