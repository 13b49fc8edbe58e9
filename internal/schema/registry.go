// Package schema loads and serves the process-wide content-type and
// taxonomy configuration. The configuration is read once at startup and is
// read-only afterwards, so the registry is safe for concurrent readers.
package schema

import (
	"fmt"
	"os"

	"github.com/gosimple/slug"
	"gopkg.in/yaml.v3"

	"github.com/foldcms/fold/internal/model"
)

// fieldTypes is the registry of field types the form engine ships widgets
// for. Exposed to templates as the "fields" context key.
var fieldTypes = []string{
	"text", "slug", "textarea", "html", "markdown",
	"image", "imagelist", "file", "filelist", "video",
	"select", "checkbox", "integer", "float",
	"date", "datetime", "geolocation", "hidden", "repeater",
	"templateselect", "relationship", "taxonomy",
}

// Registry holds the parsed configuration.
type Registry struct {
	types      map[string]*model.ContentType
	order      []string
	taxonomies map[string]*model.TaxonomyDef
}

// Load reads contenttypes and taxonomy YAML files. taxonomyPath may be
// empty when no taxonomies are configured.
func Load(contentTypesPath, taxonomyPath string) (*Registry, error) {
	ctRaw, err := os.ReadFile(contentTypesPath)
	if err != nil {
		return nil, fmt.Errorf("read contenttypes config: %w", err)
	}
	var taxRaw []byte
	if taxonomyPath != "" {
		taxRaw, err = os.ReadFile(taxonomyPath)
		if err != nil {
			return nil, fmt.Errorf("read taxonomy config: %w", err)
		}
	}
	return Parse(ctRaw, taxRaw)
}

// Parse builds a registry from raw YAML. Declaration order of content types
// and their fields is preserved.
func Parse(contentTypesRaw, taxonomyRaw []byte) (*Registry, error) {
	reg := &Registry{
		types:      map[string]*model.ContentType{},
		taxonomies: map[string]*model.TaxonomyDef{},
	}

	if len(taxonomyRaw) > 0 {
		var doc yaml.Node
		if err := yaml.Unmarshal(taxonomyRaw, &doc); err != nil {
			return nil, fmt.Errorf("parse taxonomy config: %w", err)
		}
		if root := mappingRoot(&doc); root != nil {
			for i := 0; i+1 < len(root.Content); i += 2 {
				key := root.Content[i].Value
				def := &model.TaxonomyDef{}
				if err := root.Content[i+1].Decode(def); err != nil {
					return nil, fmt.Errorf("taxonomy %q: %w", key, err)
				}
				def.Key = key
				reg.taxonomies[key] = def
			}
		}
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(contentTypesRaw, &doc); err != nil {
		return nil, fmt.Errorf("parse contenttypes config: %w", err)
	}
	root := mappingRoot(&doc)
	if root == nil {
		return nil, fmt.Errorf("contenttypes config: expected a mapping of content types")
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		key := root.Content[i].Value
		ct, err := decodeContentType(key, root.Content[i+1])
		if err != nil {
			return nil, err
		}
		if err := reg.validate(ct); err != nil {
			return nil, err
		}
		reg.types[key] = ct
		reg.order = append(reg.order, key)
	}
	return reg, nil
}

// ContentType returns the schema for key, or model.ErrNotFound.
func (r *Registry) ContentType(key string) (*model.ContentType, error) {
	ct, ok := r.types[key]
	if !ok {
		return nil, fmt.Errorf("contenttype %q: %w", key, model.ErrNotFound)
	}
	return ct, nil
}

// ContentTypes returns all content types in declaration order.
func (r *Registry) ContentTypes() []*model.ContentType {
	out := make([]*model.ContentType, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.types[key])
	}
	return out
}

// Taxonomies returns the process-wide taxonomy definitions.
func (r *Registry) Taxonomies() map[string]*model.TaxonomyDef { return r.taxonomies }

// FieldTypes returns the registered field type names.
func (r *Registry) FieldTypes() []string { return append([]string(nil), fieldTypes...) }

type contentTypeYAML struct {
	Name         string    `yaml:"name"`
	SingularName string    `yaml:"singular_name"`
	Slug         string    `yaml:"slug"`
	Groups       []string  `yaml:"groups"`
	ShowTabs     *bool     `yaml:"show_tabs"`
	Fields       yaml.Node `yaml:"fields"`
	Relations    yaml.Node `yaml:"relations"`
	Taxonomy     []string  `yaml:"taxonomy"`
	Templates    []string  `yaml:"templates"`
}

func decodeContentType(key string, node *yaml.Node) (*model.ContentType, error) {
	var raw contentTypeYAML
	if err := node.Decode(&raw); err != nil {
		return nil, fmt.Errorf("contenttype %q: %w", key, err)
	}

	ct := &model.ContentType{
		Key:          key,
		Slug:         raw.Slug,
		Name:         raw.Name,
		SingularName: raw.SingularName,
		Groups:       raw.Groups,
		ShowTabs:     raw.ShowTabs == nil || *raw.ShowTabs,
		Fields:       map[string]*model.FieldDef{},
		Taxonomy:     raw.Taxonomy,
		Templates:    raw.Templates,
	}
	if ct.Slug == "" {
		ct.Slug = slug.Make(key)
	}
	if raw.Fields.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(raw.Fields.Content); i += 2 {
			name := raw.Fields.Content[i].Value
			f := &model.FieldDef{}
			if err := raw.Fields.Content[i+1].Decode(f); err != nil {
				return nil, fmt.Errorf("contenttype %q field %q: %w", key, name, err)
			}
			if f.Group == "" {
				f.Group = "ungrouped"
			}
			ct.Fields[name] = f
			ct.FieldOrder = append(ct.FieldOrder, name)
		}
	}
	if raw.Relations.Kind == yaml.MappingNode {
		ct.Relations = map[string]*model.RelationDef{}
		for i := 0; i+1 < len(raw.Relations.Content); i += 2 {
			name := raw.Relations.Content[i].Value
			rel := &model.RelationDef{}
			if err := raw.Relations.Content[i+1].Decode(rel); err != nil {
				return nil, fmt.Errorf("contenttype %q relation %q: %w", key, name, err)
			}
			ct.Relations[name] = rel
			ct.RelationOrder = append(ct.RelationOrder, name)
		}
	}
	return ct, nil
}

// validate surfaces configuration errors at load time: a field assigned to a
// group that is neither declared nor one of the synthetic group keys, or a
// taxonomy reference with no process-wide definition.
func (r *Registry) validate(ct *model.ContentType) error {
	if len(ct.Groups) > 0 {
		known := map[string]struct{}{
			"ungrouped": {}, "relations": {}, "taxonomy": {}, "template": {}, "meta": {},
		}
		for _, g := range ct.Groups {
			known[g] = struct{}{}
		}
		for _, name := range ct.FieldOrder {
			if _, ok := known[ct.Fields[name].Group]; !ok {
				return fmt.Errorf("contenttype %q field %q references undeclared group %q: %w",
					ct.Key, name, ct.Fields[name].Group, model.ErrValidation)
			}
		}
	}
	for _, tax := range ct.Taxonomy {
		if _, ok := r.taxonomies[tax]; !ok {
			return fmt.Errorf("contenttype %q references unknown taxonomy %q: %w",
				ct.Key, tax, model.ErrValidation)
		}
	}
	return nil
}

func mappingRoot(doc *yaml.Node) *yaml.Node {
	if doc.Kind == yaml.DocumentNode && len(doc.Content) == 1 && doc.Content[0].Kind == yaml.MappingNode {
		return doc.Content[0]
	}
	if doc.Kind == yaml.MappingNode {
		return doc
	}
	return nil
}
