package edit

import (
	"context"
	"time"

	"github.com/foldcms/fold/internal/model"
)

const publishDateLayout = "2006-01-02 15:04:05"

// publishingDate formats a publish or depublish date for the form. An unset
// publish date renders as "now" so a fresh record publishes immediately; an
// unset depublish date renders empty.
func publishingDate(t *time.Time, isPublish bool) string {
	if t == nil {
		if isPublish {
			return time.Now().Format(publishDateLayout)
		}
		return ""
	}
	return t.Format(publishDateLayout)
}

// annotateCanUpload returns a copy of fields with CanUpload set on every
// definition. The input map is left untouched.
func annotateCanUpload(fields map[string]*model.FieldDef, canUpload bool) map[string]*model.FieldDef {
	out := make(map[string]*model.FieldDef, len(fields))
	for name, f := range fields {
		c := f.Clone()
		c.CanUpload = canUpload
		out[name] = c
	}
	return out
}

// usedFieldTypes collects the distinct field types the form needs widgets
// for, in field order, plus the synthetic types implied by the presence
// flags.
func usedFieldTypes(ct *model.ContentType, rec *model.Content, has Flags) []string {
	var types []string
	seen := map[string]struct{}{}
	add := func(t string) {
		if t == "" {
			return
		}
		if _, ok := seen[t]; ok {
			return
		}
		seen[t] = struct{}{}
		types = append(types, t)
	}

	for _, name := range ct.FieldOrder {
		add(ct.Fields[name].Type)
	}
	if tf := rec.TemplateFields; tf != nil {
		for _, name := range tf.FieldOrder {
			add(tf.Fields[name].Type)
		}
	}
	if has.Relations || has.IncomingRelations {
		add("relationship")
	}
	if has.Taxonomy {
		add("taxonomy")
	}
	if has.TemplateFields {
		add("templateselect")
	}
	return types
}

// templateFieldTemplates lists the display templates selectable for the
// record, keeping the record's current choice even when configuration no
// longer offers it.
func templateFieldTemplates(ct *model.ContentType, rec *model.Content) []string {
	templates := append([]string(nil), ct.Templates...)
	if tf := rec.TemplateFields; tf != nil && tf.Template != "" && !contains(templates, tf.Template) {
		templates = append(templates, tf.Template)
	}
	return templates
}

// relationsList fetches the candidate records for every configured relation,
// keyed by relation name, for the form's pickers.
func relationsList(ctx context.Context, source ContentSource, ct *model.ContentType, defaultLimit int) (map[string][]*model.Content, error) {
	list := make(map[string][]*model.Content, len(ct.Relations))
	for _, name := range ct.RelationOrder {
		limit := ct.Relations[name].Limit
		if limit <= 0 {
			limit = defaultLimit
		}
		records, err := source.List(ctx, name, limit)
		if err != nil {
			return nil, err
		}
		list[name] = records
	}
	return list, nil
}
